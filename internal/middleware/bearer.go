package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/lingoprep/lingoprep-be/internal/auth"
)

type contextKey int

const claimsKey contextKey = iota

// RequireAuth verifies the Authorization bearer token and stores its claims
// in the request context. Missing or invalid credentials end the request with
// a 401; the server, not the client, is the source of truth for authorization.
func RequireAuth(tokens *auth.TokenManager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get("Authorization"))
		const prefix = "Bearer "
		if !strings.HasPrefix(raw, prefix) {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		claims, err := tokens.Parse(strings.TrimSpace(raw[len(prefix):]))
		if err != nil {
			http.Error(w, "invalid bearer token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

// ClaimsFrom returns the verified claims stored by RequireAuth, if any.
func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

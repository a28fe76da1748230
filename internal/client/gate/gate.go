// Package gate decides whether navigation into a practice test route may
// proceed. The decision is recomputed on every navigation; nothing here is
// cached, so the outcome always reflects current auth and session state.
package gate

import (
	"context"
	"fmt"

	"github.com/lingoprep/lingoprep-be/internal/models"
)

// AuthResolver answers "who is the current user", collapsing every failure
// to nil.
type AuthResolver interface {
	ResolveCurrentUser(ctx context.Context) *models.User
}

// SessionResolver reads the stored session identifier for a mode.
type SessionResolver interface {
	SessionID(ctx context.Context, mode models.PracticeMode) (string, bool)
}

// Route identifies one protected practice test route.
type Route struct {
	Locale string
	Mode   models.PracticeMode
}

// TestPath is the guarded route path.
func (r Route) TestPath() string {
	return fmt.Sprintf("/%s/practice/%s/test", r.Locale, r.Mode)
}

// LoginPath is where unauthenticated navigation lands.
func (r Route) LoginPath() string {
	return fmt.Sprintf("/%s/login", r.Locale)
}

// SetupPath is where navigation without a session identifier lands:
// the rules page for listening/reading, the customize page for writing.
func (r Route) SetupPath() string {
	if r.Mode == models.ModeWriting {
		return "/practice/writing/customize"
	}
	return fmt.Sprintf("/practice/%s/rules", r.Mode)
}

// Decision is the gate's outcome: either render with the resolved session
// identifier, or redirect. Redirects are control flow, not errors.
type Decision struct {
	Allowed    bool
	SessionID  string
	RedirectTo string
}

// Allow builds a render decision carrying the identifier downstream.
func Allow(sessionID string) Decision {
	return Decision{Allowed: true, SessionID: sessionID}
}

// RedirectTo builds a redirect decision.
func RedirectTo(path string) Decision {
	return Decision{RedirectTo: path}
}

// Gate composes the auth and session resolvers.
type Gate struct {
	auth     AuthResolver
	sessions SessionResolver
}

// New constructs a Gate.
func New(auth AuthResolver, sessions SessionResolver) *Gate {
	return &Gate{auth: auth, sessions: sessions}
}

// EvaluateAccess applies the access rules in order. The auth check settles
// first and takes precedence: an unauthenticated caller never reaches the
// session lookup.
func (g *Gate) EvaluateAccess(ctx context.Context, route Route) Decision {
	if user := g.auth.ResolveCurrentUser(ctx); user == nil {
		return RedirectTo(route.LoginPath())
	}
	sessionID, ok := g.sessions.SessionID(ctx, route.Mode)
	if !ok {
		return RedirectTo(route.SetupPath())
	}
	return Allow(sessionID)
}

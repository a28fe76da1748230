package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/lingoprep/lingoprep-be/internal/client/api"
	"github.com/lingoprep/lingoprep-be/internal/client/gate"
	"github.com/lingoprep/lingoprep-be/internal/client/session"
	"github.com/lingoprep/lingoprep-be/internal/client/store"
	"github.com/lingoprep/lingoprep-be/internal/models"
)

// The client binary evaluates the access gate for one practice route and,
// when allowed, fetches the session's result and the practice history.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}

	var (
		locale  = flag.String("locale", "en", "route locale")
		mode    = flag.String("mode", "reading", "practice mode (listening|reading|writing)")
		version = flag.String("version", "v2", "result contract version (v1|v2)")
	)
	flag.Parse()

	baseURL := strings.TrimSpace(os.Getenv("LINGOPREP_API_URL"))
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	statePath := strings.TrimSpace(os.Getenv("LINGOPREP_STATE_PATH"))
	if statePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("resolve home dir: %v", err)
		}
		statePath = filepath.Join(home, ".lingoprep", "state.db")
	}
	if dir := filepath.Dir(statePath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			log.Fatalf("create state dir: %v", err)
		}
	}

	ctx := context.Background()
	state, err := store.Open(ctx, statePath)
	if err != nil {
		log.Fatalf("open state store: %v", err)
	}
	defer state.Close()

	creds := api.StaticToken(strings.TrimSpace(os.Getenv("LINGOPREP_TOKEN")))
	client := api.New(baseURL, creds)
	sessions := session.NewResolver(state)
	accessGate := gate.New(client, sessions)

	route := gate.Route{Locale: *locale, Mode: models.PracticeMode(*mode)}
	decision := accessGate.EvaluateAccess(ctx, route)
	if !decision.Allowed {
		log.Printf("%s -> redirect %s", route.TestPath(), decision.RedirectTo)
		return
	}
	log.Printf("%s -> allowed (session %s)", route.TestPath(), decision.SessionID)

	result, err := client.FetchResult(ctx, decision.SessionID, api.ContentKind(*mode), api.ResultVersion(*version))
	if err != nil {
		log.Fatalf("fetch result: %v", err)
	}
	switch result.Version {
	case api.V2:
		log.Printf("result v2: score=%.1f band=%s answers=%d", result.V2.Score, result.V2.Band, len(result.V2.Answers))
	default:
		log.Printf("result v1: %s", compact(result.Raw))
	}

	history, err := client.FetchHistory(ctx)
	if err != nil {
		log.Fatalf("fetch history: %v", err)
	}
	log.Printf("history: %d entries", len(history))
}

func compact(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

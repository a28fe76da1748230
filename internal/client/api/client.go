// Package api is the HTTP client for the practice service: identity
// resolution, versioned result retrieval, content and history fetches.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lingoprep/lingoprep-be/internal/models"
)

// CredentialProvider yields the current bearer token, if any. Injected at
// construction so call sites never plumb tokens themselves and tests can
// substitute fakes.
type CredentialProvider interface {
	Token() (string, bool)
}

// StaticToken is a CredentialProvider around a fixed token string. An empty
// string means no credential.
type StaticToken string

func (t StaticToken) Token() (string, bool) {
	return string(t), t != ""
}

// ResultVersion selects which server response contract a fetch targets.
type ResultVersion string

const (
	V1 ResultVersion = "v1"
	V2 ResultVersion = "v2"
)

// ContentKind names a result surface on the server.
type ContentKind string

const (
	KindListening        ContentKind = "listening"
	KindReading          ContentKind = "reading"
	KindWriting          ContentKind = "writing"
	KindSpeakingFeedback ContentKind = "speaking-feedback"
)

// PracticeResult is the tagged variant returned by FetchResult. Exactly one
// of Raw or V2 is populated, according to Version.
type PracticeResult struct {
	Version ResultVersion
	// Raw holds the v1 body verbatim; its shape is not contractually fixed.
	Raw json.RawMessage
	// V2 holds the typed payload from the versioned path.
	V2 *models.PracticeResultV2
}

// StatusError reports a non-2xx response. The client never retries or masks
// these; the caller decides how to surface them.
type StatusError struct {
	Status int
	Path   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.Path, e.Status)
}

// Client talks to the practice service. It holds no mutable state between
// calls; every request reflects the latest server state.
type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialProvider
}

// New constructs a Client for the service at baseURL.
func New(baseURL string, creds CredentialProvider) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		creds:   creds,
	}
}

// get issues one GET with the current bearer credential attached when
// present. A missing credential still sends the request; the server answers
// with a 401-class status if it minds.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	if token, ok := c.creds.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Status: resp.StatusCode, Path: path}
	}
	return body, nil
}

// CurrentUser fetches the identity record for the current credential.
func (c *Client) CurrentUser(ctx context.Context) (models.User, error) {
	body, err := c.get(ctx, "/api/auth/profile")
	if err != nil {
		return models.User{}, err
	}
	var envelope struct {
		Data models.User `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return models.User{}, fmt.Errorf("decode profile: %w", err)
	}
	return envelope.Data, nil
}

// ResolveCurrentUser collapses every failure mode of CurrentUser to nil:
// the access gate only distinguishes "have a user" from "do not".
func (c *Client) ResolveCurrentUser(ctx context.Context) *models.User {
	user, err := c.CurrentUser(ctx)
	if err != nil || user.ID == 0 {
		return nil
	}
	return &user
}

// FetchContent retrieves the mode-specific practice content for a session.
// The body is returned as-is; content shapes differ per mode.
func (c *Client) FetchContent(ctx context.Context, mode models.PracticeMode, sessionID string) (json.RawMessage, error) {
	return c.get(ctx, fmt.Sprintf("/api/practice/%s/content/%s", mode, sessionID))
}

// FetchResult retrieves a practice result on the requested contract version.
// V1 returns the server shape verbatim; V2 decodes the fixed schema, and a
// body that does not match it is a server contract violation surfaced as an
// error, not repaired.
func (c *Client) FetchResult(ctx context.Context, sessionID string, kind ContentKind, version ResultVersion) (PracticeResult, error) {
	path := fmt.Sprintf("/api/practice/%s/passed/%s", kind, sessionID)
	if version == V2 {
		path += "/v2"
	}
	body, err := c.get(ctx, path)
	if err != nil {
		return PracticeResult{}, err
	}

	if version == V2 {
		var typed models.PracticeResultV2
		if err := json.Unmarshal(body, &typed); err != nil {
			return PracticeResult{}, fmt.Errorf("decode v2 result %s: %w", path, err)
		}
		return PracticeResult{Version: V2, V2: &typed}, nil
	}
	return PracticeResult{Version: V1, Raw: body}, nil
}

// FetchHistory retrieves and normalizes the practice history. Transport
// failures propagate; shape mismatches do not.
func (c *Client) FetchHistory(ctx context.Context) ([]models.HistoryEntry, error) {
	body, err := c.get(ctx, "/api/practice/history")
	if err != nil {
		return nil, err
	}
	return DecodeHistory(body), nil
}

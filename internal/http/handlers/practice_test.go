package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingoprep/lingoprep-be/internal/auth"
	"github.com/lingoprep/lingoprep-be/internal/models"
	"github.com/lingoprep/lingoprep-be/internal/storage"
)

type resultKey struct {
	sessionID, kind string
}

// fakePracticeStore keeps everything in maps; enough to drive the handlers.
type fakePracticeStore struct {
	sessions map[string]models.PracticeSession
	content  map[string]json.RawMessage
	results  map[resultKey]models.StoredResult
	history  map[int64][]models.HistoryEntry
	nextID   int
}

func newFakePracticeStore() *fakePracticeStore {
	return &fakePracticeStore{
		sessions: map[string]models.PracticeSession{},
		content:  map[string]json.RawMessage{},
		results:  map[resultKey]models.StoredResult{},
		history:  map[int64][]models.HistoryEntry{},
	}
}

func (f *fakePracticeStore) CreateSession(ctx context.Context, userID int64, mode models.PracticeMode, content json.RawMessage) (models.PracticeSession, error) {
	f.nextID++
	sess := models.PracticeSession{
		ID:        fmt.Sprintf("sess-%d", f.nextID),
		UserID:    userID,
		Mode:      mode,
		CreatedAt: time.Now(),
	}
	f.sessions[sess.ID] = sess
	f.content[sess.ID] = content
	return sess, nil
}

func (f *fakePracticeStore) FindSession(ctx context.Context, id string) (models.PracticeSession, error) {
	sess, ok := f.sessions[id]
	if !ok {
		return models.PracticeSession{}, storage.ErrNotFound
	}
	return sess, nil
}

func (f *fakePracticeStore) SessionContent(ctx context.Context, id string) (json.RawMessage, error) {
	content, ok := f.content[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return content, nil
}

func (f *fakePracticeStore) SaveResult(ctx context.Context, userID int64, result models.StoredResult) error {
	f.results[resultKey{result.SessionID, result.Kind}] = result
	f.history[userID] = append(f.history[userID], models.HistoryEntry{
		SessionID: result.SessionID,
		Mode:      models.PracticeMode(result.Kind),
		Score:     result.Score,
		Date:      result.CompletedAt.Format("2006-01-02"),
	})
	return nil
}

func (f *fakePracticeStore) ResultPayload(ctx context.Context, sessionID, kind string) (json.RawMessage, error) {
	result, ok := f.results[resultKey{sessionID, kind}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return result.Payload, nil
}

func (f *fakePracticeStore) ResultV2(ctx context.Context, sessionID, kind string) (models.PracticeResultV2, error) {
	result, ok := f.results[resultKey{sessionID, kind}]
	if !ok {
		return models.PracticeResultV2{}, storage.ErrNotFound
	}
	return models.PracticeResultV2{
		SessionID:   result.SessionID,
		Kind:        result.Kind,
		Score:       result.Score,
		Band:        result.Band,
		Answers:     result.Answers,
		CompletedAt: result.CompletedAt,
	}, nil
}

func (f *fakePracticeStore) History(ctx context.Context, userID int64) ([]models.HistoryEntry, error) {
	return f.history[userID], nil
}

func newPracticeServer(t *testing.T, store *fakePracticeStore) (*httptest.Server, string) {
	t.Helper()
	tokens := auth.NewTokenManager("test-secret", "lingoprep-test", time.Hour)
	mux := http.NewServeMux()
	NewPracticeHandler(store, tokens).Register(mux)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	token, err := tokens.Generate(models.User{ID: 7, Username: "mei"})
	require.NoError(t, err)
	return ts, token
}

func doRequest(t *testing.T, method, url, token string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestPracticeRoutes_RequireBearer(t *testing.T) {
	ts, _ := newPracticeServer(t, newFakePracticeStore())

	resp := doRequest(t, http.MethodGet, ts.URL+"/api/practice/history", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, ts.URL+"/api/practice/reading/passed/s-1", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStartAndContent(t *testing.T) {
	store := newFakePracticeStore()
	ts, token := newPracticeServer(t, store)

	resp := doRequest(t, http.MethodPost, ts.URL+"/api/practice/writing/start", token, []byte(`{"task":"essay"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env struct {
		Data struct {
			SessionID string `json:"sessionId"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.NotEmpty(t, env.Data.SessionID)

	resp = doRequest(t, http.MethodGet, ts.URL+"/api/practice/writing/content/"+env.Data.SessionID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"task":"essay"}`, string(body))
}

func TestStart_UnknownModeRejected(t *testing.T) {
	ts, token := newPracticeServer(t, newFakePracticeStore())

	resp := doRequest(t, http.MethodPost, ts.URL+"/api/practice/chess/start", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestResultV1_ServesStoredPayloadVerbatim(t *testing.T) {
	store := newFakePracticeStore()
	store.sessions["s-1"] = models.PracticeSession{ID: "s-1", UserID: 7, Mode: models.ModeReading}
	// Legacy payload shape: a bare array, exactly as some submitting client
	// stored it.
	store.results[resultKey{"s-1", "reading"}] = models.StoredResult{
		SessionID: "s-1",
		Kind:      "reading",
		Payload:   json.RawMessage(`[{"q":1,"ok":true},{"q":2,"ok":false}]`),
	}
	ts, token := newPracticeServer(t, store)

	resp := doRequest(t, http.MethodGet, ts.URL+"/api/practice/reading/passed/s-1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, `[{"q":1,"ok":true},{"q":2,"ok":false}]`, string(body))
}

func TestSubmitThenFetchV2(t *testing.T) {
	store := newFakePracticeStore()
	store.sessions["s-2"] = models.PracticeSession{ID: "s-2", UserID: 7, Mode: models.ModeListening}
	ts, token := newPracticeServer(t, store)

	submit := `{
		"payload": {"raw": "sheet"},
		"score": 7.5,
		"band": "C1",
		"answers": [{"question": 1, "given": "a", "correct": true}],
		"completedAt": "2024-03-01T10:00:00Z"
	}`
	resp := doRequest(t, http.MethodPost, ts.URL+"/api/practice/listening/passed/s-2", token, []byte(submit))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, ts.URL+"/api/practice/listening/passed/s-2/v2", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result models.PracticeResultV2
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "s-2", result.SessionID)
	assert.Equal(t, 7.5, result.Score)
	assert.Equal(t, "C1", result.Band)
	require.Len(t, result.Answers, 1)
}

func TestSubmit_UnknownSessionIs404(t *testing.T) {
	ts, token := newPracticeServer(t, newFakePracticeStore())

	resp := doRequest(t, http.MethodPost, ts.URL+"/api/practice/reading/passed/ghost", token, []byte(`{"score":1}`))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHistory_WrapsEntries(t *testing.T) {
	store := newFakePracticeStore()
	store.history[7] = []models.HistoryEntry{
		{SessionID: "s-1", Mode: models.ModeReading, Score: 6, Date: "2024-01-01"},
	}
	ts, token := newPracticeServer(t, store)

	resp := doRequest(t, http.MethodGet, ts.URL+"/api/practice/history", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		History []models.HistoryEntry `json:"history"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.History, 1)
	assert.Equal(t, "s-1", body.History[0].SessionID)
}

func TestHistory_EmptyIsWrappedEmptySequence(t *testing.T) {
	ts, token := newPracticeServer(t, newFakePracticeStore())

	resp := doRequest(t, http.MethodGet, ts.URL+"/api/practice/history", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"history":[]}`, string(body))
}

package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/lingoprep/lingoprep-be/internal/auth"
	"github.com/lingoprep/lingoprep-be/internal/http/respond"
	"github.com/lingoprep/lingoprep-be/internal/middleware"
	"github.com/lingoprep/lingoprep-be/internal/models"
	"github.com/lingoprep/lingoprep-be/internal/models/dto"
	"github.com/lingoprep/lingoprep-be/internal/storage"
)

// Result kinds accepted on the passed/{id} paths. Speaking results are served
// as feedback rather than a graded sheet, hence the distinct kind.
var resultKinds = map[string]bool{
	"listening":         true,
	"reading":           true,
	"writing":           true,
	"speaking-feedback": true,
}

// PracticeHandler owns session start, content, result, and history endpoints.
type PracticeHandler struct {
	store  storage.PracticeStore
	tokens *auth.TokenManager
}

// NewPracticeHandler constructs the handler.
func NewPracticeHandler(store storage.PracticeStore, tokens *auth.TokenManager) *PracticeHandler {
	return &PracticeHandler{store: store, tokens: tokens}
}

// Register attaches practice routes to the mux. Every route requires a
// verified bearer token.
func (h *PracticeHandler) Register(mux *http.ServeMux) {
	guard := func(fn http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(h.tokens, fn)
	}
	mux.Handle("POST /api/practice/{mode}/start", guard(h.handleStart))
	mux.Handle("GET /api/practice/{mode}/content/{id}", guard(h.handleContent))
	mux.Handle("POST /api/practice/{kind}/passed/{id}", guard(h.handleSubmit))
	mux.Handle("GET /api/practice/{kind}/passed/{id}", guard(h.handleResultV1))
	mux.Handle("GET /api/practice/{kind}/passed/{id}/v2", guard(h.handleResultV2))
	mux.Handle("GET /api/practice/history", guard(h.handleHistory))
}

func (h *PracticeHandler) handleStart(w http.ResponseWriter, r *http.Request) {
	mode := models.PracticeMode(r.PathValue("mode"))
	if !mode.Valid() {
		respond.Error(w, http.StatusBadRequest, "unknown practice mode")
		return
	}
	userID, ok := userIDFrom(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing credentials")
		return
	}

	var content json.RawMessage
	if r.Body != nil {
		// The start request may carry customization options (e.g. writing
		// task selection); they are stored with the session as-is.
		_ = json.NewDecoder(r.Body).Decode(&content)
	}

	sess, err := h.store.CreateSession(r.Context(), userID, mode, content)
	if err != nil {
		log.Printf("start practice error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to start practice")
		return
	}
	respond.JSON(w, http.StatusOK, "practice started", dto.StartPracticeResponse{SessionID: sess.ID})
}

func (h *PracticeHandler) handleContent(w http.ResponseWriter, r *http.Request) {
	mode := models.PracticeMode(r.PathValue("mode"))
	if !mode.Valid() {
		respond.Error(w, http.StatusBadRequest, "unknown practice mode")
		return
	}
	content, err := h.store.SessionContent(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "session not found")
			return
		}
		log.Printf("fetch content error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch content")
		return
	}
	respondRaw(w, http.StatusOK, content)
}

type submitResultRequest struct {
	Payload     json.RawMessage       `json:"payload"`
	Score       float64               `json:"score"`
	Band        string                `json:"band"`
	Answers     []models.AnswerRecord `json:"answers"`
	CompletedAt time.Time             `json:"completedAt"`
}

func (h *PracticeHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	if !resultKinds[kind] {
		respond.Error(w, http.StatusBadRequest, "unknown result kind")
		return
	}
	userID, ok := userIDFrom(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing credentials")
		return
	}

	var req submitResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.CompletedAt.IsZero() {
		req.CompletedAt = time.Now()
	}

	sessionID := r.PathValue("id")
	if _, err := h.store.FindSession(r.Context(), sessionID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "session not found")
			return
		}
		log.Printf("find session error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to submit result")
		return
	}

	result := models.StoredResult{
		SessionID:   sessionID,
		Kind:        kind,
		Payload:     req.Payload,
		Score:       req.Score,
		Band:        req.Band,
		Answers:     req.Answers,
		CompletedAt: req.CompletedAt,
	}
	if err := h.store.SaveResult(r.Context(), userID, result); err != nil {
		log.Printf("save result error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to submit result")
		return
	}
	respond.JSON(w, http.StatusOK, "result recorded", nil)
}

// handleResultV1 serves the stored payload byte-for-byte. Its shape depends
// on what the submitting client sent, which is why consumers normalize it.
func (h *PracticeHandler) handleResultV1(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	if !resultKinds[kind] {
		respond.Error(w, http.StatusBadRequest, "unknown result kind")
		return
	}
	payload, err := h.store.ResultPayload(r.Context(), r.PathValue("id"), kind)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "result not found")
			return
		}
		log.Printf("fetch result error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch result")
		return
	}
	respondRaw(w, http.StatusOK, payload)
}

func (h *PracticeHandler) handleResultV2(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	if !resultKinds[kind] {
		respond.Error(w, http.StatusBadRequest, "unknown result kind")
		return
	}
	result, err := h.store.ResultV2(r.Context(), r.PathValue("id"), kind)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "result not found")
			return
		}
		log.Printf("fetch result v2 error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch result")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// handleHistory responds with the object-wrapped shape: {"history": [...]}.
func (h *PracticeHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing credentials")
		return
	}
	entries, err := h.store.History(r.Context(), userID)
	if err != nil {
		log.Printf("fetch history error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch history")
		return
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	respondJSON(w, http.StatusOK, map[string][]models.HistoryEntry{"history": entries})
}

func userIDFrom(r *http.Request) (int64, bool) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		return 0, false
	}
	id, err := claims.UserID()
	if err != nil {
		return 0, false
	}
	return id, true
}

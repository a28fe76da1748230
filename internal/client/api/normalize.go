package api

import (
	"encoding/json"

	"github.com/lingoprep/lingoprep-be/internal/models"
)

// NormalizeHistory reduces whatever the history endpoint returned to a
// sequence of raw records. The fallback chain is ordered and closed:
//
//  1. a bare JSON sequence is the history;
//  2. an object with a `history` sequence field yields that field;
//  3. anything else (null, primitives, other objects, malformed bytes)
//     yields the empty sequence.
//
// It is total: no input makes it fail. New wrapping shapes get a new branch
// here; the final branch stays "empty sequence".
func NormalizeHistory(raw json.RawMessage) []json.RawMessage {
	var seq []json.RawMessage
	if err := json.Unmarshal(raw, &seq); err == nil {
		if seq == nil {
			return []json.RawMessage{}
		}
		return seq
	}

	var wrapped struct {
		History []json.RawMessage `json:"history"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.History != nil {
		return wrapped.History
	}

	return []json.RawMessage{}
}

// DecodeHistory normalizes the raw body and decodes each record into the
// typed entry. A record that does not match the shape keeps its position as
// a zero entry, so the result length always equals the normalized length.
func DecodeHistory(raw json.RawMessage) []models.HistoryEntry {
	records := NormalizeHistory(raw)
	entries := make([]models.HistoryEntry, len(records))
	for i, record := range records {
		_ = json.Unmarshal(record, &entries[i])
	}
	return entries
}

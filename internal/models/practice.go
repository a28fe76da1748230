package models

import (
	"encoding/json"
	"time"
)

// PracticeMode is one of the skill categories a session belongs to.
type PracticeMode string

const (
	ModeListening PracticeMode = "listening"
	ModeReading   PracticeMode = "reading"
	ModeWriting   PracticeMode = "writing"
	ModeSpeaking  PracticeMode = "speaking"
)

// Valid reports whether m is a recognized practice mode.
func (m PracticeMode) Valid() bool {
	switch m {
	case ModeListening, ModeReading, ModeWriting, ModeSpeaking:
		return true
	}
	return false
}

// PracticeSession is one in-progress or completed practice attempt. The
// identifier is opaque to the client; the server issues it at start time.
type PracticeSession struct {
	ID        string       `json:"id"`
	UserID    int64        `json:"userId"`
	Mode      PracticeMode `json:"mode"`
	CreatedAt time.Time    `json:"created_at"`
}

// PracticeResultV2 is the strictly-shaped result payload served from the
// versioned endpoint path. Unlike v1 payloads, this schema is fixed.
type PracticeResultV2 struct {
	SessionID   string         `json:"sessionId"`
	Kind        string         `json:"kind"`
	Score       float64        `json:"score"`
	Band        string         `json:"band"`
	Answers     []AnswerRecord `json:"answers"`
	CompletedAt time.Time      `json:"completedAt"`
}

// AnswerRecord is one graded answer inside a v2 result.
type AnswerRecord struct {
	Question int    `json:"question"`
	Given    string `json:"given"`
	Correct  bool   `json:"correct"`
}

// HistoryEntry is one record of the user's practice history after
// normalization.
type HistoryEntry struct {
	SessionID string       `json:"sessionId,omitempty"`
	Mode      PracticeMode `json:"mode,omitempty"`
	Score     float64      `json:"score,omitempty"`
	Date      string       `json:"date,omitempty"`
}

// StoredResult is how the server keeps a finished attempt: the raw payload
// exactly as submitted (served verbatim on the v1 path) plus the typed
// fields backing the v2 path.
type StoredResult struct {
	SessionID   string          `json:"sessionId"`
	Kind        string          `json:"kind"`
	Payload     json.RawMessage `json:"payload"`
	Score       float64         `json:"score"`
	Band        string          `json:"band"`
	Answers     []AnswerRecord  `json:"answers"`
	CompletedAt time.Time       `json:"completedAt"`
}

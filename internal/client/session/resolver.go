// Package session resolves previously stored practice session identifiers.
// Identifiers are written by the "start practice" flow; this package only
// ever reads them.
package session

import (
	"context"

	"github.com/lingoprep/lingoprep-be/internal/client/store"
	"github.com/lingoprep/lingoprep-be/internal/models"
)

// Storage keys, one per practice mode. Speaking carries a companion part
// discriminator alongside its identifier.
const (
	keyListeningID  = "practiceListeningId"
	keyReadingID    = "practiceReadingId"
	keyWritingID    = "practiceWritingId"
	keySpeakingID   = "practiceSpeakingId"
	keySpeakingPart = "practiceSpeakingPart"
)

var modeKeys = map[models.PracticeMode]string{
	models.ModeListening: keyListeningID,
	models.ModeReading:   keyReadingID,
	models.ModeWriting:   keyWritingID,
	models.ModeSpeaking:  keySpeakingID,
}

// Resolver reads session identifiers from durable client state.
type Resolver struct {
	kv store.KV
}

// NewResolver constructs a resolver over the given state store.
func NewResolver(kv store.KV) *Resolver {
	return &Resolver{kv: kv}
}

// SessionID returns the stored identifier for the mode, or ok=false when
// none is stored (or the mode is unknown). Read errors degrade to absence:
// the caller's fallback for a missing identifier is already the safe path.
func (r *Resolver) SessionID(ctx context.Context, mode models.PracticeMode) (string, bool) {
	key, known := modeKeys[mode]
	if !known {
		return "", false
	}
	value, present, err := r.kv.Get(ctx, key)
	if err != nil || !present || value == "" {
		return "", false
	}
	return value, true
}

// SpeakingSession returns the stored speaking identifier and its part
// discriminator. ok is false unless an identifier is present.
func (r *Resolver) SpeakingSession(ctx context.Context) (id, part string, ok bool) {
	id, ok = r.SessionID(ctx, models.ModeSpeaking)
	if !ok {
		return "", "", false
	}
	part, _, _ = r.kv.Get(ctx, keySpeakingPart)
	return id, part, true
}

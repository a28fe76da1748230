package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lingoprep/lingoprep-be/internal/models"
)

type fakeKV struct {
	values map[string]string
	err    error
	writes int
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeKV) Set(ctx context.Context, key, value string) error {
	f.writes++
	return nil
}

func TestSessionID_PerModeKeys(t *testing.T) {
	kv := &fakeKV{values: map[string]string{
		"practiceListeningId": "l-1",
		"practiceWritingId":   "abc123",
	}}
	r := NewResolver(kv)
	ctx := context.Background()

	id, ok := r.SessionID(ctx, models.ModeListening)
	assert.True(t, ok)
	assert.Equal(t, "l-1", id)

	id, ok = r.SessionID(ctx, models.ModeWriting)
	assert.True(t, ok)
	assert.Equal(t, "abc123", id)

	_, ok = r.SessionID(ctx, models.ModeReading)
	assert.False(t, ok)

	assert.Zero(t, kv.writes, "resolver must never write")
}

func TestSessionID_UnknownModeAndErrorsDegradeToAbsence(t *testing.T) {
	r := NewResolver(&fakeKV{err: errors.New("disk gone")})
	_, ok := r.SessionID(context.Background(), models.ModeReading)
	assert.False(t, ok)

	r = NewResolver(&fakeKV{})
	_, ok = r.SessionID(context.Background(), models.PracticeMode("chess"))
	assert.False(t, ok)
}

func TestSessionID_EmptyValueIsAbsent(t *testing.T) {
	r := NewResolver(&fakeKV{values: map[string]string{"practiceReadingId": ""}})
	_, ok := r.SessionID(context.Background(), models.ModeReading)
	assert.False(t, ok)
}

func TestSpeakingSession_PairsIDWithPart(t *testing.T) {
	r := NewResolver(&fakeKV{values: map[string]string{
		"practiceSpeakingId":   "s-3",
		"practiceSpeakingPart": "2",
	}})

	id, part, ok := r.SpeakingSession(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "s-3", id)
	assert.Equal(t, "2", part)

	r = NewResolver(&fakeKV{})
	_, _, ok = r.SpeakingSession(context.Background())
	assert.False(t, ok)
}

// Package flags persists one-way "seen/acknowledged" markers. A flag
// defaults to false, flips to true exactly once, and stays true for all
// future reads, including after a restart.
package flags

import (
	"context"
	"errors"
	"fmt"

	"github.com/lingoprep/lingoprep-be/internal/client/store"
)

// Flag names form a closed set so a typo is an error rather than a silent
// default-false read.
type Flag string

const (
	ReadingHintSeen   Flag = "readingHintShown"
	ListeningHintSeen Flag = "listeningHintShown"
	WritingIntroSeen  Flag = "writingIntroShown"
	WelcomeTourSeen   Flag = "welcomeTourShown"
)

// ErrUnknownFlag is returned for a flag outside the recognized set.
var ErrUnknownFlag = errors.New("unknown flag")

var known = map[Flag]bool{
	ReadingHintSeen:   true,
	ListeningHintSeen: true,
	WritingIntroSeen:  true,
	WelcomeTourSeen:   true,
}

// Store reads and sets flags on top of durable client state.
type Store struct {
	kv store.KV
}

// NewStore constructs a flag store over the given state store.
func NewStore(kv store.KV) *Store {
	return &Store{kv: kv}
}

// Seen reports whether the flag has ever been set.
func (s *Store) Seen(ctx context.Context, flag Flag) (bool, error) {
	if !known[flag] {
		return false, fmt.Errorf("%w: %q", ErrUnknownFlag, flag)
	}
	value, present, err := s.kv.Get(ctx, string(flag))
	if err != nil {
		return false, err
	}
	return present && value == "true", nil
}

// MarkSeen sets the flag. There is no operation that resets a flag to
// false.
func (s *Store) MarkSeen(ctx context.Context, flag Flag) error {
	if !known[flag] {
		return fmt.Errorf("%w: %q", ErrUnknownFlag, flag)
	}
	return s.kv.Set(ctx, string(flag), "true")
}

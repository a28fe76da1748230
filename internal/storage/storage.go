package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/lingoprep/lingoprep-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures user persistence operations needed by handlers.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
	FindByUsernameOrEmail(ctx context.Context, identifier string) (models.User, error)
}

// PracticeStore captures practice-session and result persistence.
type PracticeStore interface {
	CreateSession(ctx context.Context, userID int64, mode models.PracticeMode, content json.RawMessage) (models.PracticeSession, error)
	FindSession(ctx context.Context, id string) (models.PracticeSession, error)
	SessionContent(ctx context.Context, id string) (json.RawMessage, error)

	SaveResult(ctx context.Context, userID int64, result models.StoredResult) error
	// ResultPayload returns the stored raw payload for the legacy result
	// path, byte-for-byte as it was submitted.
	ResultPayload(ctx context.Context, sessionID, kind string) (json.RawMessage, error)
	ResultV2(ctx context.Context, sessionID, kind string) (models.PracticeResultV2, error)

	History(ctx context.Context, userID int64) ([]models.HistoryEntry, error)
}

// Store is the full persistence surface backing the practice API.
type Store interface {
	UserStore
	PracticeStore
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lingoprep/lingoprep-be/internal/models"
	"github.com/lingoprep/lingoprep-be/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store provides Postgres-backed persistence for users, sessions, and results.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			display_name TEXT NOT NULL DEFAULT '',
			grade TEXT NOT NULL DEFAULT '',
			region TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS practice_sessions (
			id UUID PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			mode TEXT NOT NULL,
			content JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS practice_results (
			session_id UUID NOT NULL REFERENCES practice_sessions(id),
			kind TEXT NOT NULL,
			payload JSONB NOT NULL,
			score DOUBLE PRECISION NOT NULL DEFAULT 0,
			band TEXT NOT NULL DEFAULT '',
			answers JSONB NOT NULL DEFAULT '[]',
			completed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (session_id, kind)
		);`,
		`CREATE TABLE IF NOT EXISTS practice_history (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			session_id UUID NOT NULL,
			mode TEXT NOT NULL,
			score DOUBLE PRECISION NOT NULL DEFAULT 0,
			taken_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS practice_history_user_idx ON practice_history (user_id, taken_at DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (username, email, display_name, grade, region, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, username, email, display_name, grade, region, password_hash, created_at;
	`
	row := s.pool.QueryRow(ctx, query, user.Username, user.Email, user.DisplayName, user.Grade, user.Region, user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// FindByID fetches a user by primary key.
func (s *Store) FindByID(ctx context.Context, id int64) (models.User, error) {
	const query = `
		SELECT id, username, email, display_name, grade, region, password_hash, created_at
		FROM users WHERE id = $1;
	`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// FindByUsernameOrEmail fetches the first user matching the identifier as username or email.
func (s *Store) FindByUsernameOrEmail(ctx context.Context, identifier string) (models.User, error) {
	const query = `
		SELECT id, username, email, display_name, grade, region, password_hash, created_at
		FROM users WHERE username = $1 OR email = $1 LIMIT 1;
	`
	return scanUser(s.pool.QueryRow(ctx, query, identifier))
}

// CreateSession issues a fresh opaque identifier and stores the attempt.
func (s *Store) CreateSession(ctx context.Context, userID int64, mode models.PracticeMode, content json.RawMessage) (models.PracticeSession, error) {
	if len(content) == 0 {
		content = json.RawMessage(`{}`)
	}
	const query = `
		INSERT INTO practice_sessions (id, user_id, mode, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, mode, created_at;
	`
	id := uuid.NewString()
	row := s.pool.QueryRow(ctx, query, id, userID, string(mode), content)
	return scanSession(row)
}

// FindSession fetches one practice session by identifier.
func (s *Store) FindSession(ctx context.Context, id string) (models.PracticeSession, error) {
	const query = `SELECT id, user_id, mode, created_at FROM practice_sessions WHERE id = $1;`
	return scanSession(s.pool.QueryRow(ctx, query, id))
}

// SessionContent returns the stored content payload for a session.
func (s *Store) SessionContent(ctx context.Context, id string) (json.RawMessage, error) {
	const query = `SELECT content FROM practice_sessions WHERE id = $1;`
	var content []byte
	if err := s.pool.QueryRow(ctx, query, id).Scan(&content); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return content, nil
}

// SaveResult upserts the finished attempt and appends a history row.
func (s *Store) SaveResult(ctx context.Context, userID int64, result models.StoredResult) error {
	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	payload := result.Payload
	if len(payload) == 0 {
		payload = json.RawMessage(`{}`)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin result tx: %w", err)
	}
	defer tx.Rollback(ctx)

	const upsert = `
		INSERT INTO practice_results (session_id, kind, payload, score, band, answers, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (session_id, kind) DO UPDATE
		SET payload = EXCLUDED.payload, score = EXCLUDED.score, band = EXCLUDED.band,
		    answers = EXCLUDED.answers, completed_at = EXCLUDED.completed_at;
	`
	if _, err := tx.Exec(ctx, upsert, result.SessionID, result.Kind, payload,
		result.Score, result.Band, answers, result.CompletedAt); err != nil {
		return fmt.Errorf("save result: %w", err)
	}

	const history = `
		INSERT INTO practice_history (user_id, session_id, mode, score, taken_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	if _, err := tx.Exec(ctx, history, userID, result.SessionID, result.Kind,
		result.Score, result.CompletedAt); err != nil {
		return fmt.Errorf("append history: %w", err)
	}

	return tx.Commit(ctx)
}

// ResultPayload returns the raw submitted payload for the legacy result path.
func (s *Store) ResultPayload(ctx context.Context, sessionID, kind string) (json.RawMessage, error) {
	const query = `SELECT payload FROM practice_results WHERE session_id = $1 AND kind = $2;`
	var payload []byte
	if err := s.pool.QueryRow(ctx, query, sessionID, kind).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return payload, nil
}

// ResultV2 returns the typed result served on the versioned path.
func (s *Store) ResultV2(ctx context.Context, sessionID, kind string) (models.PracticeResultV2, error) {
	const query = `
		SELECT session_id, kind, score, band, answers, completed_at
		FROM practice_results WHERE session_id = $1 AND kind = $2;
	`
	var res models.PracticeResultV2
	var answers []byte
	err := s.pool.QueryRow(ctx, query, sessionID, kind).Scan(
		&res.SessionID, &res.Kind, &res.Score, &res.Band, &answers, &res.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.PracticeResultV2{}, storage.ErrNotFound
		}
		return models.PracticeResultV2{}, err
	}
	if err := json.Unmarshal(answers, &res.Answers); err != nil {
		return models.PracticeResultV2{}, fmt.Errorf("decode answers: %w", err)
	}
	return res, nil
}

// History lists the user's attempts, newest first.
func (s *Store) History(ctx context.Context, userID int64) ([]models.HistoryEntry, error) {
	const query = `
		SELECT session_id, mode, score, taken_at::date::text
		FROM practice_history WHERE user_id = $1 ORDER BY taken_at DESC;
	`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.SessionID, &e.Mode, &e.Score, &e.Date); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.DisplayName,
		&user.Grade, &user.Region, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func scanSession(row pgx.Row) (models.PracticeSession, error) {
	var sess models.PracticeSession
	var mode string
	if err := row.Scan(&sess.ID, &sess.UserID, &mode, &sess.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.PracticeSession{}, storage.ErrNotFound
		}
		return models.PracticeSession{}, err
	}
	sess.Mode = models.PracticeMode(mode)
	return sess, nil
}

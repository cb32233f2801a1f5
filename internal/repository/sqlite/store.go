package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"social-automation-service/internal/entity"
	"social-automation-service/internal/repository"
)

// Store is a single-file backend for both ports, used by automationctl.
// Timestamps are stored as RFC 3339 text in UTC.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) runMigrations() error {
	schema := `
	CREATE TABLE IF NOT EXISTS user_credentials (
		user_id       TEXT NOT NULL,
		provider      TEXT NOT NULL,
		access_token  TEXT NOT NULL,
		refresh_token TEXT,
		expires_at    TEXT,
		PRIMARY KEY (user_id, provider)
	);

	CREATE TABLE IF NOT EXISTS jobs (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		status     TEXT NOT NULL,
		type       TEXT NOT NULL,
		prompt     TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) GetCredentials(ctx context.Context, userID string, platform entity.Platform) (*entity.Credentials, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT access_token, refresh_token, expires_at FROM user_credentials WHERE user_id = ? AND provider = ?`,
		userID, string(platform),
	)

	var (
		creds     entity.Credentials
		refresh   sql.NullString
		expiresAt sql.NullString
	)
	if err := row.Scan(&creds.AccessToken, &refresh, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	creds.RefreshToken = refresh.String
	if expiresAt.Valid && expiresAt.String != "" {
		t, err := time.Parse(time.RFC3339Nano, expiresAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse expires_at: %w", err)
		}
		creds.ExpiresAt = &t
	}
	return &creds, nil
}

// UpsertCredentials stores tokens for (userID, platform), replacing any existing row.
func (s *Store) UpsertCredentials(ctx context.Context, userID string, platform entity.Platform, creds entity.Credentials) error {
	var expiresAt any
	if creds.ExpiresAt != nil {
		expiresAt = creds.ExpiresAt.UTC().Format(time.RFC3339Nano)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_credentials (user_id, provider, access_token, refresh_token, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, provider) DO UPDATE SET
			access_token  = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at    = excluded.expires_at`,
		userID, string(platform), creds.AccessToken, creds.RefreshToken, expiresAt,
	)
	return err
}

func (s *Store) Create(ctx context.Context, job *entity.Job) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, user_id, status, type, prompt, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		job.ID, job.UserID, string(job.Status), job.Type, job.Prompt, job.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (s *Store) GetByID(ctx context.Context, id string) (*entity.Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, status, type, prompt, created_at FROM jobs WHERE id = ?`, id)

	var (
		job       entity.Job
		status    string
		createdAt string
	)
	if err := row.Scan(&job.ID, &job.UserID, &status, &job.Type, &job.Prompt, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	job.Status = entity.JobStatus(status)
	job.CreatedAt = t
	return &job, nil
}

// Package ledger persists render job history in SQLite so past runs can be
// inspected from the command line.
package ledger

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"reel/internal/services"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; old databases must be deleted.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

const (
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Store manages render job persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database at dbPath.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

const timeLayout = time.RFC3339Nano

// CreateJob records a new pending job.
func (s *Store) CreateJob(ctx context.Context, id, title, inputPath string) (*Job, error) {
	if strings.TrimSpace(id) == "" {
		return nil, services.Wrap(services.ErrValidation, "ledger", "create job", "empty job id", nil)
	}
	now := time.Now().UTC()
	job := &Job{
		ID:        id,
		Title:     title,
		InputPath: inputPath,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := s.execWithRetry(ctx,
		`INSERT INTO render_jobs (id, title, input_path, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		job.ID, job.Title, job.InputPath, string(job.Status),
		now.Format(timeLayout), now.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return job, nil
}

// UpdateStatus moves a job to status and records the transition time.
func (s *Store) UpdateStatus(ctx context.Context, id string, status Status) error {
	if !ValidStatus(string(status)) {
		return services.Wrap(services.ErrValidation, "ledger", "update status",
			fmt.Sprintf("unknown status %q", status), nil)
	}
	return s.execWithRetry(ctx,
		"UPDATE render_jobs SET status = ?, updated_at = ? WHERE id = ?",
		string(status), time.Now().UTC().Format(timeLayout), id)
}

// SetSceneCount records how many scenes the splitter produced.
func (s *Store) SetSceneCount(ctx context.Context, id string, count int) error {
	return s.execWithRetry(ctx,
		"UPDATE render_jobs SET scene_count = ?, updated_at = ? WHERE id = ?",
		count, time.Now().UTC().Format(timeLayout), id)
}

// MarkCompleted finalizes a successful job with its output artifact.
func (s *Store) MarkCompleted(ctx context.Context, id, outputPath string, durationSeconds float64) error {
	now := time.Now().UTC().Format(timeLayout)
	return s.execWithRetry(ctx,
		`UPDATE render_jobs
		 SET status = ?, output_path = ?, duration_seconds = ?, updated_at = ?, completed_at = ?
		 WHERE id = ?`,
		string(StatusCompleted), outputPath, durationSeconds, now, now, id)
}

// MarkFailed finalizes a failed job with its error message.
func (s *Store) MarkFailed(ctx context.Context, id string, cause error) error {
	message := ""
	if cause != nil {
		message = cause.Error()
	}
	now := time.Now().UTC().Format(timeLayout)
	return s.execWithRetry(ctx,
		`UPDATE render_jobs
		 SET status = ?, error_message = ?, updated_at = ?, completed_at = ?
		 WHERE id = ?`,
		string(StatusFailed), message, now, now, id)
}

// GetJob fetches one job by ID.
func (s *Store) GetJob(ctx context.Context, id string) (*Job, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "ledger", "get job",
			fmt.Sprintf("job %q not found", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("scan job: %w", err)
	}
	return job, nil
}

// ListRecent returns up to limit jobs, newest first. A non-positive limit
// returns everything.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]*Job, error) {
	query := selectColumns + " ORDER BY created_at DESC, id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

const selectColumns = `SELECT id, title, input_path, status, scene_count, output_path,
	duration_seconds, error_message, created_at, updated_at, completed_at
	FROM render_jobs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var (
		job         Job
		status      string
		createdAt   string
		updatedAt   string
		completedAt sql.NullString
	)
	err := row.Scan(&job.ID, &job.Title, &job.InputPath, &status, &job.SceneCount,
		&job.OutputPath, &job.DurationSeconds, &job.ErrorMessage,
		&createdAt, &updatedAt, &completedAt)
	if err != nil {
		return nil, err
	}
	job.Status = Status(status)
	if job.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if job.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	if completedAt.Valid && completedAt.String != "" {
		ts, err := time.Parse(timeLayout, completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse completed_at: %w", err)
		}
		job.CompletedAt = &ts
	}
	return &job, nil
}

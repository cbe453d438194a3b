package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mimircode/mimircode/internal/docgen"
	"github.com/mimircode/mimircode/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStore creates a new SQLite store instance
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RecordRun persists a completed run and its documents atomically. It
// assigns the run a fresh UUID; callers retrieve it via ListRuns.
func (s *SQLiteStore) RecordRun(ctx context.Context, record *docgen.RunRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO runs (run_id, task, source_root, output_dir, index_path,
		                  files_found, files_processed, files_skipped, files_failed,
		                  chunks_sent, calls_failed, duration_ms, completed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := tx.ExecContext(ctx, query,
		uuid.NewString(), string(record.Task), record.SourceRoot, record.OutputDir, record.IndexPath,
		record.Stats.FilesFound, record.Stats.FilesProcessed, record.Stats.FilesSkipped,
		record.Stats.FilesFailed, record.Stats.ChunksSent, record.Stats.CallsFailed,
		record.Stats.Duration.Milliseconds(), record.CompletedAt, now)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return err
	}

	docQuery := `
		INSERT INTO documents (run_id, rel_path, storage_path, language, sections, failed_calls, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	for _, doc := range record.Documents {
		if _, err := tx.ExecContext(ctx, docQuery,
			runID, doc.RelPath, doc.StoragePath, doc.Language, doc.Sections, doc.FailedCalls, now); err != nil {
			return fmt.Errorf("failed to insert document %s: %w", doc.RelPath, err)
		}
	}

	return tx.Commit()
}

const runColumns = `id, run_id, task, source_root, output_dir, index_path,
       files_found, files_processed, files_skipped, files_failed,
       chunks_sent, calls_failed, duration_ms, completed_at, created_at`

func scanRun(row interface{ Scan(...any) error }) (*Run, error) {
	var run Run
	var task string
	var durationMS int64
	var completedAt sql.NullTime
	err := row.Scan(
		&run.ID, &run.RunID, &task, &run.SourceRoot, &run.OutputDir, &run.IndexPath,
		&run.FilesFound, &run.FilesProcessed, &run.FilesSkipped, &run.FilesFailed,
		&run.ChunksSent, &run.CallsFailed, &durationMS, &completedAt, &run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	run.Task = types.Task(task)
	run.Duration = time.Duration(durationMS) * time.Millisecond
	if completedAt.Valid {
		run.CompletedAt = completedAt.Time
	}
	return &run, nil
}

// GetRun retrieves a run by its UUID.
func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE run_id = ?`
	run, err := scanRun(s.db.QueryRowContext(ctx, query, runID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// DeleteRun deletes a run and, through the cascade, its documents.
func (s *SQLiteStore) DeleteRun(ctx context.Context, runID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE run_id = ?", runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListDocuments lists the documents of a run in insertion order.
func (s *SQLiteStore) ListDocuments(ctx context.Context, runID string) ([]*Document, error) {
	query := `
		SELECT d.id, d.run_id, d.rel_path, d.storage_path, d.language, d.sections, d.failed_calls, d.created_at
		FROM documents d
		JOIN runs r ON r.id = d.run_id
		WHERE r.run_id = ?
		ORDER BY d.id
	`
	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var docs []*Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.RunID, &doc.RelPath, &doc.StoragePath,
			&doc.Language, &doc.Sections, &doc.FailedCalls, &doc.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

package store

import (
	"context"
	"time"

	"github.com/mimircode/mimircode/internal/docgen"
	"github.com/mimircode/mimircode/pkg/types"
)

// Store defines the interface for persisting and querying run history.
type Store interface {
	// RecordRun persists a completed run with its documents. It also
	// satisfies docgen.RunRecorder.
	RecordRun(ctx context.Context, record *docgen.RunRecord) error

	// Run operations
	GetRun(ctx context.Context, runID string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	DeleteRun(ctx context.Context, runID string) error

	// Document operations
	ListDocuments(ctx context.Context, runID string) ([]*Document, error)

	// Database operations
	Close() error
}

// Run represents one completed generation run.
type Run struct {
	ID             int64
	RunID          string // UUID exposed to clients
	Task           types.Task
	SourceRoot     string
	OutputDir      string
	IndexPath      string
	FilesFound     int
	FilesProcessed int
	FilesSkipped   int
	FilesFailed    int
	ChunksSent     int
	CallsFailed    int
	Duration       time.Duration
	CompletedAt    time.Time
	CreatedAt      time.Time
}

// Document represents one persisted per-file document of a run.
type Document struct {
	ID          int64
	RunID       int64
	RelPath     string
	StoragePath string
	Language    string
	Sections    int
	FailedCalls int
	CreatedAt   time.Time
}

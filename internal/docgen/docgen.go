package docgen

import (
	"context"
	"fmt"
	"time"

	"github.com/phuslu/log"

	"github.com/mimircode/mimircode/internal/chunker"
	"github.com/mimircode/mimircode/internal/config"
	"github.com/mimircode/mimircode/internal/llm"
	"github.com/mimircode/mimircode/internal/prompt"
	"github.com/mimircode/mimircode/internal/scanner"
	"github.com/mimircode/mimircode/pkg/types"
)

// RunRecorder receives run history for persistence. A nil recorder
// disables history without affecting the pipeline.
type RunRecorder interface {
	RecordRun(ctx context.Context, run *RunRecord) error
}

// RunRecord summarizes one completed run for the history store.
type RunRecord struct {
	Task        types.Task
	SourceRoot  string
	OutputDir   string
	IndexPath   string
	Documents   []DocumentRecord
	Stats       Statistics
	CompletedAt time.Time
}

// DocumentRecord describes one persisted per-file document.
type DocumentRecord struct {
	RelPath     string
	StoragePath string
	Language    string
	Sections    int
	FailedCalls int
}

// Statistics reports what one run did.
type Statistics struct {
	FilesFound     int
	FilesProcessed int
	FilesSkipped   int // read/decode failures
	FilesFailed    int // persistence failures
	ChunksSent     int
	CallsFailed    int // inference calls degraded to inline error text
	Duration       time.Duration
	ErrorMessages  []string
}

// Generator drives the whole pipeline for one task: scan, chunk, prompt,
// infer, assemble, persist, index. Processing is strictly sequential —
// file by file in scan order, chunk by chunk in textual order, one
// inference call at a time.
type Generator struct {
	cfg      *config.Config
	scanner  *scanner.Scanner
	chunker  *chunker.Chunker
	prompts  *prompt.Builder
	client   llm.Client
	recorder RunRecorder
}

// New creates a Generator. The recorder may be nil.
func New(cfg *config.Config, client llm.Client, recorder RunRecorder) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	ch, err := chunker.New(cfg.ChunkSize)
	if err != nil {
		return nil, err
	}
	return &Generator{
		cfg:      cfg,
		scanner:  scanner.New(cfg.ExcludeDirs),
		chunker:  ch,
		prompts:  prompt.New(),
		client:   client,
		recorder: recorder,
	}, nil
}

// Run executes one complete generation run. Only a missing source root
// aborts it; every other failure is degraded per file, per chunk or per
// call and reflected in the returned Statistics. The project index is
// written unconditionally, including for zero-file runs.
func (g *Generator) Run(ctx context.Context, task types.Task, sourceRoot, outputDir string) (*Statistics, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	stats := &Statistics{}

	paths, err := g.scanner.Scan(sourceRoot)
	if err != nil {
		return nil, err
	}
	stats.FilesFound = len(paths)
	log.Info().Str("task", task.String()).Str("root", sourceRoot).
		Int("files", len(paths)).Msg("starting generation run")

	var entries []types.IndexEntry
	var docRecords []DocumentRecord

	for _, rel := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sf, err := g.scanner.Load(sourceRoot, rel)
		if err != nil {
			stats.FilesSkipped++
			stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", rel, err))
			log.Warn().Str("file", rel).Err(err).Msg("skipping unreadable file")
			continue
		}

		log.Info().Str("file", rel).Str("language", sf.Language).Msg("processing file")
		doc := g.documentFile(ctx, task, sf)
		stats.ChunksSent += len(doc.Sections)
		stats.CallsFailed += doc.FailedCalls

		storagePath, err := g.persistDocument(outputDir, doc)
		if err != nil {
			stats.FilesFailed++
			stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", rel, err))
			log.Error().Str("file", rel).Err(err).Msg("could not persist document")
			continue
		}

		stats.FilesProcessed++
		entries = append(entries, types.IndexEntry{
			RelPath:     sf.RelPath,
			StoragePath: storagePath,
			Language:    sf.Language,
		})
		docRecords = append(docRecords, DocumentRecord{
			RelPath:     sf.RelPath,
			StoragePath: storagePath,
			Language:    sf.Language,
			Sections:    len(doc.Sections),
			FailedCalls: doc.FailedCalls,
		})
	}

	indexPath, err := g.writeIndex(ctx, task, outputDir, entries, stats)
	if err != nil {
		return nil, fmt.Errorf("writing project index: %w", err)
	}

	stats.Duration = time.Since(started)
	log.Info().Str("task", task.String()).Int("processed", stats.FilesProcessed).
		Int("skipped", stats.FilesSkipped).Int("failed_calls", stats.CallsFailed).
		Dur("duration", stats.Duration).Msg("generation run complete")

	if g.recorder != nil {
		record := &RunRecord{
			Task:        task,
			SourceRoot:  sourceRoot,
			OutputDir:   outputDir,
			IndexPath:   indexPath,
			Documents:   docRecords,
			Stats:       *stats,
			CompletedAt: time.Now(),
		}
		if err := g.recorder.RecordRun(ctx, record); err != nil {
			log.Warn().Err(err).Msg("could not record run history")
		}
	}

	return stats, nil
}

// complete performs one inference call and renders the outcome, counting
// degraded calls through failed.
func (g *Generator) complete(ctx context.Context, req llm.Request, failed *int) string {
	res := g.client.Complete(ctx, req)
	if !res.OK() {
		*failed++
		log.Warn().Str("kind", string(res.Kind)).Msg("inference call degraded to inline error")
	}
	return res.Render(g.client.Endpoint(), g.client.Model())
}

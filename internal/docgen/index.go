package docgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mimircode/mimircode/internal/llm"
	"github.com/mimircode/mimircode/pkg/types"
)

// writeIndex builds and persists the project-level index document at the
// output root. It runs unconditionally — a zero-file run still produces
// an index stating that no files were processed. Returns the index path.
func (g *Generator) writeIndex(ctx context.Context, task types.Task, outputDir string, entries []types.IndexEntry, stats *Statistics) (string, error) {
	sorted := make([]types.IndexEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].RelPath) < strings.ToLower(sorted[j].RelPath)
	})

	var content string
	if task == types.TaskAnalysis {
		content = g.analysisSummary(ctx, sorted, stats)
	} else {
		content = tableOfContents(sorted)
	}

	indexPath := filepath.Join(outputDir, task.IndexFileName())
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(indexPath, []byte(content), 0644); err != nil {
		return "", err
	}
	return indexPath, nil
}

// tableOfContents renders the documentation index: a sorted listing that
// links every produced per-file document.
func tableOfContents(entries []types.IndexEntry) string {
	var b strings.Builder
	b.WriteString("# Project Documentation - Table of Contents\n\n")
	b.WriteString("This file lists all documentation for project files.\n\n")
	b.WriteString("---\n\n")

	if len(entries) == 0 {
		b.WriteString("No supported files were documented.\n")
		return b.String()
	}

	for _, e := range entries {
		b.WriteString(fmt.Sprintf("* [`%s`](%s)\n", e.RelPath, e.StoragePath))
	}
	return b.String()
}

// analysisSummary renders the analysis index: the sorted report listing
// plus one cross-file synthesis call. The synthesis prompt carries only
// paths and language tags, never file contents, and its failure degrades
// to inline error text like any other call.
func (g *Generator) analysisSummary(ctx context.Context, entries []types.IndexEntry, stats *Statistics) string {
	var b strings.Builder
	b.WriteString("# Project Code Analysis Summary\n\n")
	b.WriteString("This report provides an overall summary of potential code reuse/refactoring opportunities, " +
		"comment recommendations, and dead code suspicions across the analyzed codebase.\n\n")
	b.WriteString("---\n\n")

	if len(entries) == 0 {
		b.WriteString("No supported files were analyzed.\n")
		return b.String()
	}

	b.WriteString("## Individual File Analysis Reports\n\n")
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("* [`%s`](%s)\n", e.RelPath, e.StoragePath))
	}
	b.WriteString("\n---\n\n")

	decoding := g.cfg.Tasks.ProjectSummary
	overall := g.complete(ctx, llm.Request{
		Prompt:      g.prompts.ProjectSummary(entries),
		Temperature: decoding.Temperature,
		MaxTokens:   decoding.MaxTokens,
	}, &stats.CallsFailed)

	b.WriteString("## Overall Codebase Observations and Cross-File Recommendations\n\n")
	b.WriteString(overall)
	b.WriteString("\n\n---\n\n")
	b.WriteString("### Important Note:\n")
	b.WriteString("This summary is generated by an AI and provides high-level observations. " +
		"Detailed investigation of individual file reports is crucial for accurate assessment " +
		"and implementation of recommendations.\n")
	b.WriteString("For comprehensive dead code auditing, consider using specialized static analysis tools.")
	return b.String()
}

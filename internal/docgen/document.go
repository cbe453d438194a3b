package docgen

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mimircode/mimircode/internal/config"
	"github.com/mimircode/mimircode/internal/llm"
	"github.com/mimircode/mimircode/internal/prompt"
	"github.com/mimircode/mimircode/pkg/types"
)

// documentFile produces the complete per-file document for one source
// file. It returns only after every constituent call has completed;
// failed calls contribute inline error text and are counted.
func (g *Generator) documentFile(ctx context.Context, task types.Task, sf *types.SourceFile) *types.Document {
	doc := &types.Document{
		Task:     task,
		RelPath:  sf.RelPath,
		Language: sf.Language,
	}

	if task == types.TaskDeepDocumentation {
		doc.Sections = g.deepSections(ctx, sf, &doc.FailedCalls)
		return doc
	}

	doc.Sections = g.chunkedSections(ctx, task, sf, &doc.FailedCalls)
	return doc
}

// chunkedSections drives the documentation and analysis variants: one
// prompt/response round trip per chunk, in index order. Single-chunk
// files get one unheaded section and no part numbering.
func (g *Generator) chunkedSections(ctx context.Context, task types.Task, sf *types.SourceFile, failed *int) []types.Section {
	fileName := path.Base(sf.RelPath)
	decoding := g.cfg.DecodingFor(task)
	chunks := g.chunker.Split(sf.Content)

	if len(chunks) <= 1 {
		chunk := types.Chunk{Index: 1, Total: 1, Text: sf.Content}
		body := g.complete(ctx, llm.Request{
			Prompt:      g.buildChunkPrompt(task, chunk, fileName, sf.Language),
			Temperature: decoding.Temperature,
			MaxTokens:   decoding.MaxTokens,
		}, failed)
		return []types.Section{{Body: body}}
	}

	sections := make([]types.Section, 0, len(chunks))
	for _, chunk := range chunks {
		body := g.complete(ctx, llm.Request{
			Prompt:      g.buildChunkPrompt(task, chunk, fileName, sf.Language),
			Temperature: decoding.Temperature,
			MaxTokens:   decoding.MaxTokens,
		}, failed)
		sections = append(sections, types.Section{
			Heading: partHeading(task, chunk.Index),
			Body:    body,
		})
	}
	return sections
}

// deepSections drives the three whole-file facets in fixed order:
// summary, components, examples. Every facet is dispatched regardless of
// earlier outcomes. When deep chunking is enabled, oversized files are
// split and each facet sees the chunks in order, its body joined from the
// per-chunk responses.
func (g *Generator) deepSections(ctx context.Context, sf *types.SourceFile, failed *int) []types.Section {
	fileName := path.Base(sf.RelPath)

	inputs := []string{sf.Content}
	if g.cfg.DeepChunking {
		if chunks := g.chunker.Split(sf.Content); len(chunks) > 1 {
			inputs = inputs[:0]
			for _, c := range chunks {
				inputs = append(inputs, c.Text)
			}
		}
	}

	sections := make([]types.Section, 0, len(prompt.DeepFacets))
	for _, facet := range prompt.DeepFacets {
		decoding := g.deepDecoding(facet)

		bodies := make([]string, 0, len(inputs))
		for _, input := range inputs {
			body := g.complete(ctx, llm.Request{
				Prompt:      g.prompts.Deep(facet, input, fileName, sf.Language),
				Temperature: decoding.Temperature,
				MaxTokens:   decoding.MaxTokens,
			}, failed)
			bodies = append(bodies, body)
		}
		sections = append(sections, types.Section{
			Heading: facet.Heading(),
			Body:    strings.Join(bodies, "\n\n"),
		})
	}
	return sections
}

func (g *Generator) deepDecoding(facet prompt.Facet) config.Decoding {
	if facet == prompt.FacetExamples {
		return g.cfg.Tasks.DeepExamples
	}
	return g.cfg.Tasks.Deep
}

func (g *Generator) buildChunkPrompt(task types.Task, chunk types.Chunk, fileName, language string) string {
	if task == types.TaskAnalysis {
		return g.prompts.Analysis(chunk, fileName, language)
	}
	return g.prompts.Documentation(chunk, fileName, language)
}

// partHeading titles one section of a multi-chunk document.
func partHeading(task types.Task, index int) string {
	if task == types.TaskAnalysis {
		return fmt.Sprintf("Part %d Analysis", index)
	}
	return fmt.Sprintf("Part %d", index)
}

// persistDocument writes the assembled document beneath the output root,
// mirroring the source file's directory structure, and returns the
// document's path relative to the output root.
func (g *Generator) persistDocument(outputDir string, doc *types.Document) (string, error) {
	if err := doc.Validate(); err != nil {
		return "", err
	}

	storageRel := StoragePath(doc.RelPath, doc.Task)
	full := filepath.Join(outputDir, filepath.FromSlash(storageRel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(full, []byte(doc.Markdown()), 0644); err != nil {
		return "", fmt.Errorf("writing document: %w", err)
	}
	return storageRel, nil
}

// StoragePath maps a source file's relative path to its document path
// relative to the output root: same directory, extension replaced by the
// task suffix ("pkg/db.py" -> "pkg/db_doc.md").
func StoragePath(relPath string, task types.Task) string {
	dir := path.Dir(relPath)
	base := path.Base(relPath)
	stem := strings.TrimSuffix(base, path.Ext(base))
	name := stem + task.DocSuffix()
	if dir == "." {
		return name
	}
	return path.Join(dir, name)
}

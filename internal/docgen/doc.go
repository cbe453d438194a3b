// Package docgen orchestrates the generation pipeline: scanning a source
// tree, chunking each recognized file, prompting the inference endpoint,
// assembling per-file Markdown documents and writing the project index.
//
// A run is strictly sequential and degrades in place: unreadable files
// are skipped, failed inference calls become inline error text in the
// affected document, and only a missing source root aborts the run.
package docgen

// Package types contains the shared domain model for the documentation
// pipeline: tasks, chunks, tagged inference results, assembled documents
// and project index entries.
//
// The package is dependency-free so that every layer (chunker, prompt
// builder, inference client, aggregators, storage, servers) can exchange
// values without import cycles.
//
// # Core Types
//
//   - Task: which of the three pipeline variants runs (documentation,
//     deep documentation, analysis)
//   - Chunk: ordered, line-aligned slice of a file's text
//   - Result: tagged outcome of one inference round trip; failures render
//     to inline Markdown instead of aborting the run
//   - Document: completed per-file output, assembled section by section
//   - IndexEntry: one row of the project-level index
package types

// Package llm wraps the inference endpoint behind a synchronous Client.
//
// The only implementation speaks the Ollama generate API: one blocking
// POST per request, streaming disabled, attempted exactly once. Failures
// never surface as Go errors; they come back as tagged results so the
// pipeline can degrade a single chunk without failing the file or the
// run. An optional LRU cache short-circuits repeated prompts.
package llm

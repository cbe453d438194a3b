// Package prompt builds the instruction text sent to the inference
// endpoint: per-chunk documentation and analysis prompts, the three
// deep-documentation facets and the cross-file project summary. Prompt
// construction is pure string assembly; identical inputs always yield
// identical prompts, which is what makes response caching safe.
package prompt

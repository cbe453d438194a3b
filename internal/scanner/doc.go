// Package scanner walks source trees, filters them down to recognized
// file types and loads file contents as text. Files that are valid
// UTF-8 pass through untouched; anything else is decoded as Latin-1 so
// a stray legacy file never aborts a run.
package scanner

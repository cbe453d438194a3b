package types

import (
	"errors"
	"strings"
	"unicode"
)

// SourceFile is one discovered input file, identified by its path relative
// to the scan root. Content is read once and released after the file's
// document has been produced.
type SourceFile struct {
	RelPath  string // relative to the scan root, forward slashes
	Language string // detected language tag, "unknown" if unmapped
	Content  string // decoded text (UTF-8, Latin-1 fallback)
}

// Section is one block of a per-file document: an optional heading plus the
// text produced for one chunk or one facet.
type Section struct {
	Heading string // empty for single-chunk documents
	Body    string
}

// Document is the fully assembled per-file output. It exists only once all
// constituent inference calls have completed; partial documents are never
// constructed or persisted.
type Document struct {
	Task        Task
	RelPath     string
	Language    string
	Sections    []Section
	FailedCalls int // inference calls that degraded to inline error text
}

// Validate checks that the document is complete enough to persist.
func (d *Document) Validate() error {
	if err := d.Task.Validate(); err != nil {
		return err
	}
	if d.RelPath == "" {
		return errors.New("document requires a relative path")
	}
	if len(d.Sections) == 0 {
		return errors.New("document requires at least one section")
	}
	return nil
}

// Markdown renders the document in its final on-disk form: a title line,
// the detected file type, then the sections in order. A single unheaded
// section is emitted bare; headed sections are separated by rules.
func (d *Document) Markdown() string {
	var b strings.Builder
	b.WriteString("# " + d.Task.Title() + " for `" + d.RelPath + "`\n\n")
	b.WriteString("**Original File Type:** " + CapitalizeLanguage(d.Language) + "\n\n")
	b.WriteString("---\n\n")

	if len(d.Sections) == 1 && d.Sections[0].Heading == "" {
		b.WriteString(d.Sections[0].Body)
		b.WriteString("\n")
		return b.String()
	}

	for _, s := range d.Sections {
		if s.Heading != "" {
			b.WriteString("## " + s.Heading + "\n\n")
		}
		b.WriteString(s.Body)
		b.WriteString("\n\n---\n\n")
	}
	return b.String()
}

// IndexEntry links one produced per-file document into the project index.
type IndexEntry struct {
	RelPath     string // original source path, relative to the scan root
	StoragePath string // document path, relative to the output root
	Language    string
}

// CapitalizeLanguage upper-cases the first letter of a language tag for
// display ("python" -> "Python").
func CapitalizeLanguage(lang string) string {
	if lang == "" {
		return ""
	}
	r := []rune(lang)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

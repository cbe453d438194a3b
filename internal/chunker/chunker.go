package chunker

import (
	"errors"
	"strings"

	"github.com/mimircode/mimircode/pkg/types"
)

// DefaultBudget is the chunk character budget used when none is configured.
const DefaultBudget = 6000

// ErrInvalidBudget is returned when the budget is not a positive number.
var ErrInvalidBudget = errors.New("chunk budget must be positive")

// Chunker partitions raw text into ordered, budget-bounded chunks.
type Chunker struct {
	budget int
}

// New creates a Chunker with the given character budget.
func New(budget int) (*Chunker, error) {
	if budget <= 0 {
		return nil, ErrInvalidBudget
	}
	return &Chunker{budget: budget}, nil
}

// Budget returns the configured character budget.
func (c *Chunker) Budget() int {
	return c.budget
}

// Split partitions text into chunks along line boundaries.
//
// Lines are accumulated greedily: when appending the next line would push
// the buffer past the budget and the buffer already holds something, the
// buffer is closed as a chunk and the line starts a new one. A single line
// longer than the budget therefore becomes its own over-budget chunk —
// lines are never split, which guarantees that joining the chunks in order
// reconstructs the input exactly. Empty input yields no chunks.
func (c *Chunker) Split(text string) []types.Chunk {
	if text == "" {
		return nil
	}

	var (
		pieces  []string
		current strings.Builder
	)

	for _, line := range splitAfterLines(text) {
		if current.Len()+len(line) > c.budget && current.Len() > 0 {
			pieces = append(pieces, current.String())
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		pieces = append(pieces, current.String())
	}

	chunks := make([]types.Chunk, len(pieces))
	for i, p := range pieces {
		chunks[i] = types.Chunk{
			Index: i + 1,
			Total: len(pieces),
			Text:  p,
		}
	}
	return chunks
}

// Join reassembles chunk texts in order. It is the inverse of Split.
func Join(chunks []types.Chunk) string {
	var b strings.Builder
	for _, c := range chunks {
		b.WriteString(c.Text)
	}
	return b.String()
}

// splitAfterLines splits text into lines with their terminators preserved.
// Trailing content without a final newline is kept as the last element.
func splitAfterLines(text string) []string {
	var lines []string
	for len(text) > 0 {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i+1])
		text = text[i+1:]
	}
	return lines
}

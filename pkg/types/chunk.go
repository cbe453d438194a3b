package types

import (
	"errors"
	"fmt"
)

// Chunk is a line-aligned, budget-bounded slice of a source file's text,
// sent as one unit to the inference endpoint.
//
// Chunks are 1-based and ordered: joining the Text of all chunks of a file
// in Index order reconstructs the original content exactly. A chunk may
// exceed the configured budget only when it consists of a single line that
// alone exceeds the budget; lines are never split.
type Chunk struct {
	Index int    // 1-based position within the file
	Total int    // total number of chunks for the file
	Text  string // raw slice, line terminators preserved
}

// Validate checks the chunk's ordering invariants.
func (c *Chunk) Validate() error {
	if c.Text == "" {
		return errors.New("chunk text cannot be empty")
	}
	if c.Index < 1 {
		return errors.New("chunk index must be 1-based")
	}
	if c.Total < c.Index {
		return errors.New("chunk total must be >= index")
	}
	return nil
}

// PartLabel returns the "(Part i of n)" annotation for multi-chunk files,
// or the empty string when the file fits in a single chunk.
func (c *Chunk) PartLabel() string {
	if c.Total <= 1 {
		return ""
	}
	return partLabel(c.Index, c.Total)
}

func partLabel(index, total int) string {
	return fmt.Sprintf("(Part %d of %d)", index, total)
}

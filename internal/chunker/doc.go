// Package chunker partitions file text into size-bounded chunks for
// inference round trips.
//
// Chunks follow line boundaries: the chunker accumulates whole lines until
// the next line would exceed the character budget, then starts a new chunk.
// Lines are never split, so a single over-budget line is emitted verbatim
// as its own chunk.
//
// # Basic Usage
//
//	c, err := chunker.New(6000)
//	if err != nil {
//	    log.Fatal().Err(err).Msg("bad budget")
//	}
//
//	chunks := c.Split(content)
//	for _, chunk := range chunks {
//	    fmt.Printf("chunk %d/%d: %d chars\n", chunk.Index, chunk.Total, len(chunk.Text))
//	}
//
// # Guarantees
//
//   - Lossless: chunker.Join(c.Split(text)) == text for any input
//   - Bounded: every chunk is <= budget characters, except a chunk holding
//     one line that alone exceeds the budget
//   - Ordered: indices are 1-based and match original textual order
//   - Empty input yields zero chunks
package chunker

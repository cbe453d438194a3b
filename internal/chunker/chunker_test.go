package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	c, err := New(100)
	require.NoError(t, err)
	assert.Equal(t, 100, c.Budget())

	_, err = New(0)
	assert.ErrorIs(t, err, ErrInvalidBudget)

	_, err = New(-5)
	assert.ErrorIs(t, err, ErrInvalidBudget)
}

func TestSplit_Empty(t *testing.T) {
	c, err := New(100)
	require.NoError(t, err)
	assert.Empty(t, c.Split(""))
}

func TestSplit_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		budget int
	}{
		{"single short line", "hello\n", 100},
		{"no trailing newline", "hello\nworld", 100},
		{"exact budget", "abcde\n", 6},
		{"one char budget", "ab\ncd\nef\n", 1},
		{"line longer than budget", strings.Repeat("x", 50) + "\nshort\n", 10},
		{"crlf terminators", "one\r\ntwo\r\nthree\r\n", 5},
		{"blank lines", "\n\n\n", 2},
		{"unicode content", "héllo wörld\nsecond línе\n", 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.budget)
			require.NoError(t, err)

			chunks := c.Split(tt.text)
			assert.Equal(t, tt.text, Join(chunks))

			for i, chunk := range chunks {
				assert.Equal(t, i+1, chunk.Index)
				assert.Equal(t, len(chunks), chunk.Total)
				require.NoError(t, chunk.Validate())
			}
		})
	}
}

func TestSplit_BudgetRespected(t *testing.T) {
	c, err := New(10)
	require.NoError(t, err)

	text := "aaaa\nbbbb\ncccc\ndddd\n"
	for _, chunk := range c.Split(text) {
		assert.LessOrEqual(t, len(chunk.Text), 10)
	}
}

func TestSplit_OverBudgetLineStandsAlone(t *testing.T) {
	long := strings.Repeat("z", 100) + "\n"
	text := "ab\n" + long + "cd\n"

	c, err := New(10)
	require.NoError(t, err)
	chunks := c.Split(text)

	require.Len(t, chunks, 3)
	assert.Equal(t, "ab\n", chunks[0].Text)
	assert.Equal(t, long, chunks[1].Text)
	assert.Equal(t, "cd\n", chunks[2].Text)

	// The over-budget line is emitted verbatim and alone; the others obey
	// the budget.
	assert.Greater(t, len(chunks[1].Text), 10)
	assert.LessOrEqual(t, len(chunks[0].Text), 10)
	assert.LessOrEqual(t, len(chunks[2].Text), 10)
}

func TestSplit_CountMonotonicWithShrinkingBudget(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString(strings.Repeat("a", 70))
		b.WriteString("\n")
	}
	text := b.String()

	prev := 0
	for _, budget := range []int{5000, 2000, 1000, 500, 100, 50} {
		c, err := New(budget)
		require.NoError(t, err)
		n := len(c.Split(text))
		if prev > 0 {
			assert.GreaterOrEqual(t, n, prev, "budget %d produced fewer chunks", budget)
		}
		prev = n
	}
}

func TestSplit_ExampleScenario(t *testing.T) {
	// 3000 characters across 40 lines, budget 1000.
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString(strings.Repeat("m", 74)) // 74 + newline = 75 chars per line
		b.WriteString("\n")
	}
	text := b.String()
	require.Equal(t, 3000, len(text))

	c, err := New(1000)
	require.NoError(t, err)
	chunks := c.Split(text)

	assert.Equal(t, text, Join(chunks))
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Text), 1000)
	}
	// 13 lines of 75 chars fit in 1000; expect ceil(40/13) chunks.
	assert.Len(t, chunks, 4)
}

func TestSplit_SingleChunkWhenUnderBudget(t *testing.T) {
	c, err := New(10000)
	require.NoError(t, err)

	chunks := c.Split("short file\nwith two lines\n")
	require.Len(t, chunks, 1)
	assert.Equal(t, 1, chunks[0].Index)
	assert.Equal(t, 1, chunks[0].Total)
	assert.Empty(t, chunks[0].PartLabel())
}

func TestSplitAfterLines(t *testing.T) {
	assert.Equal(t, []string{"a\n", "b\n"}, splitAfterLines("a\nb\n"))
	assert.Equal(t, []string{"a\n", "b"}, splitAfterLines("a\nb"))
	assert.Equal(t, []string{"\n"}, splitAfterLines("\n"))
	assert.Nil(t, splitAfterLines(""))
}

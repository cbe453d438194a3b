package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTask(t *testing.T) {
	tests := []struct {
		input    string
		expected Task
		wantErr  bool
	}{
		{"documentation", TaskDocumentation, false},
		{"doc", TaskDocumentation, false},
		{"docs", TaskDocumentation, false},
		{"deep_documentation", TaskDeepDocumentation, false},
		{"deep", TaskDeepDocumentation, false},
		{"analysis", TaskAnalysis, false},
		{"analyze", TaskAnalysis, false},
		{"", "", true},
		{"summary", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			task, err := ParseTask(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownTask)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, task)
		})
	}
}

func TestTaskNaming(t *testing.T) {
	assert.Equal(t, "_doc.md", TaskDocumentation.DocSuffix())
	assert.Equal(t, "_deep_doc.md", TaskDeepDocumentation.DocSuffix())
	assert.Equal(t, "_analysis.md", TaskAnalysis.DocSuffix())

	assert.Equal(t, "TABLE_OF_CONTENTS.md", TaskDocumentation.IndexFileName())
	assert.Equal(t, "TABLE_OF_CONTENTS.md", TaskDeepDocumentation.IndexFileName())
	assert.Equal(t, "PROJECT_ANALYSIS_SUMMARY.md", TaskAnalysis.IndexFileName())
}

func TestChunkPartLabel(t *testing.T) {
	single := Chunk{Index: 1, Total: 1, Text: "x"}
	assert.Empty(t, single.PartLabel())

	multi := Chunk{Index: 2, Total: 3, Text: "x"}
	assert.Equal(t, "(Part 2 of 3)", multi.PartLabel())
}

func TestChunkValidate(t *testing.T) {
	tests := []struct {
		name    string
		chunk   Chunk
		wantErr bool
	}{
		{"valid", Chunk{Index: 1, Total: 2, Text: "a"}, false},
		{"empty text", Chunk{Index: 1, Total: 1}, true},
		{"zero index", Chunk{Index: 0, Total: 1, Text: "a"}, true},
		{"index beyond total", Chunk{Index: 3, Total: 2, Text: "a"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.chunk.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResultRender(t *testing.T) {
	ok := Result{Kind: ResultOK, Text: "the answer"}
	assert.True(t, ok.OK())
	assert.Equal(t, "the answer", ok.Render("http://localhost:11434/api/generate", "llama3"))

	conn := Result{Kind: ResultConnectionFailed, Detail: "dial refused"}
	rendered := conn.Render("http://localhost:11434/api/generate", "llama3")
	assert.Contains(t, rendered, "**Error: could not connect")
	assert.Contains(t, rendered, "http://localhost:11434/api/generate")
	assert.Contains(t, rendered, "llama3")

	proto := Result{Kind: ResultProtocolError, StatusCode: 500, Detail: "model not found"}
	rendered = proto.Render("u", "m")
	assert.Contains(t, rendered, "HTTP 500")
	assert.Contains(t, rendered, "model not found")

	other := Result{Kind: ResultInternalError, Detail: "decode failed"}
	assert.Contains(t, other.Render("u", "m"), "unexpected error")
}

func TestResultValidate(t *testing.T) {
	assert.NoError(t, Result{Kind: ResultOK}.Validate())
	assert.NoError(t, Result{Kind: ResultConnectionFailed, Detail: "x"}.Validate())
	assert.Error(t, Result{Kind: ResultConnectionFailed}.Validate())
	assert.NoError(t, Result{Kind: ResultProtocolError, StatusCode: 502}.Validate())
	assert.Error(t, Result{Kind: ResultProtocolError}.Validate())
	assert.Error(t, Result{Kind: "weird"}.Validate())
}

func TestDocumentMarkdown_SingleSection(t *testing.T) {
	doc := Document{
		Task:     TaskDocumentation,
		RelPath:  "pkg/util.py",
		Language: "python",
		Sections: []Section{{Body: "Explains everything."}},
	}

	md := doc.Markdown()
	assert.Contains(t, md, "# Documentation for `pkg/util.py`")
	assert.Contains(t, md, "**Original File Type:** Python")
	assert.Contains(t, md, "Explains everything.")
	assert.NotContains(t, md, "## Part")
}

func TestDocumentMarkdown_MultiSection(t *testing.T) {
	doc := Document{
		Task:     TaskAnalysis,
		RelPath:  "main.go",
		Language: "golang",
		Sections: []Section{
			{Heading: "Part 1 Analysis", Body: "first"},
			{Heading: "Part 2 Analysis", Body: "second"},
		},
	}

	md := doc.Markdown()
	assert.Contains(t, md, "# Code Analysis Report for `main.go`")
	assert.Contains(t, md, "## Part 1 Analysis")
	assert.Contains(t, md, "## Part 2 Analysis")

	// Section order must match chunk order.
	assert.Less(t, strings.Index(md, "first"), strings.Index(md, "second"))
}

func TestDocumentValidate(t *testing.T) {
	doc := Document{Task: TaskDocumentation, RelPath: "a.py", Sections: []Section{{Body: "x"}}}
	assert.NoError(t, doc.Validate())

	assert.Error(t, (&Document{Task: TaskDocumentation, Sections: []Section{{Body: "x"}}}).Validate())
	assert.Error(t, (&Document{Task: TaskDocumentation, RelPath: "a.py"}).Validate())
	assert.Error(t, (&Document{Task: "bogus", RelPath: "a.py", Sections: []Section{{Body: "x"}}}).Validate())
}

func TestCapitalizeLanguage(t *testing.T) {
	assert.Equal(t, "Python", CapitalizeLanguage("python"))
	assert.Equal(t, "Environment configuration", CapitalizeLanguage("environment configuration"))
	assert.Equal(t, "", CapitalizeLanguage(""))
}

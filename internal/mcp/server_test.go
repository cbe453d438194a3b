package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimircode/mimircode/internal/config"
	"github.com/mimircode/mimircode/internal/llm"
	"github.com/mimircode/mimircode/internal/store"
	"github.com/mimircode/mimircode/pkg/types"
)

type stubClient struct{}

func (stubClient) Complete(_ context.Context, _ llm.Request) types.Result {
	return types.Result{Kind: types.ResultOK, Text: "generated text"}
}
func (stubClient) Endpoint() string { return "http://stub:11434/api/generate" }
func (stubClient) Model() string    { return "stub" }
func (stubClient) Close() error     { return nil }

func newTestMCPServer(t *testing.T) *Server {
	t.Helper()
	db, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	srv, err := NewServer(config.Default(), stubClient{}, db)
	require.NoError(t, err)
	return srv
}

func toolRequest(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &payload))
	return payload
}

func TestGenerateDocsTool(t *testing.T) {
	srv := newTestMCPServer(t)

	source := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(source, "app.py"), []byte("print('hi')\n"), 0644))
	output := filepath.Join(t.TempDir(), "out")

	result, err := srv.handleGenerateDocs(context.Background(), toolRequest(map[string]interface{}{
		"path":   source,
		"task":   "documentation",
		"output": output,
	}))
	require.NoError(t, err)

	payload := resultJSON(t, result)
	assert.Equal(t, float64(1), payload["files_processed"])
	assert.Equal(t, "TABLE_OF_CONTENTS.md", payload["index_file"])
	assert.NotEmpty(t, payload["run_id"])

	_, err = os.Stat(filepath.Join(output, "app_doc.md"))
	assert.NoError(t, err)
}

func TestGenerateDocsToolValidation(t *testing.T) {
	srv := newTestMCPServer(t)

	_, err := srv.handleGenerateDocs(context.Background(), toolRequest(map[string]interface{}{}))
	require.Error(t, err)

	_, err = srv.handleGenerateDocs(context.Background(), toolRequest(map[string]interface{}{
		"path": filepath.Join(t.TempDir(), "absent"),
	}))
	require.Error(t, err)

	source := t.TempDir()
	_, err = srv.handleGenerateDocs(context.Background(), toolRequest(map[string]interface{}{
		"path": source,
		"task": "no-such-task",
	}))
	require.Error(t, err)
}

func TestGetRunStatusTool(t *testing.T) {
	srv := newTestMCPServer(t)

	source := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(source, "app.py"), []byte("pass\n"), 0644))

	result, err := srv.handleGenerateDocs(context.Background(), toolRequest(map[string]interface{}{
		"path":   source,
		"output": filepath.Join(t.TempDir(), "out"),
	}))
	require.NoError(t, err)
	runID := resultJSON(t, result)["run_id"].(string)

	result, err = srv.handleGetRunStatus(context.Background(), toolRequest(map[string]interface{}{
		"run_id": runID,
	}))
	require.NoError(t, err)

	payload := resultJSON(t, result)
	assert.Equal(t, runID, payload["run_id"])
	assert.Equal(t, "documentation", payload["task"])
	docs := payload["documents"].([]interface{})
	require.Len(t, docs, 1)
	assert.Equal(t, "app_doc.md", docs[0].(map[string]interface{})["storage_path"])
}

func TestGetRunStatusToolNotFound(t *testing.T) {
	srv := newTestMCPServer(t)

	_, err := srv.handleGetRunStatus(context.Background(), toolRequest(map[string]interface{}{
		"run_id": "no-such-run",
	}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeRunNotFound, mcpErr.Code)
}

func TestListRunsTool(t *testing.T) {
	srv := newTestMCPServer(t)

	source := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(source, "app.py"), []byte("pass\n"), 0644))

	for i := 0; i < 2; i++ {
		_, err := srv.handleGenerateDocs(context.Background(), toolRequest(map[string]interface{}{
			"path":   source,
			"output": filepath.Join(t.TempDir(), "out"),
		}))
		require.NoError(t, err)
	}

	result, err := srv.handleListRuns(context.Background(), toolRequest(map[string]interface{}{
		"limit": float64(10),
	}))
	require.NoError(t, err)

	payload := resultJSON(t, result)
	runs := payload["runs"].([]interface{})
	assert.Len(t, runs, 2)
}

func TestListRunsToolWithoutHistory(t *testing.T) {
	srv, err := NewServer(config.Default(), stubClient{}, nil)
	require.NoError(t, err)

	_, err = srv.handleListRuns(context.Background(), toolRequest(nil))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeNoHistory, mcpErr.Code)
}

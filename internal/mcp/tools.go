package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mimircode/mimircode/internal/store"
	"github.com/mimircode/mimircode/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeRunNotFound   = -32001 // No run with the given ID
	ErrorCodeNoHistory     = -32002 // Run history store not configured
)

// handleGenerateDocs handles the generate_docs tool invocation
func (s *Server) handleGenerateDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	if err := validatePath(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	task, err := types.ParseTask(getStringDefault(args, "task", string(types.TaskDocumentation)))
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid task", map[string]interface{}{
			"param":  "task",
			"reason": err.Error(),
		})
	}

	output := getStringDefault(args, "output", "")
	if output == "" {
		output = path + "_docs"
	}

	stats, err := s.gen.Run(ctx, task, path, output)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "generation failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"task":            string(task),
		"output":          output,
		"index_file":      task.IndexFileName(),
		"files_found":     stats.FilesFound,
		"files_processed": stats.FilesProcessed,
		"files_skipped":   stats.FilesSkipped,
		"files_failed":    stats.FilesFailed,
		"chunks_sent":     stats.ChunksSent,
		"calls_failed":    stats.CallsFailed,
		"duration_ms":     stats.Duration.Milliseconds(),
	}

	if len(stats.ErrorMessages) > 0 {
		errorCount := len(stats.ErrorMessages)
		if errorCount > 5 {
			response["errors"] = stats.ErrorMessages[:5]
			response["error_count"] = errorCount
		} else {
			response["errors"] = stats.ErrorMessages
		}
	}

	// The run was recorded as the newest history entry.
	if s.db != nil {
		if runs, err := s.db.ListRuns(ctx, 1); err == nil && len(runs) > 0 {
			response["run_id"] = runs[0].RunID
		}
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetRunStatus handles the get_run_status tool invocation
func (s *Server) handleGetRunStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	runID, ok := args["run_id"].(string)
	if !ok || runID == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "run_id parameter is required", map[string]interface{}{
			"param":  "run_id",
			"reason": "missing or empty",
		})
	}

	if s.db == nil {
		return nil, newMCPError(ErrorCodeNoHistory, "run history is not configured", nil)
	}

	run, err := s.db.GetRun(ctx, runID)
	if err == store.ErrNotFound {
		return nil, newMCPError(ErrorCodeRunNotFound, "run not found", map[string]interface{}{
			"run_id": runID,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get run", map[string]interface{}{
			"error": err.Error(),
		})
	}

	docs, err := s.db.ListDocuments(ctx, runID)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list documents", map[string]interface{}{
			"error": err.Error(),
		})
	}

	documents := make([]map[string]interface{}, 0, len(docs))
	for _, doc := range docs {
		documents = append(documents, map[string]interface{}{
			"rel_path":     doc.RelPath,
			"storage_path": doc.StoragePath,
			"language":     doc.Language,
			"sections":     doc.Sections,
			"failed_calls": doc.FailedCalls,
		})
	}

	response := map[string]interface{}{
		"run_id":       run.RunID,
		"task":         string(run.Task),
		"source_root":  run.SourceRoot,
		"output_dir":   run.OutputDir,
		"index_path":   run.IndexPath,
		"completed_at": run.CompletedAt.Format("2006-01-02T15:04:05Z07:00"),
		"statistics": map[string]interface{}{
			"files_found":     run.FilesFound,
			"files_processed": run.FilesProcessed,
			"files_skipped":   run.FilesSkipped,
			"files_failed":    run.FilesFailed,
			"chunks_sent":     run.ChunksSent,
			"calls_failed":    run.CallsFailed,
			"duration_ms":     run.Duration.Milliseconds(),
		},
		"documents": documents,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListRuns handles the list_runs tool invocation
func (s *Server) handleListRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	limit := getIntDefault(args, "limit", 20)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	if s.db == nil {
		return nil, newMCPError(ErrorCodeNoHistory, "run history is not configured", nil)
	}

	runs, err := s.db.ListRuns(ctx, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list runs", map[string]interface{}{
			"error": err.Error(),
		})
	}

	items := make([]map[string]interface{}, 0, len(runs))
	for _, run := range runs {
		items = append(items, map[string]interface{}{
			"run_id":          run.RunID,
			"task":            string(run.Task),
			"source_root":     run.SourceRoot,
			"files_processed": run.FilesProcessed,
			"calls_failed":    run.CallsFailed,
			"completed_at":    run.CompletedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"runs": items,
	})), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validatePath checks if a path exists and is an accessible directory
func validatePath(path string) error {
	if path == "" {
		return ErrPathRequired
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}

	if !info.IsDir() {
		return ErrNotDirectory
	}

	f, err := os.Open(path)
	if err != nil {
		return ErrPathNotReadable
	}
	_ = f.Close()

	return nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrPathRequired    = errors.New("path is required")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrNotDirectory    = errors.New("path is not a directory")
)

package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// generateDocsTool returns the tool definition for generate_docs
func generateDocsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "generate_docs",
		Description: "Generate documentation or a code analysis report for a source tree",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the source tree root",
				},
				"task": map[string]interface{}{
					"type":        "string",
					"description": "Generation task to run",
					"enum":        []string{"documentation", "deep_documentation", "analysis"},
					"default":     "documentation",
				},
				"output": map[string]interface{}{
					"type":        "string",
					"description": "Output directory for generated Markdown (defaults to '<path>_docs')",
				},
			},
			Required: []string{"path"},
		},
	}
}

// getRunStatusTool returns the tool definition for get_run_status
func getRunStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_run_status",
		Description: "Query a past generation run by its ID, including the documents it produced",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"run_id": map[string]interface{}{
					"type":        "string",
					"description": "Run ID as returned by generate_docs or list_runs",
				},
			},
			Required: []string{"run_id"},
		},
	}
}

// listRunsTool returns the tool definition for list_runs
func listRunsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_runs",
		Description: "List recent generation runs, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of runs to return (1-100)",
					"default":     20,
					"minimum":     1,
					"maximum":     100,
				},
			},
		},
	}
}

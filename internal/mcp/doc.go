// Package mcp implements the Model Context Protocol server, exposing
// the generation pipeline to MCP clients over stdio.
//
// # Tools
//
// generate_docs runs one generation task against a local source tree:
//
//	{
//	  "path": "/abs/path/to/project",
//	  "task": "documentation" | "deep_documentation" | "analysis",
//	  "output": "/abs/path/to/output"   // optional
//	}
//
// The call blocks until the run completes and returns run statistics as
// JSON, including the run_id under which the run was recorded.
//
// get_run_status returns a recorded run with its per-file documents:
//
//	{ "run_id": "..." }
//
// list_runs returns recent runs, newest first:
//
//	{ "limit": 20 }
//
// # Error Codes
//
// Tools return JSON-RPC style error codes: -32602 for invalid
// parameters, -32603 for internal failures, -32001 when a run ID is
// unknown and -32002 when no history store is configured. Inference
// failures during a run are NOT tool errors; they degrade into the
// generated documents and show up in calls_failed.
package mcp

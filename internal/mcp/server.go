package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mimircode/mimircode/internal/config"
	"github.com/mimircode/mimircode/internal/docgen"
	"github.com/mimircode/mimircode/internal/llm"
	"github.com/mimircode/mimircode/internal/store"
)

const (
	// ServerName is the MCP server name
	ServerName = "mimircode"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp    *server.MCPServer
	cfg    *config.Config
	gen    *docgen.Generator
	db     store.Store
	client llm.Client
}

// NewServer creates a new MCP server instance. The store may be nil,
// which disables run history tools' content.
func NewServer(cfg *config.Config, client llm.Client, db store.Store) (*Server, error) {
	var recorder docgen.RunRecorder
	if db != nil {
		recorder = db
	}
	gen, err := docgen.New(cfg, client, recorder)
	if err != nil {
		return nil, err
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:    mcpServer,
		cfg:    cfg,
		gen:    gen,
		db:     db,
		client: client,
	}

	s.registerTools()

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.client.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(generateDocsTool(), s.handleGenerateDocs)
	s.mcp.AddTool(getRunStatusTool(), s.handleGetRunStatus)
	s.mcp.AddTool(listRunsTool(), s.handleListRuns)
}

package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/codesense-mcp/internal/config"
	"github.com/dshills/codesense-mcp/internal/engine"
	"github.com/dshills/codesense-mcp/internal/searcher"
)

const (
	// ServerName is the MCP server name
	ServerName = "codesense-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp         *server.MCPServer
	engine      *engine.Engine
	searcher    *searcher.Searcher
	defaultTopK int
}

// NewServer creates a new MCP server instance for the configured codebase
func NewServer(cfg *config.Config) (*Server, error) {
	eng, err := engine.New(cfg, engine.Options{})
	if err != nil {
		return nil, err
	}

	s, err := newServer(eng)
	if err != nil {
		_ = eng.Close()
		return nil, err
	}
	return s, nil
}

func newServer(eng *engine.Engine) (*Server, error) {
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcp:         mcpServer,
		engine:      eng,
		searcher:    eng.Searcher,
		defaultTopK: eng.Config.Search.DefaultTopK,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.engine.Close() }()
	return server.ServeStdio(s.mcp)
}

// Close releases the engine without serving
func (s *Server) Close() error {
	return s.engine.Close()
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcp.AddTool(semanticSearchTool(), s.handleSemanticSearch)
	s.mcp.AddTool(indexCodebaseTool(), s.handleIndexCodebase)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)

	return nil
}

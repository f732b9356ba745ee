package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/codesense-mcp/internal/searcher"
	"github.com/dshills/codesense-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams      = -32602 // Invalid method parameters
	ErrorCodeInternalError      = -32603 // Internal JSON-RPC error
	ErrorCodeIndexingInProgress = -32002 // Another indexing operation is already running
	ErrorCodeEmptyQuery         = -32004 // Query parameter is empty
)

// maxErrorsReported caps the error messages returned by index_codebase
const maxErrorsReported = 5

// handleSemanticSearch handles the semantic_search tool invocation
func (s *Server) handleSemanticSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// without a provider every call answers with the sentinel, whatever the arguments
	if !s.engine.Embedder.Available() {
		return mcp.NewToolResultText(formatJSON([]types.SearchResult{types.UnavailableResult()})), nil
	}

	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	query, ok := args["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	topK, err := getIntDefault(args, "topK", s.defaultTopK)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "topK must be an integer", map[string]interface{}{
			"param":  "topK",
			"reason": err.Error(),
		})
	}

	results, err := s.searcher.Search(ctx, query, topK)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(results)), nil
}

// handleIndexCodebase handles the index_codebase tool invocation
func (s *Server) handleIndexCodebase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.engine.Embedder.Available() {
		response := map[string]interface{}{
			"indexed":   false,
			"available": false,
			"message":   "No embedding provider configured. Set OPENAI_API_KEY or JINA_API_KEY to enable semantic search.",
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}

	stats, err := s.searcher.Warm(ctx)
	if errors.Is(err, searcher.ErrIndexingInProgress) {
		return nil, newMCPError(ErrorCodeIndexingInProgress, "indexing already in progress", nil)
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "indexing failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"indexed":          true,
		"available":        true,
		"files_indexed":    stats.FilesIndexed,
		"files_skipped":    stats.FilesSkipped,
		"files_ignored":    stats.FilesIgnored,
		"files_failed":     stats.FilesFailed,
		"chunks_embedded":  stats.ChunksEmbedded,
		"chunks_discarded": stats.ChunksDiscarded,
		"chunks_failed":    stats.ChunksFailed,
		"duration_ms":      stats.Duration.Milliseconds(),
	}

	if errorCount := len(stats.ErrorMessages); errorCount > 0 {
		if errorCount > maxErrorsReported {
			response["errors"] = stats.ErrorMessages[:maxErrorsReported]
			response["error_count"] = errorCount
		} else {
			response["errors"] = stats.ErrorMessages
		}
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.searcher.Status(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"base_dir": s.engine.Catalog.BaseDir(),
		"embedding": map[string]interface{}{
			"available": status.Available,
			"provider":  status.Provider,
			"model":     status.Model,
			"dimension": status.Dimension,
		},
		"index": map[string]interface{}{
			"backend":       status.Backend,
			"snippets":      status.Snippets,
			"indexed_files": status.IndexedFiles,
			"indexing":      status.Indexing,
		},
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
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

// arguments returns the tool arguments; a missing argument object is empty
func arguments(request mcp.CallToolRequest) (map[string]interface{}, error) {
	if request.Params.Arguments == nil {
		return map[string]interface{}{}, nil
	}
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	return args, nil
}

// formatJSON formats a value as indented JSON
func formatJSON(data interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value.
// JSON numbers arrive as float64; fractional values are rejected.
func getIntDefault(args map[string]interface{}, key string, defaultValue int) (int, error) {
	raw, present := args[key]
	if !present || raw == nil {
		return defaultValue, nil
	}

	switch val := raw.(type) {
	case float64:
		if val != math.Trunc(val) {
			return 0, fmt.Errorf("%v is not a whole number", val)
		}
		return int(val), nil
	case int:
		return val, nil
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return 0, err
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("unexpected type %T", raw)
	}
}

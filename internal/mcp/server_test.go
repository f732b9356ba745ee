package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/codesense-mcp/internal/config"
	"github.com/dshills/codesense-mcp/internal/embedder"
	"github.com/dshills/codesense-mcp/pkg/types"
)

const greeterSource = `using System;

namespace Demo
{
    public class Greeter
    {
        public void PrintMessage()
        {
            Console.WriteLine("Hello");
        }
    }
}
`

func newTestServer(t *testing.T, provider string) (*Server, string) {
	t.Helper()
	t.Setenv(embedder.EnvOpenAIAPIKey, "")
	t.Setenv(embedder.EnvJinaAPIKey, "")

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "Greeter.cs"), []byte(greeterSource), 0644))

	cfg := config.DefaultConfig()
	cfg.BaseDir = root
	cfg.Embedding.Provider = provider

	s, err := NewServer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, root
}

func callTool(name string, args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	if args != nil {
		req.Params.Arguments = args
	}
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func requireMCPError(t *testing.T, err error, code int) {
	t.Helper()
	var mcpErr *MCPError
	require.True(t, errors.As(err, &mcpErr), "expected *MCPError, got %v", err)
	assert.Equal(t, code, mcpErr.Code)
}

func TestServer_Initialization(t *testing.T) {
	s, _ := newTestServer(t, embedder.ProviderLocal)

	assert.NotNil(t, s.mcp, "MCP server should be initialized")
	assert.NotNil(t, s.engine, "Engine should be initialized")
	assert.NotNil(t, s.searcher, "Searcher should be initialized")
	assert.Equal(t, config.DefaultTopK, s.defaultTopK)
}

func TestServer_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.BaseDir = filepath.Join(t.TempDir(), "missing")

	_, err := NewServer(cfg)
	assert.Error(t, err)
}

func TestSemanticSearch(t *testing.T) {
	s, _ := newTestServer(t, embedder.ProviderLocal)

	result, err := s.handleSemanticSearch(context.Background(), callTool("semantic_search", map[string]interface{}{
		"query": "print message to console",
		"topK":  float64(3),
	}))
	require.NoError(t, err)

	var results []types.SearchResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Greeter.cs", filepath.Base(results[0].FilePath))
	assert.Equal(t, 1, results[0].StartLine)
	assert.Equal(t, 12, results[0].EndLine)
	assert.True(t, filepath.IsAbs(results[0].FilePath))
}

func TestSemanticSearch_DefaultTopK(t *testing.T) {
	s, _ := newTestServer(t, embedder.ProviderLocal)
	s.defaultTopK = 0

	result, err := s.handleSemanticSearch(context.Background(), callTool("semantic_search", map[string]interface{}{
		"query": "greeter",
	}))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", resultText(t, result))
}

func TestSemanticSearch_Validation(t *testing.T) {
	s, _ := newTestServer(t, embedder.ProviderLocal)

	tests := []struct {
		name string
		args map[string]interface{}
		code int
	}{
		{"missing query", map[string]interface{}{}, ErrorCodeEmptyQuery},
		{"no arguments", nil, ErrorCodeEmptyQuery},
		{"blank query", map[string]interface{}{"query": "   "}, ErrorCodeEmptyQuery},
		{"query not string", map[string]interface{}{"query": 42.0}, ErrorCodeEmptyQuery},
		{"fractional topK", map[string]interface{}{"query": "x", "topK": 2.5}, ErrorCodeInvalidParams},
		{"string topK", map[string]interface{}{"query": "x", "topK": "five"}, ErrorCodeInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.handleSemanticSearch(context.Background(), callTool("semantic_search", tt.args))
			requireMCPError(t, err, tt.code)
		})
	}
}

func TestSemanticSearch_Unavailable(t *testing.T) {
	s, _ := newTestServer(t, "")

	result, err := s.handleSemanticSearch(context.Background(), callTool("semantic_search", map[string]interface{}{
		"query": "print message",
	}))
	require.NoError(t, err)

	var results []types.SearchResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &results))
	require.Len(t, results, 1)
	assert.Equal(t, types.UnavailableFilePath, results[0].FilePath)
}

func TestSemanticSearch_UnavailableIgnoresArguments(t *testing.T) {
	s, _ := newTestServer(t, "")

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"empty query", map[string]interface{}{"query": ""}},
		{"no arguments", nil},
		{"bad topK", map[string]interface{}{"query": "x", "topK": "five"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.handleSemanticSearch(context.Background(), callTool("semantic_search", tt.args))
			require.NoError(t, err)

			var results []types.SearchResult
			require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &results))
			require.Len(t, results, 1)
			assert.True(t, results[0].IsUnavailable())
		})
	}
}

func TestIndexCodebase(t *testing.T) {
	s, _ := newTestServer(t, embedder.ProviderLocal)

	result, err := s.handleIndexCodebase(context.Background(), callTool("index_codebase", nil))
	require.NoError(t, err)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	assert.Equal(t, true, response["indexed"])
	assert.Equal(t, float64(1), response["files_indexed"])
	assert.Equal(t, float64(1), response["chunks_embedded"])

	// second run skips the indexed file
	result, err = s.handleIndexCodebase(context.Background(), callTool("index_codebase", nil))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	assert.Equal(t, float64(0), response["files_indexed"])
	assert.Equal(t, float64(1), response["files_skipped"])
}

func TestIndexCodebase_Unavailable(t *testing.T) {
	s, _ := newTestServer(t, "")

	result, err := s.handleIndexCodebase(context.Background(), callTool("index_codebase", nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), `"available": false`)
}

func TestGetStatus(t *testing.T) {
	s, root := newTestServer(t, embedder.ProviderLocal)
	ctx := context.Background()

	_, err := s.handleIndexCodebase(ctx, callTool("index_codebase", nil))
	require.NoError(t, err)

	result, err := s.handleGetStatus(ctx, callTool("get_status", nil))
	require.NoError(t, err)

	var response struct {
		BaseDir   string `json:"base_dir"`
		Embedding struct {
			Available bool   `json:"available"`
			Provider  string `json:"provider"`
			Dimension int    `json:"dimension"`
		} `json:"embedding"`
		Index struct {
			Backend      string `json:"backend"`
			Snippets     int    `json:"snippets"`
			IndexedFiles int    `json:"indexed_files"`
			Indexing     bool   `json:"indexing"`
		} `json:"index"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))

	resolvedRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, resolvedRoot, response.BaseDir)
	assert.True(t, response.Embedding.Available)
	assert.Equal(t, embedder.ProviderLocal, response.Embedding.Provider)
	assert.Equal(t, embedder.LocalDimension, response.Embedding.Dimension)
	assert.Equal(t, "memory", response.Index.Backend)
	assert.Equal(t, 1, response.Index.Snippets)
	assert.Equal(t, 1, response.Index.IndexedFiles)
	assert.False(t, response.Index.Indexing)
}

func TestGetIntDefault(t *testing.T) {
	args := map[string]interface{}{
		"float":  float64(7),
		"int":    3,
		"number": json.Number("11"),
		"frac":   1.5,
		"nil":    nil,
		"bool":   true,
	}

	tests := []struct {
		key     string
		want    int
		wantErr bool
	}{
		{"float", 7, false},
		{"int", 3, false},
		{"number", 11, false},
		{"missing", 5, false},
		{"nil", 5, false},
		{"frac", 0, true},
		{"bool", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := getIntDefault(args, tt.key, 5)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMCPError(t *testing.T) {
	err := newMCPError(ErrorCodeIndexingInProgress, "indexing already in progress", nil)
	assert.Equal(t, "MCP error -32002: indexing already in progress", err.Error())
}

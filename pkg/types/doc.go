// Package types provides shared type definitions for the codesense MCP server.
//
// # Core Types
//
// Window is a line-numbered slice of a source file produced by the chunker:
//
//	w := types.Window{StartLine: 12, EndLine: 30, Content: body}
//
// Snippet is a window that survived filtering and was embedded. Its identity is
// the (file path, start line, end line) triple returned by Key:
//
//	s := &types.Snippet{FilePath: path, StartLine: 12, EndLine: 30, Content: body, Embedding: vec}
//	key := s.Key() // "path:12-30"
//
// # Search Results
//
// SearchResult is the transient, JSON-serializable hit returned for a query:
//
//	{"filePath": "...", "startLine": 12, "endLine": 30, "content": "...", "score": 0.83, "parentScope": "Run"}
//
// Score is the cosine similarity between the query and snippet embeddings and
// lies in [-1, 1]. When no embedding provider is configured the search returns
// a single sentinel built by UnavailableResult.
package types

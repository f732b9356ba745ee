// Package mcp implements the Model Context Protocol (MCP) server for codesense.
//
// The server exposes three tools to AI coding assistants:
//   - semantic_search: Find code by meaning with a natural-language query
//   - index_codebase: Index the codebase ahead of the first query
//   - get_status: Report index size and embedding provider details
//
// One server serves one codebase, the base directory from configuration.
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server is started via the serve command:
//
//	codesense serve --config codesense.yaml
//
// # Tool: semantic_search
//
//	Request:
//	{
//	  "name": "semantic_search",
//	  "arguments": {
//	    "query": "print message to console",
//	    "topK": 5
//	  }
//	}
//
//	Response (text content, a JSON array):
//	[
//	  {
//	    "filePath": "/src/Demo/Greeter.cs",
//	    "startLine": 15,
//	    "endLine": 20,
//	    "content": "public void PrintMessage() ...",
//	    "score": 0.83,
//	    "parentScope": "Greeter.PrintMessage"
//	  }
//	]
//
// Files not yet indexed are indexed before the query runs, so the first
// search on a large codebase is slow. Without OPENAI_API_KEY or JINA_API_KEY
// the array holds a single entry whose filePath is
// "<semantic-search-unavailable>".
//
// # Tool: index_codebase
//
//	Response:
//	{
//	  "indexed": true,
//	  "files_indexed": 247,
//	  "files_skipped": 12,
//	  "chunks_embedded": 1830,
//	  "duration_ms": 35200
//	}
//
// A second call while one is running fails with -32002.
//
// # Tool: get_status
//
//	Response:
//	{
//	  "base_dir": "/src",
//	  "embedding": {"available": true, "provider": "openai", "model": "text-embedding-3-small", "dimension": 1536},
//	  "index": {"backend": "memory", "snippets": 1830, "indexed_files": 259, "indexing": false}
//	}
//
// # MCP Client Configuration
//
//	{
//	  "mcpServers": {
//	    "codesense": {
//	      "command": "/usr/local/bin/codesense",
//	      "args": ["serve", "--dir", "/path/to/project"],
//	      "env": {
//	        "OPENAI_API_KEY": "your-api-key"
//	      }
//	    }
//	  }
//	}
//
// # Error Handling
//
// Tool handlers return *MCPError values:
//   - -32602: Invalid params (malformed arguments, non-integer topK)
//   - -32603: Internal error (query embedding failed, store failure)
//   - -32002: Indexing in progress
//   - -32004: Empty query (only when a provider is configured; otherwise the sentinel is returned)
//
// # Logging
//
// The server logs to stderr; stdout is reserved for the MCP protocol.
package mcp

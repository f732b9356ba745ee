package config

import (
	"github.com/dshills/codesense-mcp/internal/catalog"
	"github.com/dshills/codesense-mcp/internal/chunker"
	"github.com/dshills/codesense-mcp/internal/embedder"
	"github.com/dshills/codesense-mcp/internal/ignore"
	"github.com/dshills/codesense-mcp/internal/storage"
)

// DefaultTopK is the number of results returned when a query names none
const DefaultTopK = 5

// DefaultConfig returns a Config with the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		BaseDir: ".",
		Chunk: ChunkConfig{
			Size:    chunker.DefaultChunkSize,
			Overlap: chunker.DefaultOverlap,
		},
		Ignore: IgnoreConfig{
			UseDefaults: true,
		},
		Catalog: CatalogConfig{
			MaxFileSize: catalog.DefaultMaxFileSize,
		},
		Embedding: EmbeddingConfig{
			CacheSize:  embedder.DefaultCacheSize,
			Timeout:    embedder.DefaultTimeout,
			MaxRetries: embedder.MaxRetries,
		},
		Index: IndexConfig{
			Backend: storage.BackendMemory,
			DBPath:  ":memory:",
			Workers: 1,
		},
		Search: SearchConfig{
			DefaultTopK: DefaultTopK,
		},
	}
}

// EmbedderConfig converts the embedding section for embedder.New
func (c *Config) EmbedderConfig() embedder.Config {
	return embedder.Config{
		Provider:   c.Embedding.Provider,
		Model:      c.Embedding.Model,
		BaseURL:    c.Embedding.BaseURL,
		CacheSize:  c.Embedding.CacheSize,
		Timeout:    c.Embedding.Timeout,
		MaxRetries: c.Embedding.MaxRetries,
	}
}

// StorageOptions converts the index section for storage.Open
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend: c.Index.Backend,
		DBPath:  c.Index.DBPath,
	}
}

// CatalogOptions converts the catalog section for catalog.New
func (c *Config) CatalogOptions() catalog.Config {
	return catalog.Config{
		BaseDir:     c.BaseDir,
		Extensions:  c.Catalog.Extensions,
		MaxFileSize: c.Catalog.MaxFileSize,
	}
}

// NewChunker builds a chunker from the chunk section
func (c *Config) NewChunker() (*chunker.Chunker, error) {
	return chunker.NewWithOptions(c.Chunk.Size, c.Chunk.Overlap)
}

// NewIgnoreFilter builds the ignore filter from the ignore section
func (c *Config) NewIgnoreFilter() (*ignore.Filter, error) {
	return ignore.New(c.Ignore.Patterns, c.Ignore.UseDefaults)
}

// Package engine wires configuration into a ready-to-use search stack.
//
// One Engine owns one snippet store. Several engines in the same process
// never share an index.
package engine

import (
	"fmt"
	"log"

	"github.com/dshills/codesense-mcp/internal/catalog"
	"github.com/dshills/codesense-mcp/internal/config"
	"github.com/dshills/codesense-mcp/internal/embedder"
	"github.com/dshills/codesense-mcp/internal/indexer"
	"github.com/dshills/codesense-mcp/internal/searcher"
	"github.com/dshills/codesense-mcp/internal/storage"
)

// Engine bundles the components behind a Searcher
type Engine struct {
	Config   *config.Config
	Store    storage.Store
	Embedder embedder.Embedder
	Catalog  *catalog.Catalog
	Indexer  *indexer.Indexer
	Searcher *searcher.Searcher
}

// Options tune how an Engine reports indexing progress
type Options struct {
	Verbose  bool
	Progress indexer.ProgressReporter
}

// New builds an Engine from cfg. The indexer and the searcher share one
// embedder; only chunk embeddings are cached, query text bypasses the cache.
func New(cfg *config.Config, opts Options) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cat, err := catalog.New(cfg.CatalogOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open base directory: %w", err)
	}

	ch, err := cfg.NewChunker()
	if err != nil {
		return nil, fmt.Errorf("failed to create chunker: %w", err)
	}

	filter, err := cfg.NewIgnoreFilter()
	if err != nil {
		return nil, fmt.Errorf("failed to compile ignore patterns: %w", err)
	}

	emb, err := embedder.New(cfg.EmbedderConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	store, err := storage.Open(cfg.StorageOptions())
	if err != nil {
		_ = emb.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	idx := indexer.New(store, emb, &indexer.Config{
		Chunker:  ch,
		Filter:   filter,
		Workers:  cfg.Index.Workers,
		Verbose:  opts.Verbose,
		Progress: opts.Progress,
	})

	log.Printf("engine: base=%s provider=%s model=%s backend=%s (%s)",
		cat.BaseDir(), emb.Provider(), emb.Model(), store.Backend(), storage.BuildMode)

	return &Engine{
		Config:   cfg,
		Store:    store,
		Embedder: emb,
		Catalog:  cat,
		Indexer:  idx,
		Searcher: searcher.New(store, emb, idx, cat),
	}, nil
}

// Close releases the store and the embedder
func (e *Engine) Close() error {
	embErr := e.Embedder.Close()
	if err := e.Store.Close(); err != nil {
		return err
	}
	return embErr
}

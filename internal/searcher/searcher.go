package searcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/dshills/codesense-mcp/internal/embedder"
	"github.com/dshills/codesense-mcp/internal/indexer"
	"github.com/dshills/codesense-mcp/internal/ranker"
	"github.com/dshills/codesense-mcp/internal/scope"
	"github.com/dshills/codesense-mcp/internal/storage"
	"github.com/dshills/codesense-mcp/pkg/types"
)

var (
	// ErrQueryEmbedding is returned when the query text cannot be embedded
	ErrQueryEmbedding = errors.New("failed to embed query")
	// ErrIndexingInProgress is returned by Warm while another warm-up runs
	ErrIndexingInProgress = errors.New("indexing already in progress")
)

// FileSource supplies the absolute paths of the current source files
type FileSource interface {
	Files(ctx context.Context) ([]string, error)
}

// ScopeResolver returns the enclosing scope of a line in a file
type ScopeResolver func(filePath string, lineNumber int) string

// Searcher answers natural-language queries against the snippet index.
// It owns no global state; every index belongs to the Searcher built on it.
type Searcher struct {
	store    storage.Store
	embedder embedder.Embedder
	indexer  *indexer.Indexer
	files    FileSource
	scope    ScopeResolver
	warmLock indexer.IndexLock
}

// New creates a Searcher. Scope resolution re-reads files from disk.
func New(store storage.Store, emb embedder.Embedder, idx *indexer.Indexer, files FileSource) *Searcher {
	return &Searcher{
		store:    store,
		embedder: emb,
		indexer:  idx,
		files:    files,
		scope:    scope.ResolveFile,
	}
}

// WithScopeResolver replaces the scope resolver
func (s *Searcher) WithScopeResolver(resolve ScopeResolver) *Searcher {
	s.scope = resolve
	return s
}

// Search returns up to topK snippets most similar to query.
//
// With no embedding provider the result is the single unavailability
// sentinel and nothing is indexed or sent over the network. Otherwise the
// current source files are indexed first (already indexed files are skipped),
// then the query is embedded and ranked against every stored snippet. The
// query vector is always requested fresh from the provider.
// An empty index or a topK of zero or less yields an empty list.
func (s *Searcher) Search(ctx context.Context, query string, topK int) ([]types.SearchResult, error) {
	if !s.embedder.Available() {
		return []types.SearchResult{types.UnavailableResult()}, nil
	}

	if _, err := s.IndexAll(ctx); err != nil {
		return nil, err
	}

	if topK <= 0 {
		return []types.SearchResult{}, nil
	}

	snippets, err := s.store.Snippets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snippets: %w", err)
	}
	if len(snippets) == 0 {
		return []types.SearchResult{}, nil
	}

	queryEmb, err := s.embedder.GenerateEmbedding(ctx, embedder.EmbeddingRequest{Text: query, NoCache: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryEmbedding, err)
	}

	matches := ranker.Rank(queryEmb.Vector, snippets, topK)

	results := make([]types.SearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, types.SearchResult{
			FilePath:    m.Snippet.FilePath,
			StartLine:   m.Snippet.StartLine,
			EndLine:     m.Snippet.EndLine,
			Content:     m.Snippet.Content,
			Score:       m.Score,
			ParentScope: s.scope(m.Snippet.FilePath, m.Snippet.StartLine),
		})
	}

	return results, nil
}

// IndexAll indexes every file the source currently lists. It is a no-op when
// no embedding provider is available.
func (s *Searcher) IndexAll(ctx context.Context) (*indexer.Statistics, error) {
	if !s.embedder.Available() {
		return &indexer.Statistics{ErrorMessages: []string{}}, nil
	}

	paths, err := s.files.Files(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list source files: %w", err)
	}

	stats, err := s.indexer.IndexFiles(ctx, paths)
	if err != nil {
		return stats, fmt.Errorf("indexing failed: %w", err)
	}
	return stats, nil
}

// Warm runs IndexAll unless another warm-up is already running, in which case
// it returns ErrIndexingInProgress immediately.
func (s *Searcher) Warm(ctx context.Context) (*indexer.Statistics, error) {
	if !s.warmLock.TryAcquire() {
		return nil, ErrIndexingInProgress
	}
	defer s.warmLock.Release()

	return s.IndexAll(ctx)
}

// Status describes the index and the embedding provider
type Status struct {
	Available    bool   `json:"available"`
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	Dimension    int    `json:"dimension"`
	Backend      string `json:"backend"`
	Snippets     int    `json:"snippets"`
	IndexedFiles int    `json:"indexedFiles"`
	Indexing     bool   `json:"indexing"`
}

// Status reports index counts and provider details
func (s *Searcher) Status(ctx context.Context) (*Status, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read index stats: %w", err)
	}

	dimension := stats.Dimension
	if dimension == 0 {
		dimension = s.embedder.Dimension()
	}

	return &Status{
		Available:    s.embedder.Available(),
		Provider:     s.embedder.Provider(),
		Model:        s.embedder.Model(),
		Dimension:    dimension,
		Backend:      s.store.Backend(),
		Snippets:     stats.Snippets,
		IndexedFiles: stats.IndexedFiles,
		Indexing:     s.warmLock.Held(),
	}, nil
}

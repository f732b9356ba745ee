package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/codesense-mcp/pkg/types"
)

var (
	// ErrAlreadyExists is returned when a snippet with the same key is already stored
	ErrAlreadyExists = errors.New("already exists")
	// ErrDimensionMismatch is returned when an embedding's width differs from the index's
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	// ErrUnknownBackend is returned by Open for an unsupported backend name
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Backend names
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Store holds indexed snippets and the set of files already processed.
//
// Snippets are immutable once stored. The first stored snippet fixes the
// index dimension; later snippets of another width are rejected. All
// implementations are safe for concurrent use.
type Store interface {
	// PutSnippet stores a snippet under its (file, start, end) key
	PutSnippet(ctx context.Context, snippet *types.Snippet) error

	// Snippets returns every stored snippet in insertion order
	Snippets(ctx context.Context) ([]*types.Snippet, error)

	// MarkIndexed records that a file has been processed
	MarkIndexed(ctx context.Context, filePath string) error

	// IsIndexed reports whether a file has been processed
	IsIndexed(ctx context.Context, filePath string) (bool, error)

	// Stats returns counts for the store
	Stats(ctx context.Context) (*Stats, error)

	// Backend returns the backend name
	Backend() string

	// Close releases resources held by the store
	Close() error
}

// Stats describes the contents of a store
type Stats struct {
	Snippets     int
	IndexedFiles int
	Dimension    int // 0 until the first snippet is stored
}

// Options selects and configures a store backend
type Options struct {
	Backend string // memory (default) or sqlite
	DBPath  string // sqlite DSN, ":memory:" when empty
}

// Open creates the store named by opts.Backend
func Open(opts Options) (Store, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite:
		dbPath := opts.DBPath
		if dbPath == "" {
			dbPath = ":memory:"
		}
		return NewSQLiteStore(dbPath)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, opts.Backend)
	}
}

// checkSnippet validates a snippet against the index dimension. A zero
// dimension means the index is still empty.
func checkSnippet(snippet *types.Snippet, dimension int) error {
	if err := snippet.Validate(); err != nil {
		return fmt.Errorf("invalid snippet %s: %w", snippet.Key(), err)
	}
	if dimension != 0 && snippet.Dimension() != dimension {
		return fmt.Errorf("%w: snippet %s has %d, index has %d",
			ErrDimensionMismatch, snippet.Key(), snippet.Dimension(), dimension)
	}
	return nil
}

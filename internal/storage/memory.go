package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/dshills/codesense-mcp/pkg/types"
)

// MemoryStore keeps snippets in process memory. It is the default store and
// lives as long as the server that owns it.
type MemoryStore struct {
	mu        sync.RWMutex
	snippets  []*types.Snippet
	keys      map[types.SnippetKey]struct{}
	indexed   map[string]struct{}
	dimension int
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		keys:    make(map[types.SnippetKey]struct{}),
		indexed: make(map[string]struct{}),
	}
}

func (m *MemoryStore) PutSnippet(ctx context.Context, snippet *types.Snippet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := checkSnippet(snippet, m.dimension); err != nil {
		return err
	}

	key := snippet.Key()
	if _, exists := m.keys[key]; exists {
		return fmt.Errorf("snippet %s: %w", key, ErrAlreadyExists)
	}

	stored := *snippet
	stored.Embedding = append([]float32(nil), snippet.Embedding...)

	m.keys[key] = struct{}{}
	m.snippets = append(m.snippets, &stored)
	if m.dimension == 0 {
		m.dimension = stored.Dimension()
	}

	return nil
}

func (m *MemoryStore) Snippets(ctx context.Context) ([]*types.Snippet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*types.Snippet, len(m.snippets))
	copy(out, m.snippets)
	return out, nil
}

func (m *MemoryStore) MarkIndexed(ctx context.Context, filePath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.indexed[filePath] = struct{}{}
	return nil
}

func (m *MemoryStore) IsIndexed(ctx context.Context, filePath string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.indexed[filePath]
	return ok, nil
}

func (m *MemoryStore) Stats(ctx context.Context) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return &Stats{
		Snippets:     len(m.snippets),
		IndexedFiles: len(m.indexed),
		Dimension:    m.dimension,
	}, nil
}

func (m *MemoryStore) Backend() string {
	return BackendMemory
}

func (m *MemoryStore) Close() error {
	return nil
}

package searcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/codesense-mcp/internal/catalog"
	"github.com/dshills/codesense-mcp/internal/embedder"
	"github.com/dshills/codesense-mcp/internal/indexer"
	"github.com/dshills/codesense-mcp/internal/storage"
	"github.com/dshills/codesense-mcp/pkg/types"
)

const greeterSource = `using System;

namespace Demo
{
    // Prints greetings to the console.
    public class Greeter
    {
        private readonly string _name;

        public Greeter(string name)
        {
            _name = name;
        }

        public void PrintMessage()
        {
            Console.WriteLine("Hello, " + _name);
        }
    }
}
`

const mathSource = `namespace Demo
{
    public static class MathUtil
    {
        public static int Add(int a, int b)
        {
            return a + b;
        }
    }
}
`

// countingEmbedder wraps an embedder and counts calls
type countingEmbedder struct {
	embedder.Embedder
	mu      sync.Mutex
	calls   int
	failFor string
}

func (c *countingEmbedder) GenerateEmbedding(ctx context.Context, req embedder.EmbeddingRequest) (*embedder.Embedding, error) {
	c.mu.Lock()
	c.calls++
	fail := c.failFor != "" && req.Text == c.failFor
	c.mu.Unlock()

	if fail {
		return nil, errors.New("provider timeout")
	}
	return c.Embedder.GenerateEmbedding(ctx, req)
}

func (c *countingEmbedder) GenerateBatch(ctx context.Context, req embedder.BatchEmbeddingRequest) (*embedder.BatchEmbeddingResponse, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.Embedder.GenerateBatch(ctx, req)
}

func (c *countingEmbedder) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func newLocalEmbedder(t *testing.T) *countingEmbedder {
	t.Helper()
	local, err := embedder.NewLocalProvider(nil)
	require.NoError(t, err)
	return &countingEmbedder{Embedder: local}
}

// countingSource records how often files are listed
type countingSource struct {
	inner FileSource
	calls int
}

func (c *countingSource) Files(ctx context.Context) ([]string, error) {
	c.calls++
	return c.inner.Files(ctx)
}

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestSearcher(t *testing.T, root string, emb embedder.Embedder) (*Searcher, storage.Store, *countingSource) {
	t.Helper()

	cat, err := catalog.New(catalog.Config{BaseDir: root})
	require.NoError(t, err)

	store := storage.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	src := &countingSource{inner: cat}
	idx := indexer.New(store, emb, nil)
	return New(store, emb, idx, src), store, src
}

func TestSearch_SingleFile(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "Greeter.cs", greeterSource)
	emb := newLocalEmbedder(t)
	s, _, _ := newTestSearcher(t, root, emb)

	results, err := s.Search(context.Background(), "print message to console", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0]
	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	assert.Equal(t, resolved, got.FilePath)
	assert.Equal(t, 1, got.StartLine)
	assert.Equal(t, 20, got.EndLine)
	assert.Contains(t, got.Content, "Console.WriteLine")
	assert.GreaterOrEqual(t, got.Score, -1.0)
	assert.LessOrEqual(t, got.Score, 1.0)
	assert.False(t, got.IsUnavailable())
}

func TestSearch_IdenticalFilesInDifferentDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/Greeter.cs", greeterSource)
	writeFile(t, root, "b/Greeter.cs", greeterSource)
	s, store, _ := newTestSearcher(t, root, newLocalEmbedder(t))

	results, err := s.Search(context.Background(), "greeter", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.NotEqual(t, results[0].FilePath, results[1].FilePath)
	assert.Equal(t, results[0].Content, results[1].Content)
	assert.InDelta(t, results[0].Score, results[1].Score, 1e-9)

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Snippets)
}

func TestSearch_TopKZero(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Greeter.cs", greeterSource)
	s, store, _ := newTestSearcher(t, root, newLocalEmbedder(t))

	results, err := s.Search(context.Background(), "anything", 0)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)

	// indexing still happens
	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.IndexedFiles)
}

func TestSearch_TopKLimitsAndOrders(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Greeter.cs", greeterSource)
	writeFile(t, root, "MathUtil.cs", mathSource)
	s, _, _ := newTestSearcher(t, root, newLocalEmbedder(t))

	results, err := s.Search(context.Background(), "add two numbers a b return sum", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "MathUtil.cs", filepath.Base(results[0].FilePath))

	all, err := s.Search(context.Background(), "add two numbers a b return sum", 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.GreaterOrEqual(t, all[0].Score, all[1].Score)
}

func TestSearch_EmptyIndex(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "README.md", "# nothing to index")
	emb := newLocalEmbedder(t)
	s, _, _ := newTestSearcher(t, root, emb)

	results, err := s.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, emb.callCount(), "query is not embedded against an empty index")
}

func TestSearch_Unavailable(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Greeter.cs", greeterSource)
	emb := &countingEmbedder{Embedder: embedder.NewUnavailableProvider("no API key")}
	s, store, src := newTestSearcher(t, root, emb)

	results, err := s.Search(context.Background(), "print message", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].IsUnavailable())
	assert.Equal(t, types.UnavailableFilePath, results[0].FilePath)

	assert.Equal(t, 0, emb.callCount())
	assert.Equal(t, 0, src.calls)

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Snippets)
	assert.Zero(t, stats.IndexedFiles)
}

func TestSearch_QueryEmbeddingFailure(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Greeter.cs", greeterSource)
	emb := newLocalEmbedder(t)
	emb.failFor = "broken query"
	s, _, _ := newTestSearcher(t, root, emb)

	_, err := s.Search(context.Background(), "broken query", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQueryEmbedding)
}

func TestSearch_IndexesOnce(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Greeter.cs", greeterSource)
	emb := newLocalEmbedder(t)
	s, store, _ := newTestSearcher(t, root, emb)
	ctx := context.Background()

	_, err := s.Search(ctx, "greeter", 5)
	require.NoError(t, err)
	afterFirst := emb.callCount()

	_, err = s.Search(ctx, "greeter", 5)
	require.NoError(t, err)

	// only the second query is embedded
	assert.Equal(t, afterFirst+1, emb.callCount())

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Snippets)
}

func TestSearch_PicksUpNewFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Greeter.cs", greeterSource)
	s, _, _ := newTestSearcher(t, root, newLocalEmbedder(t))
	ctx := context.Background()

	results, err := s.Search(ctx, "sum", 5)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	writeFile(t, root, "MathUtil.cs", mathSource)
	results, err = s.Search(ctx, "sum", 5)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearch_ResolvesScopeFromStartLine(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Greeter.cs", greeterSource)
	s, _, _ := newTestSearcher(t, root, newLocalEmbedder(t))

	var gotPath string
	var gotLine int
	s.WithScopeResolver(func(filePath string, lineNumber int) string {
		gotPath, gotLine = filePath, lineNumber
		return "Greeter.PrintMessage"
	})

	results, err := s.Search(context.Background(), "print", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "Greeter.PrintMessage", results[0].ParentScope)
	assert.Equal(t, results[0].FilePath, gotPath)
	assert.Equal(t, results[0].StartLine, gotLine)
}

func TestSearch_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Greeter.cs", greeterSource)
	s, _, _ := newTestSearcher(t, root, newLocalEmbedder(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Search(ctx, "greeter", 5)
	assert.Error(t, err)
}

func TestWarm(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Greeter.cs", greeterSource)
	writeFile(t, root, "MathUtil.cs", mathSource)
	s, _, _ := newTestSearcher(t, root, newLocalEmbedder(t))

	stats, err := s.Warm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.FilesIndexed)

	stats, err = s.Warm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.FilesIndexed)
	assert.Equal(t, 2, stats.FilesSkipped)
}

func TestWarm_InProgress(t *testing.T) {
	root := t.TempDir()
	s, _, _ := newTestSearcher(t, root, newLocalEmbedder(t))

	require.True(t, s.warmLock.TryAcquire())
	defer s.warmLock.Release()

	_, err := s.Warm(context.Background())
	assert.ErrorIs(t, err, ErrIndexingInProgress)

	status, err := s.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Indexing)
}

func TestStatus(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Greeter.cs", greeterSource)
	s, _, _ := newTestSearcher(t, root, newLocalEmbedder(t))
	ctx := context.Background()

	status, err := s.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.Available)
	assert.Equal(t, embedder.ProviderLocal, status.Provider)
	assert.Equal(t, embedder.LocalDimension, status.Dimension)
	assert.Equal(t, storage.BackendMemory, status.Backend)
	assert.Zero(t, status.Snippets)
	assert.False(t, status.Indexing)

	_, err = s.Warm(ctx)
	require.NoError(t, err)

	status, err = s.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Snippets)
	assert.Equal(t, 1, status.IndexedFiles)
}

func TestStatus_Unavailable(t *testing.T) {
	s, _, _ := newTestSearcher(t, t.TempDir(), embedder.NewUnavailableProvider("no API key"))

	status, err := s.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Available)
	assert.Equal(t, embedder.ProviderNone, status.Provider)
}

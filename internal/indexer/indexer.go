package indexer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/codesense-mcp/internal/chunker"
	"github.com/dshills/codesense-mcp/internal/embedder"
	"github.com/dshills/codesense-mcp/internal/ignore"
	"github.com/dshills/codesense-mcp/internal/storage"
	"github.com/dshills/codesense-mcp/pkg/types"
)

// maxErrorMessages caps how many failure messages one run keeps
const maxErrorMessages = 100

// Indexer turns source files into stored snippets: chunk, filter, embed, store.
//
// A file is indexed at most once per store. Changed files are not re-read
// after they have been marked indexed, so results can go stale until the
// store is recreated.
//
// IndexFiles calls are serialized; the indexer is safe for concurrent use.
type Indexer struct {
	mu       sync.Mutex
	store    storage.Store
	embedder embedder.Embedder
	chunker  *chunker.Chunker
	filter   *ignore.Filter

	workers  int
	verbose  bool
	progress ProgressReporter
}

// Config contains configuration for the indexer
type Config struct {
	Chunker  *chunker.Chunker // default chunker.New()
	Filter   *ignore.Filter   // nil ignores nothing
	Workers  int              // concurrent embedding calls per file, default 1
	Verbose  bool             // log every chunk failure
	Progress ProgressReporter // optional per-file progress
}

// Statistics contains statistics about one IndexFiles call
type Statistics struct {
	FilesIndexed    int
	FilesSkipped    int // already indexed
	FilesIgnored    int
	FilesFailed     int
	ChunksTotal     int
	ChunksDiscarded int // not meaningful, never embedded
	ChunksEmbedded  int
	ChunksFailed    int
	Duration        time.Duration
	ErrorMessages   []string
}

func (s *Statistics) addError(format string, args ...any) {
	if len(s.ErrorMessages) < maxErrorMessages {
		s.ErrorMessages = append(s.ErrorMessages, fmt.Sprintf(format, args...))
	}
}

// New creates a new Indexer instance
func New(store storage.Store, emb embedder.Embedder, cfg *Config) *Indexer {
	if cfg == nil {
		cfg = &Config{}
	}

	ch := cfg.Chunker
	if ch == nil {
		ch = chunker.New()
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Indexer{
		store:    store,
		embedder: emb,
		chunker:  ch,
		filter:   cfg.Filter,
		workers:  workers,
		verbose:  cfg.Verbose,
		progress: cfg.Progress,
	}
}

// IndexFiles indexes every eligible file in paths.
//
// Files already indexed or matching the ignore filter are skipped. Unreadable
// files are logged and skipped. Each meaningful chunk is embedded and stored;
// a failed chunk is logged and skipped without affecting its siblings. A file
// is marked indexed once all its chunks have been attempted.
//
// When the embedder is unavailable the call does nothing. The returned error
// is non-nil only for context cancellation or store failures.
func (idx *Indexer) IndexFiles(ctx context.Context, paths []string) (*Statistics, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	start := time.Now()
	stats := &Statistics{ErrorMessages: make([]string, 0)}

	if !idx.embedder.Available() {
		return stats, nil
	}

	if idx.progress != nil {
		idx.progress.Start(len(paths))
		defer idx.progress.Finish()
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			stats.Duration = time.Since(start)
			return stats, err
		}

		if err := idx.indexFile(ctx, path, stats); err != nil {
			stats.Duration = time.Since(start)
			return stats, err
		}

		if idx.progress != nil {
			idx.progress.Increment()
		}
	}

	stats.Duration = time.Since(start)
	if stats.FilesIndexed > 0 || stats.FilesFailed > 0 {
		log.Printf("indexer: %d files indexed, %d skipped, %d ignored, %d failed; %d chunks embedded, %d discarded, %d failed in %v",
			stats.FilesIndexed, stats.FilesSkipped, stats.FilesIgnored, stats.FilesFailed,
			stats.ChunksEmbedded, stats.ChunksDiscarded, stats.ChunksFailed, stats.Duration.Round(time.Millisecond))
	}

	return stats, nil
}

// indexFile processes one path. Only fatal errors are returned.
func (idx *Indexer) indexFile(ctx context.Context, path string, stats *Statistics) error {
	indexed, err := idx.store.IsIndexed(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}
	if indexed {
		stats.FilesSkipped++
		return nil
	}

	if idx.filter.ShouldIgnore(path) {
		stats.FilesIgnored++
		return nil
	}

	windows, err := idx.chunker.ChunkFile(path)
	if err != nil {
		log.Printf("indexer: skipping %s: %v", path, err)
		stats.FilesFailed++
		stats.addError("%s: %v", path, err)
		return nil
	}

	kept := make([]types.Window, 0, len(windows))
	for _, w := range windows {
		if chunker.IsMeaningful(w.Content) {
			kept = append(kept, w)
		}
	}
	stats.ChunksTotal += len(windows)
	stats.ChunksDiscarded += len(windows) - len(kept)

	vectors := idx.embedWindows(ctx, kept)
	if err := ctx.Err(); err != nil {
		return err
	}

	for i, w := range kept {
		outcome := vectors[i]
		if outcome.err == nil {
			outcome.err = idx.store.PutSnippet(ctx, &types.Snippet{
				FilePath:  path,
				Content:   w.Content,
				StartLine: w.StartLine,
				EndLine:   w.EndLine,
				Embedding: outcome.vector,
			})
		}

		switch {
		case outcome.err == nil:
			stats.ChunksEmbedded++
		case errors.Is(outcome.err, storage.ErrAlreadyExists):
			// stored by an earlier, interrupted run
		default:
			stats.ChunksFailed++
			stats.addError("%s:%d-%d: %v", path, w.StartLine, w.EndLine, outcome.err)
			if idx.verbose {
				log.Printf("indexer: chunk %s:%d-%d failed: %v", path, w.StartLine, w.EndLine, outcome.err)
			}
		}
	}

	if err := idx.store.MarkIndexed(ctx, path); err != nil {
		return fmt.Errorf("failed to mark %s indexed: %w", path, err)
	}
	stats.FilesIndexed++

	return nil
}

type embedOutcome struct {
	vector []float32
	err    error
}

// embedWindows embeds each window, one call per window. With more than one
// worker the calls run concurrently; results keep window order.
func (idx *Indexer) embedWindows(ctx context.Context, windows []types.Window) []embedOutcome {
	outcomes := make([]embedOutcome, len(windows))

	if idx.workers <= 1 {
		for i, w := range windows {
			if ctx.Err() != nil {
				outcomes[i].err = ctx.Err()
				continue
			}
			outcomes[i] = idx.embed(ctx, w)
		}
		return outcomes
	}

	var g errgroup.Group
	g.SetLimit(idx.workers)
	for i, w := range windows {
		g.Go(func() error {
			outcomes[i] = idx.embed(ctx, w)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (idx *Indexer) embed(ctx context.Context, w types.Window) embedOutcome {
	emb, err := idx.embedder.GenerateEmbedding(ctx, embedder.EmbeddingRequest{Text: w.Content})
	if err != nil {
		return embedOutcome{err: err}
	}
	return embedOutcome{vector: emb.Vector}
}

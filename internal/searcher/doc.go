// Package searcher answers natural-language queries against the snippet index.
//
// A search runs end to end on every call:
//
//  1. If the embedder is unavailable, return the single sentinel result
//  2. List source files and index any not yet indexed
//  3. Embed the query, bypassing the embedding cache
//  4. Rank every stored snippet by cosine similarity
//  5. Resolve the enclosing scope of each hit's first line
//
// # Basic Usage
//
//	s := searcher.New(store, emb, idx, cat)
//	results, err := s.Search(ctx, "print message to console", 5)
//	if errors.Is(err, searcher.ErrQueryEmbedding) {
//	    // the query itself could not be embedded
//	}
//
// # Degraded Mode
//
// Without an embedding provider Search returns exactly one result whose
// FilePath is types.UnavailableFilePath. An empty index returns an empty
// list instead; the sentinel only ever means "no provider".
//
// # Warm-up
//
// Warm indexes the codebase without a query. Concurrent warm-ups do not
// queue: the second one returns ErrIndexingInProgress.
package searcher

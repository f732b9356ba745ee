// Package indexer builds the snippet index from source files.
//
// For every file it runs the pipeline:
//
//  1. Skip files already indexed or matched by the ignore filter
//  2. Split the file into windows (package chunker)
//  3. Drop windows that are not meaningful code
//  4. Embed each remaining window, one embedding call per window
//  5. Store each embedded window as a snippet keyed by (file, start, end)
//  6. Mark the file indexed
//
// # Basic Usage
//
//	idx := indexer.New(store, emb, &indexer.Config{Filter: filter})
//
//	stats, err := idx.IndexFiles(ctx, paths)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d files indexed, %d chunks embedded\n", stats.FilesIndexed, stats.ChunksEmbedded)
//
// # Failure Handling
//
// Unreadable files are logged, counted in Statistics.FilesFailed and left
// unmarked so a later call retries them. A chunk whose embedding call fails is
// logged and skipped; its file is still marked indexed once every chunk has
// been attempted. IndexFiles itself only fails on cancellation or store errors.
//
// When the embedder reports Available() == false, IndexFiles returns at once
// without reading any file.
//
// # Staleness
//
// A file is indexed at most once per store. Editing a file after it was
// indexed does not refresh its snippets.
//
// # Concurrency
//
// IndexFiles calls are serialized by a mutex. Within one file, Config.Workers
// greater than one embeds windows concurrently with an errgroup limit; the
// default of one embeds them sequentially.
package indexer

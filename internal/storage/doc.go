// Package storage holds the snippet index: embedded chunks keyed by
// (file path, start line, end line) plus the set of files already processed.
//
// Two backends implement Store:
//   - MemoryStore keeps everything in process memory (default)
//   - SQLiteStore keeps the same data in SQLite, ":memory:" unless a file
//     path is configured
//
// # Basic Usage
//
//	store, err := storage.Open(storage.Options{Backend: storage.BackendMemory})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	err = store.PutSnippet(ctx, &types.Snippet{
//	    FilePath:  "/src/Greeter.cs",
//	    StartLine: 1,
//	    EndLine:   20,
//	    Content:   content,
//	    Embedding: vector,
//	})
//
// # Invariants
//
// Keys are unique: a second PutSnippet with the same key returns
// ErrAlreadyExists and leaves the stored snippet untouched. The first snippet
// fixes the index dimension and snippets of another width return
// ErrDimensionMismatch.
//
// # Database Schema
//
// The SQLite backend is versioned with semantic versions (see AllMigrations):
//   - snippets: content, line range and little-endian float32 vector blob
//   - indexed_files: processed files and how many snippets each produced
//   - index_meta: the established embedding dimension
//
// # Build Modes
//
// The default build uses modernc.org/sqlite (pure Go). Building with the
// sqlite_vec tag switches to github.com/mattn/go-sqlite3 (CGO).
package storage

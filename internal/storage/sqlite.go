package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/dshills/codesense-mcp/pkg/types"
)

const metaDimension = "dimension"

// SQLiteStore implements Store on SQLite. With the default ":memory:" DSN it
// behaves like MemoryStore; a file DSN keeps the data on disk.
type SQLiteStore struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// a single connection keeps one ":memory:" database per store
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// NewSQLiteStore opens (and migrates) a SQLite-backed store
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) PutSnippet(ctx context.Context, snippet *types.Snippet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	dimension, err := readDimension(ctx, tx)
	if err != nil {
		return err
	}
	if err := checkSnippet(snippet, dimension); err != nil {
		return err
	}

	hash := sha256.Sum256([]byte(snippet.Content))
	result, err := tx.ExecContext(ctx, `
		INSERT INTO snippets (file_path, start_line, end_line, content, content_hash, vector, dimension)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_path, start_line, end_line) DO NOTHING
	`, snippet.FilePath, snippet.StartLine, snippet.EndLine, snippet.Content,
		hash[:], serializeVector(snippet.Embedding), snippet.Dimension())
	if err != nil {
		return fmt.Errorf("failed to insert snippet: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("snippet %s: %w", snippet.Key(), ErrAlreadyExists)
	}

	if dimension == 0 {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO index_meta (key, value) VALUES (?, ?)",
			metaDimension, strconv.Itoa(snippet.Dimension())); err != nil {
			return fmt.Errorf("failed to record dimension: %w", err)
		}
	}

	return tx.Commit()
}

// rowQuerier is implemented by both *sql.DB and *sql.Tx
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// readDimension returns the established index dimension, 0 if none
func readDimension(ctx context.Context, q rowQuerier) (int, error) {
	var raw string
	err := q.QueryRowContext(ctx, "SELECT value FROM index_meta WHERE key = ?", metaDimension).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read dimension: %w", err)
	}
	return strconv.Atoi(raw)
}

func (s *SQLiteStore) Snippets(ctx context.Context) ([]*types.Snippet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT file_path, start_line, end_line, content, vector
		FROM snippets
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snippets: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var snippets []*types.Snippet
	for rows.Next() {
		var (
			snippet types.Snippet
			blob    []byte
		)
		if err := rows.Scan(&snippet.FilePath, &snippet.StartLine, &snippet.EndLine, &snippet.Content, &blob); err != nil {
			return nil, err
		}
		snippet.Embedding, err = deserializeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("snippet %s: %w", snippet.Key(), err)
		}
		snippets = append(snippets, &snippet)
	}

	return snippets, rows.Err()
}

func (s *SQLiteStore) MarkIndexed(ctx context.Context, filePath string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO indexed_files (file_path, snippet_count)
		VALUES (?, (SELECT COUNT(*) FROM snippets WHERE file_path = ?))
		ON CONFLICT(file_path) DO NOTHING
	`, filePath, filePath)
	if err != nil {
		return fmt.Errorf("failed to mark %s indexed: %w", filePath, err)
	}
	return nil
}

func (s *SQLiteStore) IsIndexed(ctx context.Context, filePath string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM indexed_files WHERE file_path = ?", filePath).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM snippets").Scan(&stats.Snippets); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM indexed_files").Scan(&stats.IndexedFiles); err != nil {
		return nil, err
	}

	dimension, err := readDimension(ctx, s.db)
	if err != nil {
		return nil, err
	}
	stats.Dimension = dimension

	return stats, nil
}

// FileSnippetCount returns how many snippets a file produced when it was
// marked indexed
func (s *SQLiteStore) FileSnippetCount(ctx context.Context, filePath string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT snippet_count FROM indexed_files WHERE file_path = ?", filePath).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *SQLiteStore) Backend() string {
	return BackendSQLite
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

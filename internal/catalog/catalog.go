// Package catalog enumerates the source files under a base directory.
//
// The catalog is the boundary between the search engine and the file system:
// every path it returns is absolute and lies inside the base directory.
// Hidden directories are never entered and symbolic links are not followed.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrNotDirectory is returned when the base path is not a directory
	ErrNotDirectory = errors.New("base path is not a directory")
	// ErrOutsideBase is returned for paths that escape the base directory
	ErrOutsideBase = errors.New("path is outside the base directory")
)

// DefaultMaxFileSize skips files larger than 1 MB
const DefaultMaxFileSize int64 = 1 << 20

// DefaultExtensions are the file extensions treated as source code
var DefaultExtensions = []string{
	".cs", ".go", ".java", ".kt", ".scala", ".swift",
	".js", ".jsx", ".ts", ".tsx", ".py", ".rb", ".php",
	".c", ".h", ".cpp", ".hpp", ".cc", ".rs", ".fs", ".vb",
}

// Catalog lists source files under a base directory
type Catalog struct {
	baseDir     string
	extensions  map[string]bool
	maxFileSize int64
}

// Config configures a Catalog
type Config struct {
	BaseDir     string
	Extensions  []string // default DefaultExtensions
	MaxFileSize int64    // default DefaultMaxFileSize
}

// New creates a catalog rooted at cfg.BaseDir, resolved to an absolute path
func New(cfg Config) (*Catalog, error) {
	base := cfg.BaseDir
	if base == "" {
		base = "."
	}

	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("resolve base dir: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat base dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}

	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	extensions := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[ext] = true
	}

	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	return &Catalog{
		baseDir:     abs,
		extensions:  extensions,
		maxFileSize: maxSize,
	}, nil
}

// BaseDir returns the absolute base directory
func (c *Catalog) BaseDir() string {
	return c.baseDir
}

// Files walks the base directory and returns the absolute paths of all source
// files in lexical order. Unreadable entries are skipped.
func (c *Catalog) Files(ctx context.Context) ([]string, error) {
	var files []string

	err := filepath.WalkDir(c.baseDir, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == c.baseDir {
				return walkErr
			}
			return nil
		}

		if d.IsDir() {
			if path != c.baseDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !c.IsSource(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() > c.maxFileSize {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// IsSource reports whether path has a source file extension
func (c *Catalog) IsSource(path string) bool {
	return c.extensions[strings.ToLower(filepath.Ext(path))]
}

// Resolve turns a path (absolute or relative to the base directory) into an
// absolute path, rejecting anything outside the base directory.
func (c *Catalog) Resolve(path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.baseDir, path)
	}
	path = filepath.Clean(path)

	rel, err := filepath.Rel(c.baseDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideBase, path)
	}
	return path, nil
}

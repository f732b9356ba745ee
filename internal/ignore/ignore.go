// Package ignore decides whether a candidate source file is eligible for indexing.
//
// A Filter combines a fixed default pattern set (build output directories,
// generated-code suffixes) with caller-supplied user patterns. Patterns that
// contain wildcards are glob rules: ** matches any sequence including path
// separators, * matches any sequence within a single path segment. Patterns
// without wildcards match when the path contains them. Matching is
// case-insensitive and runs against the slash-normalized path.
package ignore

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPatterns are excluded unless the filter is built without defaults
var DefaultPatterns = []string{
	"**/bin/**",
	"**/obj/**",
	"**/node_modules/**",
	"**/vendor/**",
	"**/dist/**",
	"**/build/**",
	"**/.git/**",
	"**/.vs/**",
	"**/.idea/**",
	"*.min.js",
	"*.g.cs",
	"*.g.i.cs",
	"*.designer.cs",
	"*.generated.cs",
	"*.pb.go",
	"*_generated.go",
}

// rule is a compiled pattern
type rule struct {
	pattern string // lower-cased, slash-normalized
	glob    bool
}

// Filter matches file paths against default and user ignore patterns.
// A Filter is immutable after construction and safe for concurrent use.
type Filter struct {
	rules []rule
	user  []string
}

// New compiles the user patterns, optionally preceded by DefaultPatterns.
// Invalid glob syntax is reported as an error.
func New(userPatterns []string, useDefaults bool) (*Filter, error) {
	f := &Filter{}

	if useDefaults {
		for _, p := range DefaultPatterns {
			if err := f.add(p); err != nil {
				return nil, err
			}
		}
	}

	for _, p := range userPatterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if err := f.add(p); err != nil {
			return nil, err
		}
		f.user = append(f.user, p)
	}

	return f, nil
}

func (f *Filter) add(pattern string) error {
	normalized := strings.ToLower(filepath.ToSlash(pattern))
	glob := hasWildcard(normalized)

	if glob && !doublestar.ValidatePattern(normalized) {
		return fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}

	f.rules = append(f.rules, rule{pattern: normalized, glob: glob})
	return nil
}

// ShouldIgnore reports whether the path matches any active pattern
func (f *Filter) ShouldIgnore(filePath string) bool {
	if f == nil {
		return false
	}

	normalized := normalize(filePath)
	base := path.Base(normalized)

	for _, r := range f.rules {
		if r.matches(normalized, base) {
			return true
		}
	}
	return false
}

// UserPatterns returns the user-supplied patterns in the order given
func (f *Filter) UserPatterns() []string {
	out := make([]string, len(f.user))
	copy(out, f.user)
	return out
}

// Len returns the number of active patterns
func (f *Filter) Len() int {
	return len(f.rules)
}

func (r rule) matches(normalized, base string) bool {
	if !r.glob {
		return strings.Contains(normalized, r.pattern)
	}

	if ok, err := doublestar.Match(r.pattern, normalized); err == nil && ok {
		return true
	}

	// Single-segment patterns such as *.g.cs also apply to the file name
	if !strings.Contains(r.pattern, "/") {
		if ok, err := doublestar.Match(r.pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

// normalize lower-cases the path, converts both separator styles to slashes and
// drops any leading slash so that **/dir/** also matches at the filesystem root.
func normalize(p string) string {
	p = strings.ToLower(strings.ReplaceAll(filepath.ToSlash(p), `\`, "/"))
	return strings.TrimLeft(p, "/")
}

func hasWildcard(p string) bool {
	return strings.ContainsAny(p, "*?[")
}

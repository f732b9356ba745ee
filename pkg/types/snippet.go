package types

import (
	"fmt"
)

// SnippetKey identifies a snippet within an index. Keys are unique per index.
type SnippetKey struct {
	FilePath  string
	StartLine int
	EndLine   int
}

// String renders the key as path:start-end
func (k SnippetKey) String() string {
	return fmt.Sprintf("%s:%d-%d", k.FilePath, k.StartLine, k.EndLine)
}

// Snippet is an indexed chunk together with its embedding.
// Snippets are created once per chunk and never updated in place.
type Snippet struct {
	FilePath  string
	Content   string
	StartLine int
	EndLine   int
	Embedding []float32
}

// Key returns the identity key of the snippet
func (s *Snippet) Key() SnippetKey {
	return SnippetKey{
		FilePath:  s.FilePath,
		StartLine: s.StartLine,
		EndLine:   s.EndLine,
	}
}

// Dimension returns the width of the snippet's embedding
func (s *Snippet) Dimension() int {
	return len(s.Embedding)
}

// Validate checks snippet invariants before it is stored
func (s *Snippet) Validate() error {
	if s.FilePath == "" {
		return ErrMissingFilePath
	}

	if s.StartLine <= 0 || s.EndLine <= 0 || s.StartLine > s.EndLine {
		return ErrInvalidLineRange
	}

	if s.Content == "" {
		return ErrEmptyContent
	}

	if len(s.Embedding) == 0 {
		return ErrMissingEmbedding
	}

	return nil
}

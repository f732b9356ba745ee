package chunker

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dshills/codesense-mcp/pkg/types"
)

const (
	// DefaultChunkSize is the target window size in lines
	DefaultChunkSize = 40

	// DefaultOverlap is the number of trailing lines carried into the next window
	DefaultOverlap = 3
)

var (
	// ErrInvalidChunkSize is returned for a non-positive window size
	ErrInvalidChunkSize = errors.New("chunk size must be positive")
	// ErrInvalidOverlap is returned when overlap is negative or not smaller than the window size
	ErrInvalidOverlap = errors.New("overlap must be >= 0 and smaller than chunk size")
)

// Chunker splits file text into bounded, line-numbered, overlapping windows
// without parsing the language. Brace depth is the only structure it tracks.
type Chunker struct {
	size    int
	overlap int
}

// New creates a Chunker with the default size and overlap
func New() *Chunker {
	return &Chunker{
		size:    DefaultChunkSize,
		overlap: DefaultOverlap,
	}
}

// NewWithOptions creates a Chunker with an explicit size and overlap
func NewWithOptions(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, ErrInvalidChunkSize
	}
	if overlap < 0 || overlap >= size {
		return nil, ErrInvalidOverlap
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Size returns the target window size in lines
func (c *Chunker) Size() int {
	return c.size
}

// Overlap returns the number of overlapping lines between windows
func (c *Chunker) Overlap() int {
	return c.overlap
}

// ChunkFile reads a file and splits it into windows
func (c *Chunker) ChunkFile(filePath string) ([]types.Window, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return c.Chunk(string(content)), nil
}

// Chunk splits text into windows.
//
// Lines are accumulated into the current window while a running brace depth
// ({ minus } since the window opened) is maintained. The window is closed when
// depth is zero and either the window has reached the target size or the
// current line is non-blank. The next window is seeded with the last overlap
// lines of the closed one. A trailing window is emitted as-is.
func (c *Chunker) Chunk(text string) []types.Window {
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil
	}

	lineNumbers := buildLineTable(len(lines))
	windows := make([]types.Window, 0, len(lines)/4+1)

	start := 0 // index of the first line in the current window
	fresh := 0 // lines scanned since the window opened, excluding seed lines
	depth := 0

	for i, line := range lines {
		fresh++
		depth += braceDelta(line)

		size := i - start + 1
		if depth != 0 {
			continue
		}
		if size < c.size && strings.TrimSpace(line) == "" {
			continue
		}

		windows = append(windows, makeWindow(lines, lineNumbers, start, i))

		start = c.seedStart(start, i)
		fresh = 0
		depth = 0
	}

	if fresh > 0 {
		windows = append(windows, makeWindow(lines, lineNumbers, start, len(lines)-1))
	}

	return windows
}

// seedStart returns the first index of the next window given the closed window [start, end]
func (c *Chunker) seedStart(start, end int) int {
	if c.overlap == 0 {
		return end + 1
	}
	next := end - c.overlap + 1
	if next < start {
		next = start
	}
	return next
}

func makeWindow(lines []string, lineNumbers []int, from, to int) types.Window {
	return types.Window{
		StartLine: lineNumbers[from],
		EndLine:   lineNumbers[to],
		Content:   strings.Join(lines[from:to+1], "\n"),
	}
}

// buildLineTable maps line indexes to 1-based file line numbers
func buildLineTable(n int) []int {
	table := make([]int, n)
	for i := range table {
		table[i] = i + 1
	}
	return table
}

// splitLines splits text on newlines, strips carriage returns and drops the
// empty element produced by a trailing newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func braceDelta(line string) int {
	return strings.Count(line, "{") - strings.Count(line, "}")
}

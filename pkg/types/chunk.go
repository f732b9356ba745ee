package types

// Window is a contiguous, line-numbered slice of a file produced by the chunker.
// Line numbers are 1-based and inclusive.
type Window struct {
	StartLine int
	EndLine   int
	Content   string
}

// LineCount returns the number of lines covered by the window
func (w Window) LineCount() int {
	return w.EndLine - w.StartLine + 1
}

// Validate checks that the window has a sane line range
func (w Window) Validate() error {
	if w.StartLine <= 0 || w.EndLine <= 0 || w.StartLine > w.EndLine {
		return ErrInvalidLineRange
	}
	return nil
}

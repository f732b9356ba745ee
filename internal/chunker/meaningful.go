package chunker

import (
	"regexp"
	"strings"
)

// MinCodeLines is the number of code lines that make a chunk meaningful on its own
const MinCodeLines = 3

var structuralKeyword = regexp.MustCompile(`\b(class|interface|struct|enum|void|async|return|public|private|protected)\b`)

// IsMeaningful reports whether a chunk carries enough signal to embed. A chunk
// is meaningful when it has at least MinCodeLines lines that are neither blank
// nor comment lines, or when one of its code lines contains a structural
// keyword. Comment lines start with //, /* or a "* " block continuation.
func IsMeaningful(text string) bool {
	codeLines := 0
	keyword := false

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if isBlankOrComment(trimmed) {
			continue
		}

		codeLines++
		if codeLines >= MinCodeLines {
			return true
		}
		if !keyword && structuralKeyword.MatchString(trimmed) {
			keyword = true
		}
	}

	return keyword
}

func isBlankOrComment(trimmed string) bool {
	return trimmed == "" ||
		strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "/*") ||
		isBlockContinuation(trimmed)
}

// isBlockContinuation matches the " * text" and " */" lines of a block
// comment but not pointer dereferences such as *p = x;
func isBlockContinuation(trimmed string) bool {
	return trimmed == "*" ||
		strings.HasPrefix(trimmed, "* ") ||
		strings.HasPrefix(trimmed, "*\t") ||
		strings.HasPrefix(trimmed, "*/")
}

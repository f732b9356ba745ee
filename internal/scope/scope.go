// Package scope reconstructs a best-effort dotted path of enclosing
// declarations for a line of code, without parsing the language.
package scope

import (
	"os"
	"regexp"
	"strings"
)

// State is a step of the backward declaration scan
type State int

const (
	// SeekingDeclaration collects type and namespace names while scanning upward
	SeekingDeclaration State = iota
	// FoundMethod is entered when a method declaration is seen
	FoundMethod
	// Done ends the scan
	Done
)

func (s State) String() string {
	switch s {
	case SeekingDeclaration:
		return "SeekingDeclaration"
	case FoundMethod:
		return "FoundMethod"
	case Done:
		return "Done"
	default:
		return "Unknown"
	}
}

var declarationPattern = regexp.MustCompile(`\b(namespace|class|interface|struct|enum)\s+`)

// methodKeywords mark a line containing "(" as a method declaration
var methodKeywords = map[string]bool{
	"public":    true,
	"private":   true,
	"protected": true,
	"internal":  true,
	"static":    true,
	"async":     true,
	"void":      true,
	"override":  true,
	"virtual":   true,
	"abstract":  true,
	"Task":      true,
}

// nameTerminators end a declared name
const nameTerminators = " \t{:(;"

// Scanner walks lines from the target upward and accumulates scope names.
//
// Declarations (namespace, class, interface, struct, enum) are prepended to
// the path and the scan continues. The first method declaration is prepended
// and ends the scan, so code inside a method resolves to the method name
// alone: the enclosing type sits above the method and is never reached.
type Scanner struct {
	state State
	names []string
}

// NewScanner returns a scanner in the SeekingDeclaration state
func NewScanner() *Scanner {
	return &Scanner{state: SeekingDeclaration}
}

// State returns the current scan state
func (s *Scanner) State() State {
	return s.state
}

// Step consumes the next line above the previous one
func (s *Scanner) Step(line string) {
	switch s.state {
	case SeekingDeclaration:
		trimmed := strings.TrimSpace(line)
		if isComment(trimmed) {
			return
		}
		if name, ok := declarationName(trimmed); ok {
			s.prepend(name)
			return
		}
		if name, ok := methodName(trimmed); ok {
			s.prepend(name)
			s.state = FoundMethod
		}
	case FoundMethod:
		s.state = Done
	case Done:
	}
}

// Finish ends the scan and returns the dotted scope path
func (s *Scanner) Finish() string {
	s.state = Done
	return strings.Join(s.names, ".")
}

func (s *Scanner) prepend(name string) {
	s.names = append([]string{name}, s.names...)
}

// Resolve returns the scope for lineNumber (1-based) given the file lines.
// Only lines strictly above lineNumber are considered.
func Resolve(lines []string, lineNumber int) string {
	end := lineNumber - 1
	if end > len(lines) {
		end = len(lines)
	}

	s := NewScanner()
	for i := end - 1; i >= 0 && s.State() == SeekingDeclaration; i-- {
		s.Step(lines[i])
	}
	return s.Finish()
}

// ResolveFile re-reads filePath and resolves the scope of lineNumber.
// An unreadable file resolves to the empty scope.
func ResolveFile(filePath string, lineNumber int) string {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return ""
	}

	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	return Resolve(strings.Split(text, "\n"), lineNumber)
}

// declarationName extracts the name following a declaration keyword
func declarationName(line string) (string, bool) {
	loc := declarationPattern.FindStringIndex(line)
	if loc == nil {
		return "", false
	}

	rest := line[loc[1]:]
	if i := strings.IndexAny(rest, nameTerminators); i >= 0 {
		rest = rest[:i]
	}
	return rest, rest != ""
}

// methodName applies the method heuristic: a line with "(" whose prefix holds
// a visibility, modifier or return-type keyword. The name is the text between
// the last space before "(" and "(".
func methodName(line string) (string, bool) {
	paren := strings.Index(line, "(")
	if paren < 0 {
		return "", false
	}

	prefix := line[:paren]
	if !hasMethodKeyword(prefix) {
		return "", false
	}

	name := strings.TrimSpace(prefix[strings.LastIndex(prefix, " ")+1:])
	return name, name != ""
}

func hasMethodKeyword(prefix string) bool {
	for _, field := range strings.Fields(prefix) {
		if methodKeywords[field] || strings.HasPrefix(field, "Task<") {
			return true
		}
	}
	return false
}

func isComment(trimmed string) bool {
	return strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "/*") ||
		trimmed == "*" ||
		strings.HasPrefix(trimmed, "* ") ||
		strings.HasPrefix(trimmed, "*\t") ||
		strings.HasPrefix(trimmed, "*/")
}

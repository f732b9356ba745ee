package types

// UnavailableFilePath is the marker file path carried by the sentinel result
const UnavailableFilePath = "<semantic-search-unavailable>"

// unavailableContent explains the sentinel to the caller
const unavailableContent = "Semantic search is unavailable: no embedding provider is configured. " +
	"Set OPENAI_API_KEY or JINA_API_KEY (or embedding.provider in the config file) and restart the server."

// SearchResult is a single ranked hit returned to the caller. It is produced fresh
// for every query and never persisted.
type SearchResult struct {
	FilePath    string  `json:"filePath"`
	StartLine   int     `json:"startLine"`
	EndLine     int     `json:"endLine"`
	Content     string  `json:"content"`
	Score       float64 `json:"score"`
	ParentScope string  `json:"parentScope"`
}

// UnavailableResult returns the sentinel result used in place of real results
// when the embedding provider is not configured.
func UnavailableResult() SearchResult {
	return SearchResult{
		FilePath: UnavailableFilePath,
		Content:  unavailableContent,
	}
}

// IsUnavailable reports whether the result is the unavailability sentinel
func (sr *SearchResult) IsUnavailable() bool {
	return sr.FilePath == UnavailableFilePath && sr.StartLine == 0 && sr.EndLine == 0
}

// Validate checks if the search result is valid
func (sr *SearchResult) Validate() error {
	if sr.IsUnavailable() {
		return nil
	}

	if sr.FilePath == "" {
		return ErrMissingFilePath
	}

	if sr.StartLine <= 0 || sr.StartLine > sr.EndLine {
		return ErrInvalidLineRange
	}

	if sr.Score < -1 || sr.Score > 1 {
		return ErrInvalidScore
	}

	if sr.Content == "" {
		return ErrEmptyContent
	}

	return nil
}

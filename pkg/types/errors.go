package types

import "errors"

// Domain errors for type validation
var (
	ErrMissingFilePath  = errors.New("file path is required")
	ErrInvalidLineRange = errors.New("line range must be positive with start <= end")
	ErrInvalidScore     = errors.New("score must be between -1 and 1")
	ErrEmptyContent     = errors.New("content cannot be empty")
	ErrMissingEmbedding = errors.New("embedding is required")
)

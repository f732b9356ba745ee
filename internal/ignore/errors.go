package ignore

import "errors"

// ErrInvalidPattern is returned for malformed glob patterns
var ErrInvalidPattern = errors.New("invalid ignore pattern")

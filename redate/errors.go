package redate

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrSourceRequired is returned when no entry source is provided.
	ErrSourceRequired = errors.New("entry source required")
)

package ingestion

import "errors"

var (
	// ErrRepositoryRequired is returned when a store is not provided.
	ErrRepositoryRequired = errors.New("repository required")

	// ErrExtractorRequired is returned when an extraction client is not provided.
	ErrExtractorRequired = errors.New("extractor required")

	// ErrNoText is returned when a document yields no text to chunk.
	ErrNoText = errors.New("document contains no text")
)

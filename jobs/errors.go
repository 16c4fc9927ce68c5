package jobs

import "errors"

var (
	// ErrRepositoryRequired is returned when a store is not provided.
	ErrRepositoryRequired = errors.New("repository required")

	// ErrProcessorRequired is returned when a chunk processor is not provided.
	ErrProcessorRequired = errors.New("chunk processor required")

	// ErrNotCancellable is returned when cancelling a task that has already
	// been picked up or has finished.
	ErrNotCancellable = errors.New("task is not waiting")

	// ErrAlreadyStarted is returned by Start on a running runner.
	ErrAlreadyStarted = errors.New("runner already started")
)

package ai

import "context"

// Completer sends a prompt to a completion service and returns the raw text
// of the first choice. It knows nothing about the response schema.
// Implementations must be thread-safe for concurrent use.
type Completer interface {
	// Complete runs one completion. An empty response is not an error.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
type AIProvider interface {
	// Completer returns the completion service.
	// The returned Completer is safe for concurrent use.
	Completer() Completer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}

package mock

import (
	"context"
	"sync"
)

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via function fields.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, Complete returns Response.
	CompleteFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Response is returned when CompleteFunc is nil.
	Response string

	mu          sync.Mutex
	callCount   int
	userPrompts []string
}

// NewMockCompleter creates a mock completer that always answers with response.
// Note: Returns concrete type to allow test assertions.
func NewMockCompleter(response string) *MockCompleter {
	return &MockCompleter{Response: response}
}

// WithCompleteFunc sets custom behavior for Complete.
func (m *MockCompleter) WithCompleteFunc(fn func(ctx context.Context, systemPrompt, userPrompt string) (string, error)) *MockCompleter {
	m.CompleteFunc = fn
	return m
}

// Complete records the call and returns the injected response.
func (m *MockCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.userPrompts = append(m.userPrompts, userPrompt)
	fn := m.CompleteFunc
	response := m.Response
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, systemPrompt, userPrompt)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return response, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// UserPrompts returns a copy of every user prompt received, in call order.
func (m *MockCompleter) UserPrompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.userPrompts...)
}

// Reset clears the call history and custom functions.
func (m *MockCompleter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.userPrompts = nil
	m.CompleteFunc = nil
}

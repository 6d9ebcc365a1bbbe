package mock

import (
	"context"
	"sync"
)

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via function fields and records the
// models tried, in order, so fallback-chain tests can assert on them.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, uses default canned behavior.
	CompleteFunc func(ctx context.Context, model, systemPrompt, userPrompt string) (string, error)

	// Response is returned by the default behavior when CompleteFunc is nil.
	Response string

	mu           sync.Mutex
	calledModels []string
	callCount    int
}

// NewMockCompleter creates a mock completer with default canned behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{Response: "mock answer [1]"}
}

// Complete records the attempted model and returns the configured response.
func (m *MockCompleter) Complete(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.calledModels = append(m.calledModels, model)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, model, systemPrompt, userPrompt)
	}

	return m.Response, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// CalledModels returns the models tried so far, in call order.
func (m *MockCompleter) CalledModels() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calledModels))
	copy(out, m.calledModels)
	return out
}

// Reset clears recorded calls and custom functions.
func (m *MockCompleter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.calledModels = nil
	m.CompleteFunc = nil
	m.Response = "mock answer [1]"
}

package gen

import (
	"context"
	"sync"
)

// MockClient implements Client for tests. It returns configured responses
// in order, can simulate failures, and records every prompt it receives.
type MockClient struct {
	mu sync.Mutex

	responses []string
	err       error
	available bool

	// Calls records every prompt passed to Generate.
	Calls []Prompt
}

// NewMockClient creates an available MockClient with no scripted responses.
func NewMockClient() *MockClient {
	return &MockClient{available: true}
}

// WithResponses scripts the texts returned by successive Generate calls.
// The last response repeats once the script is exhausted.
func (m *MockClient) WithResponses(responses ...string) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = responses
	return m
}

// WithError makes every Generate call fail with err.
func (m *MockClient) WithError(err error) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithAvailable sets the value returned by Available.
func (m *MockClient) WithAvailable(available bool) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = available
	return m
}

// Generate returns the next scripted response or the configured error.
func (m *MockClient) Generate(ctx context.Context, prompt Prompt) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, prompt)
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", nil
	}

	resp := m.responses[0]
	if len(m.responses) > 1 {
		m.responses = m.responses[1:]
	}
	return resp, nil
}

// Available reports the configured availability.
func (m *MockClient) Available() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available
}

// Package testutil provides test utilities for the llm package.
// It includes mock implementations for testing LLM client interactions.
package testutil

import (
	"context"
	"sync"

	"github.com/learnbuddy/learnbuddy/llm"
)

// MockClient is a thread-safe mock LLM completer for testing.
// It captures the requests passed to Complete() and returns configured
// responses in sequence.
//
// Usage:
//
//	// Single response mock
//	mock := &MockClient{
//	    Responses: []*llm.Response{
//	        {Content: "Q: What is water?", Model: "test-model"},
//	    },
//	}
//
//	// Error response
//	mock := &MockClient{
//	    Err: errors.New("connection failed"),
//	}
//
//	// Per-request behavior (takes precedence over Responses/Err)
//	mock := &MockClient{
//	    CompleteFunc: func(ctx context.Context, req llm.Request) (*llm.Response, error) { ... },
//	}
type MockClient struct {
	mu            sync.Mutex
	Responses     []*llm.Response // Responses to return in sequence
	Err           error           // Error to return (takes precedence over Responses)
	CompleteFunc  func(ctx context.Context, req llm.Request) (*llm.Response, error)
	requests      []llm.Request
	callCount     int
	responseIndex int
}

// Complete implements llm.Completer.
// Returns the next response from Responses slice, or Err if set.
// Captures the request for verification in tests.
func (m *MockClient) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.callCount++
	fn := m.CompleteFunc

	if fn != nil {
		m.mu.Unlock()
		return fn(ctx, req)
	}

	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	if m.responseIndex < len(m.Responses) {
		resp := m.Responses[m.responseIndex]
		m.responseIndex++
		return resp, nil
	}

	// Default response if no responses configured
	return &llm.Response{Content: "", Model: "test-model"}, nil
}

// Requests returns a copy of all requests passed to Complete().
func (m *MockClient) Requests() []llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]llm.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// CallCount returns the number of times Complete() was called.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset resets the mock's state (call count, captured requests, response index).
// Useful for reusing the same mock instance across multiple test cases.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.responseIndex = 0
	m.requests = nil
}

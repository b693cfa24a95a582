package llm

import (
	"context"
	"errors"
	"sync"
)

// ErrNoMockResponse is returned by MockClient when its queue is empty.
var ErrNoMockResponse = errors.New("mock LLM: no canned response left")

// MockResponse is a canned answer for the MockClient.
type MockResponse struct {
	Text string
	Err  error
}

// MockCall records one prompt sent to the MockClient.
type MockCall struct {
	Prompt string
	Tier   ModelTier
	JSON   bool
}

// MockClient is a deterministic Client for tests.
// It returns canned responses in FIFO order and records every call.
type MockClient struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []MockCall
}

// NewMockClient creates a MockClient with the given canned responses.
func NewMockClient(responses ...MockResponse) *MockClient {
	return &MockClient{responses: responses}
}

func (m *MockClient) GenerateContent(_ context.Context, prompt string, tier ModelTier) (string, error) {
	return m.next(MockCall{Prompt: prompt, Tier: tier})
}

func (m *MockClient) GenerateJSON(_ context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := m.next(MockCall{Prompt: prompt, Tier: tier, JSON: true})
	if err != nil {
		return "", err
	}
	return StripCodeFences(text), nil
}

// GetModel returns "mock" for every tier.
func (m *MockClient) GetModel(ModelTier) string { return "mock" }

func (m *MockClient) Close() error { return nil }

// AddResponse appends a canned response to the queue.
func (m *MockClient) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of calls made.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastPrompt returns the most recent prompt, or "" when nothing was sent.
func (m *MockClient) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return ""
	}
	return m.Calls[len(m.Calls)-1].Prompt
}

func (m *MockClient) next(call MockCall) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, call)
	if len(m.responses) == 0 {
		return "", ErrNoMockResponse
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp.Text, resp.Err
}

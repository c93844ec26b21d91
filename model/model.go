package model

import (
	"context"
	"fmt"
	"sync"
)

// Message is one turn of an optional pre-built conversation passed through
// to the provider verbatim.
type Message struct {
	Role    string `json:"role"` // system, user or assistant
	Content string `json:"content"`
}

// CallOptions is the full input of one LLM call. Provider, Endpoint and
// Model select and address the backend; the rest shapes the request.
type CallOptions struct {
	APIKey   string `json:"apiKey,omitempty"`
	Provider string `json:"provider,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
	Model    string `json:"model,omitempty"`

	SystemPrompt string    `json:"systemPrompt,omitempty"`
	UserPrompt   string    `json:"userPrompt,omitempty"`
	Messages     []Message `json:"messages,omitempty"`

	MaxTokens   int     `json:"maxTokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// APIConfig carries the session-wide provider settings a caller is
// addressed with; per-call options are layered on top.
type APIConfig struct {
	Provider string `json:"provider,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
	Model    string `json:"model,omitempty"`
}

// Caller is the external collaborator executing LLM calls. Implementations
// must return an error embedding the HTTP status and response body on a
// non-success response so failures are diagnosable from the error chain.
type Caller interface {
	Call(ctx context.Context, opts CallOptions) (string, error)
}

// CallerFunc adapts a plain function to the Caller interface.
type CallerFunc func(ctx context.Context, opts CallOptions) (string, error)

// Call implements Caller.
func (f CallerFunc) Call(ctx context.Context, opts CallOptions) (string, error) {
	return f(ctx, opts)
}

// MockCaller is a deterministic in-memory Caller for tests and examples.
// Responses are keyed by user prompt; unmatched prompts get a generated
// echo response, or the configured default when set.
type MockCaller struct {
	mu        sync.Mutex
	responses map[string]string
	fallback  string
	err       error
	calls     []CallOptions
}

// NewMockCaller constructs an empty MockCaller.
func NewMockCaller() *MockCaller {
	return &MockCaller{responses: make(map[string]string)}
}

// AddResponse registers a canned completion for an exact user prompt.
func (m *MockCaller) AddResponse(userPrompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[userPrompt] = response
}

// SetDefaultResponse sets the completion returned for unmatched prompts.
func (m *MockCaller) SetDefaultResponse(response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = response
}

// Fail makes every subsequent call return err.
func (m *MockCaller) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns a copy of every CallOptions received so far.
func (m *MockCaller) Calls() []CallOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CallOptions, len(m.calls))
	copy(out, m.calls)
	return out
}

// Call implements Caller.
func (m *MockCaller) Call(ctx context.Context, opts CallOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, opts)
	if m.err != nil {
		return "", m.err
	}
	if resp, ok := m.responses[opts.UserPrompt]; ok {
		return resp, nil
	}
	if m.fallback != "" {
		return m.fallback, nil
	}
	return fmt.Sprintf("Mock response to: %s", opts.UserPrompt), nil
}

package providers

import (
	"context"
	"sync/atomic"
	"time"
)

const MockName = "mock"

// MockOCR is an OCRProvider for testing. Responses are served per call in
// order; the last response repeats once the script runs out.
type MockOCR struct {
	// Configurable behavior
	Responses  []string
	Latency    time.Duration
	Err        error
	FailFirstN int // return Err for the first N calls, then succeed
	Fn         func(image []byte) (string, error)

	calls atomic.Int64
}

// NewMockOCR creates a mock OCR provider returning the given texts in order.
func NewMockOCR(responses ...string) *MockOCR {
	return &MockOCR{Responses: responses}
}

// Name returns the provider identifier.
func (m *MockOCR) Name() string { return MockName }

// Calls returns the number of ExtractText invocations.
func (m *MockOCR) Calls() int { return int(m.calls.Load()) }

// ExtractText returns the next scripted response.
func (m *MockOCR) ExtractText(ctx context.Context, image []byte) (string, error) {
	n := m.calls.Add(1)
	if m.Latency > 0 {
		select {
		case <-time.After(m.Latency):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if m.Fn != nil {
		return m.Fn(image)
	}
	if m.Err != nil && (m.FailFirstN == 0 || int(n) <= m.FailFirstN) {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", nil
	}
	idx := int(n) - 1
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return m.Responses[idx], nil
}

// MockLLM is an LLMClient for testing. The optional Fn hook overrides the
// scripted responses when set.
type MockLLM struct {
	Responses  []string
	Err        error
	FailFirstN int
	Fn         func(req CompletionRequest) (string, error)

	calls atomic.Int64
}

// NewMockLLM creates a mock LLM client returning the given texts in order.
func NewMockLLM(responses ...string) *MockLLM {
	return &MockLLM{Responses: responses}
}

// Name returns the client identifier.
func (m *MockLLM) Name() string { return MockName }

// Calls returns the number of Complete invocations.
func (m *MockLLM) Calls() int { return int(m.calls.Load()) }

// Complete returns the next scripted response.
func (m *MockLLM) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	n := m.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Fn != nil {
		return m.Fn(req)
	}
	if m.Err != nil && (m.FailFirstN == 0 || int(n) <= m.FailFirstN) {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", ErrEmptyResponse
	}
	idx := int(n) - 1
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return m.Responses[idx], nil
}

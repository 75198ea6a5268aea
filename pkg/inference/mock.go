package inference

import (
	"context"
	"sync"
)

// Mock is a scripted Provider for tests. Every call is recorded.
type Mock struct {
	VisionFunc func(ctx context.Context, req *VisionRequest) (*VisionResponse, error)
	HealthFunc func(ctx context.Context) error

	mu    sync.Mutex
	calls []MockCall
}

// MockCall is one recorded invocation. Request is nil for Health and Close.
type MockCall struct {
	Method  string
	Request *VisionRequest
}

// NewMock answers every request with a fixed description.
func NewMock() *Mock {
	return &Mock{
		VisionFunc: func(ctx context.Context, req *VisionRequest) (*VisionResponse, error) {
			return &VisionResponse{
				Content: "I see a mock image",
				Usage:   Usage{PromptTokens: 100, CompletionTokens: 20, TotalTokens: 120},
				Model:   "mock",
			}, nil
		},
	}
}

// Responding answers calls with responses in order and repeats the last
// one once they run out.
func Responding(responses ...string) *Mock {
	m := &Mock{}
	var next int
	m.VisionFunc = func(ctx context.Context, req *VisionRequest) (*VisionResponse, error) {
		if len(responses) == 0 {
			return nil, ErrEmptyResponse
		}
		m.mu.Lock()
		r := responses[min(next, len(responses)-1)]
		next++
		m.mu.Unlock()
		return &VisionResponse{Content: r, Model: "mock"}, nil
	}
	return m
}

// WithError fails every Vision and Health call with err.
func WithError(err error) *Mock {
	return &Mock{
		VisionFunc: func(ctx context.Context, req *VisionRequest) (*VisionResponse, error) { return nil, err },
		HealthFunc: func(ctx context.Context) error { return err },
	}
}

func (m *Mock) Vision(ctx context.Context, req *VisionRequest) (*VisionResponse, error) {
	m.record("Vision", req)
	if m.VisionFunc == nil {
		return nil, ErrProviderUnavailable
	}
	return m.VisionFunc(ctx, req)
}

func (m *Mock) Health(ctx context.Context) error {
	m.record("Health", nil)
	if m.HealthFunc == nil {
		return nil
	}
	return m.HealthFunc(ctx)
}

func (m *Mock) Close() error {
	m.record("Close", nil)
	return nil
}

func (m *Mock) record(method string, req *VisionRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{Method: method, Request: req})
}

// Calls returns the recorded Vision calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []MockCall
	for _, c := range m.calls {
		if c.Method == "Vision" {
			out = append(out, c)
		}
	}
	return out
}

// CallCount counts calls to method.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// LastCall returns the latest Vision call, or nil.
func (m *Mock) LastCall() *MockCall {
	calls := m.Calls()
	if len(calls) == 0 {
		return nil
	}
	return &calls[len(calls)-1]
}

var _ Provider = (*Mock)(nil)

package llm

import (
	"context"
	"errors"
	"sync"
)

func mockResponse(content string) *ChatResponse {
	return &ChatResponse{
		Content: content,
		Usage:   Usage{PromptTokens: 8, CompletionTokens: 8, TotalTokens: 16},
	}
}

// MockProvider returns a fixed response (or error) for every request.
// The zero value answers every prompt with an empty string.
type MockProvider struct {
	Response string
	Err      error
	ChatFunc func(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

func (m *MockProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	switch {
	case m.ChatFunc != nil:
		return m.ChatFunc(ctx, req)
	case m.Err != nil:
		return nil, m.Err
	default:
		return mockResponse(m.Response), nil
	}
}

// FailingMockProvider fails every request, simulating an unreachable
// reasoning backend.
type FailingMockProvider struct {
	Err error
}

func (f *FailingMockProvider) Chat(context.Context, ChatRequest) (*ChatResponse, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return nil, errors.New("mock provider failure")
}

// ScriptedMockProvider replays a fixed sequence of responses, one per
// Chat call. The decision protocol issues several oracle queries per task
// (tool selection, capability check, delegation, direct answer), so tests
// script one response per expected query and assert on CallCount.
type ScriptedMockProvider struct {
	mu sync.Mutex

	Responses []string
	Err       error

	// CallCount is the number of Chat calls served so far.
	CallCount int
	// Prompts holds the final user message of each call, in call order.
	Prompts []string
}

// NewScriptedMockProvider scripts the given responses in order.
func NewScriptedMockProvider(responses ...string) *ScriptedMockProvider {
	return &ScriptedMockProvider{Responses: responses}
}

// Chat consumes and returns the next scripted response. Running past the
// end of the script is an error so tests catch unexpected extra queries.
func (s *ScriptedMockProvider) Chat(_ context.Context, req ChatRequest) (*ChatResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.CallCount++
	if n := len(req.Messages); n > 0 {
		s.Prompts = append(s.Prompts, req.Messages[n-1].Content)
	}

	if s.Err != nil {
		return nil, s.Err
	}
	if len(s.Responses) == 0 {
		return nil, errors.New("scripted mock: script exhausted")
	}

	next := s.Responses[0]
	s.Responses = s.Responses[1:]
	return mockResponse(next), nil
}

var (
	_ Provider = (*MockProvider)(nil)
	_ Provider = (*FailingMockProvider)(nil)
	_ Provider = (*ScriptedMockProvider)(nil)
)

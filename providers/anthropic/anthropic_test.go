package anthropic

import (
	"testing"

	"github.com/BatAIInc/bat-ai-core/pkg/llm"
)

func TestDefaults(t *testing.T) {
	p := New()
	if p.model != defaultModel {
		t.Errorf("model = %q, want %q", p.model, defaultModel)
	}
	if p.maxTokens != defaultMaxTokens {
		t.Errorf("maxTokens = %d, want %d", p.maxTokens, defaultMaxTokens)
	}
}

func TestOptions(t *testing.T) {
	p := New(
		WithModel("claude-opus-4-20250514"),
		WithMaxTokens(8192),
		WithBaseURL("http://localhost:8080"),
	)
	if p.model != "claude-opus-4-20250514" {
		t.Errorf("model = %q", p.model)
	}
	if p.maxTokens != 8192 {
		t.Errorf("maxTokens = %d", p.maxTokens)
	}
}

func TestOptionsIgnoreZeroValues(t *testing.T) {
	p := New(WithModel(""), WithMaxTokens(0))
	if p.model != defaultModel || p.maxTokens != defaultMaxTokens {
		t.Errorf("zero-valued options must keep defaults, got %q/%d", p.model, p.maxTokens)
	}
}

func TestNewWithAPIKey(t *testing.T) {
	if p := NewWithAPIKey("test-key", WithModel("claude-opus-4-20250514")); p.model != "claude-opus-4-20250514" {
		t.Errorf("extra options must apply alongside the key, model = %q", p.model)
	}
}

func TestSplitMessages(t *testing.T) {
	system, messages := splitMessages([]llm.Message{
		llm.SystemMessage("be terse"),
		llm.UserMessage("hello"),
		{Role: llm.RoleAssistant, Content: "hi"},
		llm.UserMessage("bye"),
	})
	if system != "be terse" {
		t.Errorf("system = %q", system)
	}
	if len(messages) != 3 {
		t.Errorf("len(messages) = %d, want 3 (system lifted out)", len(messages))
	}
}

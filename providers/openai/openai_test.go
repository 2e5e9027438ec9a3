package openai

import (
	"testing"

	"github.com/BatAIInc/bat-ai-core/pkg/llm"
)

func TestDefaults(t *testing.T) {
	if p := New(); p.model != defaultModel {
		t.Errorf("model = %q, want %q", p.model, defaultModel)
	}
}

func TestOptions(t *testing.T) {
	p := New(WithModel("gpt-5"), WithBaseURL("http://localhost:8080"))
	if p.model != "gpt-5" {
		t.Errorf("model = %q", p.model)
	}
	if New(WithModel("")).model != defaultModel {
		t.Error("empty model must keep the default")
	}
}

func TestNewWithAPIKey(t *testing.T) {
	if p := NewWithAPIKey("test-key", WithModel("gpt-5")); p.model != "gpt-5" {
		t.Errorf("extra options must apply alongside the key, model = %q", p.model)
	}
}

func TestToMessageParams(t *testing.T) {
	out := toMessageParams([]llm.Message{
		llm.SystemMessage("be terse"),
		llm.UserMessage("hello"),
		{Role: llm.RoleAssistant, Content: "hi"},
	})
	if len(out) != 3 {
		t.Errorf("len = %d, want 3", len(out))
	}
}

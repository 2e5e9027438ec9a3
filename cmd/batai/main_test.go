package main

import (
	"testing"

	"github.com/BatAIInc/bat-ai-core/pkg/config"
)

func TestParseGlobalFlags(t *testing.T) {
	flags, args, err := parseGlobalFlags([]string{"--config", "batai.yaml", "run", "crew.yaml"})
	if err != nil {
		t.Fatalf("parseGlobalFlags error: %v", err)
	}
	if flags.ConfigPath != "batai.yaml" {
		t.Errorf("config path = %q", flags.ConfigPath)
	}
	if len(args) != 2 || args[0] != "run" || args[1] != "crew.yaml" {
		t.Errorf("args = %v", args)
	}
}

func TestParseGlobalFlagsEquals(t *testing.T) {
	flags, args, err := parseGlobalFlags([]string{"--config=x.yaml", "version"})
	if err != nil {
		t.Fatalf("parseGlobalFlags error: %v", err)
	}
	if flags.ConfigPath != "x.yaml" {
		t.Errorf("config path = %q", flags.ConfigPath)
	}
	if len(args) != 1 || args[0] != "version" {
		t.Errorf("args = %v", args)
	}
}

func TestParseGlobalFlagsUnknown(t *testing.T) {
	if _, _, err := parseGlobalFlags([]string{"--bogus"}); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func TestBuildProvider(t *testing.T) {
	for _, name := range []string{"anthropic", "openai", "ollama", "mock"} {
		if _, err := buildProvider(config.LLMConfig{Provider: name}); err != nil {
			t.Errorf("buildProvider(%q) error: %v", name, err)
		}
	}
	if _, err := buildProvider(config.LLMConfig{Provider: "nope"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

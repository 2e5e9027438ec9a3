package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batai.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("log defaults: %+v", cfg.Log)
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("llm provider = %q", cfg.LLM.Provider)
	}
	if cfg.Tasks.Timeout() != 30*time.Second {
		t.Errorf("task timeout = %v, want 30s", cfg.Tasks.Timeout())
	}
	if cfg.Tasks.MaxRetries != 3 || cfg.Tasks.RetryDelay() != time.Second {
		t.Errorf("retry defaults: %+v", cfg.Tasks)
	}
	if cfg.Tasks.MaxDelegationDepth != 3 {
		t.Errorf("delegation depth = %d", cfg.Tasks.MaxDelegationDepth)
	}
	if cfg.Memory.Enabled {
		t.Error("memory must be disabled by default")
	}
	if cfg.Telemetry.Exporter != "stdout" {
		t.Errorf("telemetry exporter = %q", cfg.Telemetry.Exporter)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
llm:
  provider: anthropic
  model: claude-sonnet-4-5
tasks:
  timeout_ms: 5000
  max_retries: 5
memory:
  enabled: true
  provider: sqlite
  sqlite_path: /tmp/test.db
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.LLM.Provider != "anthropic" {
		t.Errorf("llm provider = %q", cfg.LLM.Provider)
	}
	if cfg.Tasks.TimeoutMs != 5000 || cfg.Tasks.MaxRetries != 5 {
		t.Errorf("tasks = %+v", cfg.Tasks)
	}
	// Unset values keep their defaults.
	if cfg.Tasks.RetryDelayMs != 1000 {
		t.Errorf("retry delay = %d, want default 1000", cfg.Tasks.RetryDelayMs)
	}
	if !cfg.Memory.Enabled || cfg.Memory.Provider != "sqlite" {
		t.Errorf("memory = %+v", cfg.Memory)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "llm:\n  provider: openai\n")
	t.Setenv("BATAI_LLM_PROVIDER", "anthropic")
	t.Setenv("BATAI_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.Provider != "anthropic" {
		t.Errorf("llm provider = %q, want env override", cfg.LLM.Provider)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log level = %q, want env override", cfg.Log.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

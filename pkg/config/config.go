// Package config loads BatAI configuration from YAML files and the
// environment. Environment variables use the BATAI_ prefix and override
// file values (BATAI_LLM_PROVIDER -> llm.provider).
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Log       LogConfig       `koanf:"log"`
	LLM       LLMConfig       `koanf:"llm"`
	Memory    MemoryConfig    `koanf:"memory"`
	Tasks     TasksConfig     `koanf:"tasks"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type LLMConfig struct {
	Provider    string  `koanf:"provider"` // anthropic, openai, ollama, mock
	Model       string  `koanf:"model"`
	BaseURL     string  `koanf:"base_url"`
	APIKey      string  `koanf:"api_key"`
	Temperature float64 `koanf:"temperature"`
}

type MemoryConfig struct {
	Enabled         bool   `koanf:"enabled"`
	Provider        string `koanf:"provider"` // inmemory, sqlite, vector
	SQLitePath      string `koanf:"sqlite_path"`
	QdrantAddr      string `koanf:"qdrant_addr"`
	Collection      string `koanf:"collection"`
	EmbedderBaseURL string `koanf:"embedder_base_url"`
	EmbedderModel   string `koanf:"embedder_model"`
}

// TasksConfig carries the task execution defaults applied when a task
// definition leaves them unset.
type TasksConfig struct {
	TimeoutMs          int `koanf:"timeout_ms"`
	MaxRetries         int `koanf:"max_retries"`
	RetryDelayMs       int `koanf:"retry_delay_ms"`
	MaxDelegationDepth int `koanf:"max_delegation_depth"`
}

type TelemetryConfig struct {
	Enabled      bool   `koanf:"enabled"`
	Exporter     string `koanf:"exporter"` // stdout, otlp-grpc
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	ServiceName  string `koanf:"service_name"`
}

// Timeout returns the default per-attempt task timeout.
func (t TasksConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutMs) * time.Millisecond
}

// RetryDelay returns the default inter-attempt delay.
func (t TasksConfig) RetryDelay() time.Duration {
	return time.Duration(t.RetryDelayMs) * time.Millisecond
}

// Load reads configuration from an optional YAML file and the BATAI_
// environment, layered over built-in defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Defaults
	k.Set("log.level", "info")
	k.Set("log.format", "text")

	k.Set("llm.provider", "ollama")
	k.Set("llm.model", "qwen2.5-coder:7b-instruct-q5_K_M")
	k.Set("llm.base_url", "http://localhost:11434")

	k.Set("memory.enabled", false)
	k.Set("memory.provider", "inmemory")
	k.Set("memory.sqlite_path", "batai.db")
	k.Set("memory.qdrant_addr", "localhost:6334")
	k.Set("memory.collection", "batai_context")
	k.Set("memory.embedder_base_url", "http://localhost:11434")
	k.Set("memory.embedder_model", "nomic-embed-text")

	k.Set("tasks.timeout_ms", 30000)
	k.Set("tasks.max_retries", 3)
	k.Set("tasks.retry_delay_ms", 1000)
	k.Set("tasks.max_delegation_depth", 3)

	k.Set("telemetry.enabled", false)
	k.Set("telemetry.exporter", "stdout")
	k.Set("telemetry.service_name", "batai")

	// 1. Load from file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// 2. Load from ENV (BATAI_LLM_PROVIDER -> llm.provider). Every
	// underscore becomes a dot, so only keys whose final segment has no
	// underscore are env-overridable: BATAI_LLM_BASE_URL maps to
	// llm.base.url, not llm.base_url. Multi-word keys belong in the file.
	if err := k.Load(env.Provider("BATAI_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "BATAI_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

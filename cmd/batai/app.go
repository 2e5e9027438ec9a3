package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BatAIInc/bat-ai-core/pkg/agent"
	"github.com/BatAIInc/bat-ai-core/pkg/config"
	"github.com/BatAIInc/bat-ai-core/pkg/core"
	"github.com/BatAIInc/bat-ai-core/pkg/executor"
	"github.com/BatAIInc/bat-ai-core/pkg/llm"
	"github.com/BatAIInc/bat-ai-core/pkg/memory"
	memollama "github.com/BatAIInc/bat-ai-core/pkg/memory/ollama"
	memqdrant "github.com/BatAIInc/bat-ai-core/pkg/memory/qdrant"
	"github.com/BatAIInc/bat-ai-core/pkg/orchestrator"
	"github.com/BatAIInc/bat-ai-core/pkg/telemetry"
	"github.com/BatAIInc/bat-ai-core/providers/anthropic"
	"github.com/BatAIInc/bat-ai-core/providers/openai"
)

// app bundles the wired runtime collaborators for one CLI invocation.
type app struct {
	Orchestrator *orchestrator.Orchestrator
	Provider     llm.Provider
	AgentOptions []agent.Option

	shutdown telemetry.ShutdownFunc
	closers  []func() error
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	logger := slog.Default()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitWithConfig(cfg.Telemetry.ServiceName, version, telemetry.Config{
			Exporter:     cfg.Telemetry.Exporter,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			OTLPInsecure: true,
		})
		if err != nil {
			return nil, err
		}
		a.shutdown = shutdown
	}

	metrics, err := telemetry.NewTaskMetrics(ctx)
	if err != nil {
		return nil, err
	}

	provider, err := buildProvider(cfg.LLM)
	if err != nil {
		return nil, err
	}
	a.Provider = provider

	a.AgentOptions = []agent.Option{
		agent.WithLogger(logger),
		agent.WithMetrics(metrics),
	}
	if cfg.Tasks.MaxDelegationDepth > 0 {
		a.AgentOptions = append(a.AgentOptions, agent.WithMaxDelegationDepth(cfg.Tasks.MaxDelegationDepth))
	}

	if cfg.Memory.Enabled {
		mem, err := a.buildMemory(ctx, cfg.Memory)
		if err != nil {
			return nil, err
		}
		a.AgentOptions = append(a.AgentOptions, agent.WithMemory(mem))
	}

	exec := executor.New(
		executor.WithLogger(logger),
		executor.WithMetrics(metrics),
	)
	a.Orchestrator = orchestrator.New(
		orchestrator.WithExecutor(exec),
		orchestrator.WithLogger(logger),
		orchestrator.WithTaskDefaults(orchestrator.TaskDefaults{
			Timeout:    cfg.Tasks.Timeout(),
			MaxRetries: cfg.Tasks.MaxRetries,
			RetryDelay: cfg.Tasks.RetryDelay(),
		}),
	)
	return a, nil
}

func buildProvider(cfg config.LLMConfig) (llm.Provider, error) {
	switch cfg.Provider {
	case "anthropic":
		opts := []anthropic.Option{anthropic.WithModel(cfg.Model)}
		if cfg.APIKey != "" {
			return anthropic.NewWithAPIKey(cfg.APIKey, opts...), nil
		}
		return anthropic.New(opts...), nil
	case "openai":
		opts := []openai.Option{openai.WithModel(cfg.Model)}
		if cfg.APIKey != "" {
			return openai.NewWithAPIKey(cfg.APIKey, opts...), nil
		}
		return openai.New(opts...), nil
	case "ollama":
		return llm.NewOllama(cfg.BaseURL), nil
	case "mock":
		return &llm.MockProvider{Response: "yes"}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func (a *app) buildMemory(ctx context.Context, cfg config.MemoryConfig) (core.Memory, error) {
	switch cfg.Provider {
	case "inmemory":
		return memory.NewInMemoryContext(), nil
	case "sqlite":
		mem, err := memory.OpenSQLiteContext(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, mem.Close)
		return mem, nil
	case "vector":
		store, err := memqdrant.New(cfg.QdrantAddr)
		if err != nil {
			return nil, err
		}
		embedder := memollama.New(
			memollama.WithBaseURL(cfg.EmbedderBaseURL),
			memollama.WithModel(cfg.EmbedderModel),
		)
		return memory.NewVectorContext(store, embedder, cfg.Collection)
	default:
		return nil, fmt.Errorf("unknown memory provider %q", cfg.Provider)
	}
}

func (a *app) Close(ctx context.Context) {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			slog.Default().Warn("close failed", "error", err)
		}
	}
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil {
			slog.Default().Warn("telemetry shutdown failed", "error", err)
		}
	}
}

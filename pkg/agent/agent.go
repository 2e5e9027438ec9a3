// Package agent implements the capability resolver: the per-task decision
// protocol that turns a task description into a tool call, a delegation to
// another agent, or a direct oracle response.
package agent

import (
	"context"
	"log/slog"

	"github.com/BatAIInc/bat-ai-core/pkg/core"
	berrors "github.com/BatAIInc/bat-ai-core/pkg/errors"
	"github.com/BatAIInc/bat-ai-core/pkg/llm"
	"github.com/BatAIInc/bat-ai-core/pkg/telemetry"
)

// DefaultMaxDelegationDepth bounds how many hand-offs a single task may
// travel through before the chain is treated as a cycle.
const DefaultMaxDelegationDepth = 3

// Agent is an autonomous actor with a role, goal, tool set, and optional
// memory. It implements core.Agent.
type Agent struct {
	role         string
	goal         string
	backstory    string
	capabilities []string
	tools        []core.Tool
	memory       core.Memory
	provider     llm.Provider
	model        string
	maxDepth     int
	temperature  float64

	logger  *slog.Logger
	metrics *telemetry.TaskMetrics
}

// Option configures an Agent instance.
type Option func(*Agent)

// WithGoal sets the agent's goal, included in every prompt.
func WithGoal(goal string) Option {
	return func(a *Agent) { a.goal = goal }
}

// WithBackstory sets free-text background included in prompts.
func WithBackstory(backstory string) Option {
	return func(a *Agent) { a.backstory = backstory }
}

// WithCapabilities assigns capability tags to the agent.
func WithCapabilities(capabilities ...string) Option {
	return func(a *Agent) { a.capabilities = append([]string(nil), capabilities...) }
}

// WithTools assigns the agent's invocable tools, in selection order.
func WithTools(tools ...core.Tool) Option {
	return func(a *Agent) { a.tools = append([]core.Tool(nil), tools...) }
}

// WithMemory attaches a memory backend. Prior exchanges are loaded before
// direct execution and the new exchange is saved on success.
func WithMemory(memory core.Memory) Option {
	return func(a *Agent) { a.memory = memory }
}

// WithModel sets the model name passed to the provider.
func WithModel(model string) Option {
	return func(a *Agent) { a.model = model }
}

// WithTemperature sets the sampling temperature for oracle queries.
func WithTemperature(t float64) Option {
	return func(a *Agent) { a.temperature = t }
}

// WithMaxDelegationDepth overrides the delegation depth bound.
func WithMaxDelegationDepth(depth int) Option {
	return func(a *Agent) {
		if depth > 0 {
			a.maxDepth = depth
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) { a.logger = logger }
}

// WithMetrics attaches decision-protocol metrics.
func WithMetrics(metrics *telemetry.TaskMetrics) Option {
	return func(a *Agent) { a.metrics = metrics }
}

// New creates an Agent. The role is the unique key used for registry
// lookup and delegation targeting; a reasoning provider is required.
func New(role string, provider llm.Provider, opts ...Option) (*Agent, error) {
	if role == "" {
		return nil, berrors.New(berrors.CodeInvalidInput, "agent role is required", nil).
			WithRecoverable(false)
	}
	if provider == nil {
		return nil, berrors.New(berrors.CodeInvalidInput, "reasoning provider is required", nil).
			WithContext("role", role).
			WithRecoverable(false)
	}

	a := &Agent{
		role:     role,
		provider: provider,
		maxDepth: DefaultMaxDelegationDepth,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Role returns the agent's unique role key.
func (a *Agent) Role() string { return a.role }

// Goal returns the agent's goal.
func (a *Agent) Goal() string { return a.goal }

// Backstory returns the agent's background text.
func (a *Agent) Backstory() string { return a.backstory }

// Capabilities returns the agent's capability tags.
func (a *Agent) Capabilities() []string {
	return append([]string(nil), a.capabilities...)
}

// Tools returns the agent's tools in selection order.
func (a *Agent) Tools() []core.Tool {
	return append([]core.Tool(nil), a.tools...)
}

// Execute runs the decision protocol for a task description and returns
// the final result text.
func (a *Agent) Execute(ctx context.Context, input string) (string, error) {
	ctx, _ = core.EnsureRunID(ctx)
	return a.resolve(ctx, input)
}

// chat sends a single prompt to the reasoning provider.
func (a *Agent) chat(ctx context.Context, prompt string) (string, error) {
	resp, err := a.provider.Chat(ctx, llm.ChatRequest{
		Model:       a.model,
		Messages:    []llm.Message{llm.UserMessage(prompt)},
		Temperature: a.temperature,
	})
	if err != nil {
		return "", berrors.New(berrors.CodeLLMError, "oracle query failed", err).
			WithContext("agent", a.role).
			WithRecoverable(true)
	}
	return resp.Content, nil
}

var _ core.Agent = (*Agent)(nil)

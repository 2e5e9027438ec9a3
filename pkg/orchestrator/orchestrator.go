// Package orchestrator owns a collection of agents and tasks, applies the
// priority ordering, and fans tasks out for concurrent execution.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/BatAIInc/bat-ai-core/pkg/core"
	berrors "github.com/BatAIInc/bat-ai-core/pkg/errors"
	"github.com/BatAIInc/bat-ai-core/pkg/executor"
	"github.com/BatAIInc/bat-ai-core/pkg/telemetry"
)

// Orchestrator manages an agent registry and a task collection. Agents are
// kept in registration order; tasks are sorted by priority weight at
// kickoff with a stable sort, so equal-priority tasks keep insertion order.
type Orchestrator struct {
	mu     sync.Mutex
	agents map[string]core.Agent
	order  []string
	tasks  []*core.Task

	executor *executor.Executor
	logger   *slog.Logger
	tracer   trace.Tracer
	defaults TaskDefaults
}

// TaskDefaults sets per-task execution settings applied by AddTask when a
// task does not set its own. Zero fields keep the core defaults.
type TaskDefaults struct {
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithExecutor overrides the task executor.
func WithExecutor(e *executor.Executor) Option {
	return func(o *Orchestrator) { o.executor = e }
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithTaskDefaults sets the execution defaults applied to queued tasks.
func WithTaskDefaults(d TaskDefaults) Option {
	return func(o *Orchestrator) { o.defaults = d }
}

// New creates an Orchestrator.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		agents:   make(map[string]core.Agent),
		executor: executor.New(),
		logger:   slog.Default(),
		tracer:   otel.Tracer("batai/orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RegisterAgent adds an agent to the registry, keyed by role.
func (o *Orchestrator) RegisterAgent(a core.Agent) error {
	if a == nil || a.Role() == "" {
		return berrors.New(berrors.CodeInvalidInput, "agent with a role is required", nil).
			WithRecoverable(false)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.agents[a.Role()]; exists {
		return berrors.New(berrors.CodeInvalidInput, "agent role already registered", nil).
			WithContext("role", a.Role()).
			WithRecoverable(false)
	}
	o.agents[a.Role()] = a
	o.order = append(o.order, a.Role())
	return nil
}

// Find resolves an agent by role. Part of core.AgentPool.
func (o *Orchestrator) Find(role string) (core.Agent, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	a, ok := o.agents[role]
	return a, ok
}

// Roles returns registered roles in registration order. Part of
// core.AgentPool.
func (o *Orchestrator) Roles() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.order...)
}

// AddTask creates a task bound to the agent with the given role and queues
// it for the next kickoff. Fails with AGENT_NOT_FOUND when no registered
// agent has that role.
func (o *Orchestrator) AddTask(description, agentRole string, opts ...core.TaskOption) (*core.Task, error) {
	agent, ok := o.Find(agentRole)
	if !ok {
		return nil, berrors.New(berrors.CodeAgentNotFound, "no agent registered for role", nil).
			WithContext("role", agentRole).
			WithRecoverable(false)
	}

	task, err := core.NewTask(description, agent, append(o.defaultOptions(), opts...)...)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	o.tasks = append(o.tasks, task)
	o.mu.Unlock()
	return task, nil
}

// defaultOptions renders the orchestrator's task defaults as task options.
// They run before per-task options, so explicit settings win.
func (o *Orchestrator) defaultOptions() []core.TaskOption {
	var opts []core.TaskOption
	if o.defaults.Timeout > 0 {
		opts = append(opts, core.WithTimeout(o.defaults.Timeout))
	}
	if o.defaults.MaxRetries > 0 || o.defaults.RetryDelay > 0 {
		rc := core.DefaultRetryConfig()
		if o.defaults.MaxRetries > 0 {
			rc.MaxRetries = o.defaults.MaxRetries
		}
		if o.defaults.RetryDelay > 0 {
			rc.RetryDelay = o.defaults.RetryDelay
		}
		opts = append(opts, core.WithRetry(rc))
	}
	return opts
}

// Tasks returns the queued tasks in insertion order.
func (o *Orchestrator) Tasks() []*core.Task {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*core.Task(nil), o.tasks...)
}

// Kickoff sorts the task collection by priority weight (high before
// medium before low, stable within a priority), launches every task
// concurrently, and waits for all of them to settle. The returned slice
// is positional: index i holds the outcome of the i-th task in sorted
// order regardless of completion order. Failures are captured as
// descriptive strings, never returned as errors, so one task's failure
// cannot abort the batch.
func (o *Orchestrator) Kickoff(ctx context.Context) []string {
	o.mu.Lock()
	tasks := append([]*core.Task(nil), o.tasks...)
	o.mu.Unlock()

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Priority.Weight() > tasks[j].Priority.Weight()
	})

	ctx, runID := core.EnsureRunID(ctx)
	ctx = core.WithAgentPool(ctx, o)

	ctx, span := o.tracer.Start(ctx, "orchestrator.kickoff", trace.WithAttributes(
		attribute.Int("batai.tasks.count", len(tasks)),
		attribute.String(telemetry.AttrAgentRunID, runID),
	))
	defer span.End()

	o.logger.InfoContext(ctx, "kickoff started",
		"tasks", len(tasks),
		"run_id", runID,
	)

	results := make([]string, len(tasks))
	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task *core.Task) {
			defer wg.Done()
			result, err := o.executor.Run(ctx, task)
			if err != nil {
				results[i] = fmt.Sprintf("task %q failed: %v", task.Description, err)
				return
			}
			results[i] = result
		}(i, task)
	}
	wg.Wait()

	o.logger.InfoContext(ctx, "kickoff finished",
		"tasks", len(tasks),
		"run_id", runID,
	)
	return results
}

var _ core.AgentPool = (*Orchestrator)(nil)

// Package executor wraps one agent invocation with a per-attempt deadline
// and a bounded retry loop.
package executor

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/BatAIInc/bat-ai-core/pkg/core"
	berrors "github.com/BatAIInc/bat-ai-core/pkg/errors"
	"github.com/BatAIInc/bat-ai-core/pkg/resilience"
	"github.com/BatAIInc/bat-ai-core/pkg/telemetry"
)

// Executor runs tasks with bounded retries and per-attempt timeouts. All
// collaborators are injected; there are no package-level singletons.
type Executor struct {
	logger  *slog.Logger
	taskLog *telemetry.TaskLogger
	metrics *telemetry.TaskMetrics
	tracer  trace.Tracer
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
		e.taskLog = telemetry.NewTaskLogger(logger)
	}
}

// WithMetrics attaches task metrics.
func WithMetrics(metrics *telemetry.TaskMetrics) Option {
	return func(e *Executor) { e.metrics = metrics }
}

// New creates an Executor.
func New(opts ...Option) *Executor {
	e := &Executor{
		logger: slog.Default(),
		tracer: otel.Tracer("batai/executor"),
	}
	e.taskLog = telemetry.NewTaskLogger(e.logger)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes a task to completion. Each attempt races the agent's
// execution against the task's per-attempt timeout; failed attempts are
// retried after a fixed delay up to MaxRetries total attempts. The
// terminal error is RETRY_EXHAUSTED carrying the last cause and the
// attempt count.
func (e *Executor) Run(ctx context.Context, task *core.Task) (string, error) {
	if task == nil {
		return "", berrors.New(berrors.CodeInvalidInput, "task is required", nil).
			WithRecoverable(false)
	}
	if err := task.Retry.Validate(); err != nil {
		return "", err
	}

	ctx, runID := core.EnsureRunID(ctx)
	ctx, span := e.tracer.Start(ctx, "task.run", trace.WithAttributes(
		telemetry.TaskAttributes(task.ID, string(task.Priority), "", 0, task.Retry.MaxRetries)...,
	))
	defer span.End()
	span.SetAttributes(attribute.String(telemetry.AttrAgentRunID, runID))

	task.AttemptCount = 0
	task.Status = core.TaskStatusRunning
	task.StartedAt = time.Now().UTC()
	e.taskLog.LogTaskExecution(ctx, task.Description, string(task.Status))

	retry := resilience.RetryConfig{
		MaxAttempts: task.Retry.MaxRetries,
		Delay:       task.Retry.RetryDelay,
		OnRetry: func(attempt int, err error) {
			task.Status = core.TaskStatusRetrying
			e.taskLog.LogTaskExecution(ctx, task.Description, string(task.Status), err.Error())
			span.AddEvent("task.retry", trace.WithAttributes(
				attribute.Int(telemetry.AttrTaskAttempt, attempt),
			))
		},
	}

	result, err := retry.DoWithResult(ctx, func(attempt int) (string, error) {
		task.AttemptCount = attempt
		out, attemptErr := resilience.WithTimeoutResult(ctx, task.Timeout, func(ctx context.Context) (string, error) {
			return task.Agent.Execute(ctx, task.Description)
		})
		e.metrics.RecordAttempt(ctx, attemptOutcome(attemptErr))
		return out, attemptErr
	})

	task.FinishedAt = time.Now().UTC()
	duration := float64(task.FinishedAt.Sub(task.StartedAt).Milliseconds())

	if err != nil {
		task.Status = core.TaskStatusFailed
		task.Error = err.Error()
		e.taskLog.LogTaskExecution(ctx, task.Description, string(task.Status), err.Error())
		e.metrics.RecordError(ctx, err)
		e.metrics.RecordTask(ctx, string(task.Status), string(task.Priority), duration)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	task.Status = core.TaskStatusCompleted
	task.Result = result
	e.taskLog.LogTaskExecution(ctx, task.Description, string(task.Status))
	e.metrics.RecordTask(ctx, string(task.Status), string(task.Priority), duration)
	span.SetStatus(codes.Ok, "")
	return result, nil
}

func attemptOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case berrors.IsCode(err, berrors.CodeTimeout):
		return "timeout"
	default:
		return "error"
	}
}

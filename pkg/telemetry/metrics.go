package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/BatAIInc/bat-ai-core/pkg/errors"
)

// TaskMetrics tracks task outcomes, attempts, and decision-protocol events
// for production monitoring.
type TaskMetrics struct {
	// taskCounter tracks finished tasks by status and priority
	taskCounter metric.Int64Counter

	// attemptCounter tracks execution attempts by outcome
	attemptCounter metric.Int64Counter

	// errorCounter tracks errors by code
	errorCounter metric.Int64Counter

	// unparseableCounter tracks oracle replies that failed structured decoding,
	// kept separate from negative decisions so protocol violations are visible
	unparseableCounter metric.Int64Counter

	// delegationCounter tracks delegations by target role
	delegationCounter metric.Int64Counter

	// toolCallCounter tracks tool invocations by tool and outcome
	toolCallCounter metric.Int64Counter

	// taskDuration records wall-clock task duration in milliseconds
	taskDuration metric.Float64Histogram
}

// NewTaskMetrics creates a task metrics tracker with OTEL meters.
func NewTaskMetrics(ctx context.Context) (*TaskMetrics, error) {
	meter := otel.Meter("batai/tasks")

	taskCounter, err := meter.Int64Counter(
		"batai.tasks.total",
		metric.WithDescription("Finished tasks by status and priority"),
	)
	if err != nil {
		return nil, err
	}

	attemptCounter, err := meter.Int64Counter(
		"batai.tasks.attempts",
		metric.WithDescription("Task execution attempts by outcome"),
	)
	if err != nil {
		return nil, err
	}

	errorCounter, err := meter.Int64Counter(
		"batai.errors.total",
		metric.WithDescription("Errors by code"),
	)
	if err != nil {
		return nil, err
	}

	unparseableCounter, err := meter.Int64Counter(
		"batai.oracle.unparseable",
		metric.WithDescription("Oracle replies that failed structured decoding, by decision state"),
	)
	if err != nil {
		return nil, err
	}

	delegationCounter, err := meter.Int64Counter(
		"batai.delegations.total",
		metric.WithDescription("Task delegations by target role"),
	)
	if err != nil {
		return nil, err
	}

	toolCallCounter, err := meter.Int64Counter(
		"batai.tools.calls",
		metric.WithDescription("Tool invocations by tool name and outcome"),
	)
	if err != nil {
		return nil, err
	}

	taskDuration, err := meter.Float64Histogram(
		"batai.tasks.duration_ms",
		metric.WithDescription("Task wall-clock duration in milliseconds"),
	)
	if err != nil {
		return nil, err
	}

	return &TaskMetrics{
		taskCounter:        taskCounter,
		attemptCounter:     attemptCounter,
		errorCounter:       errorCounter,
		unparseableCounter: unparseableCounter,
		delegationCounter:  delegationCounter,
		toolCallCounter:    toolCallCounter,
		taskDuration:       taskDuration,
	}, nil
}

// RecordTask records a finished task with its terminal status.
func (tm *TaskMetrics) RecordTask(ctx context.Context, status, priority string, durationMs float64) {
	if tm == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(AttrTaskStatus, status),
		attribute.String(AttrTaskPriority, priority),
	)
	tm.taskCounter.Add(ctx, 1, attrs)
	tm.taskDuration.Record(ctx, durationMs, attrs)
}

// RecordAttempt records one execution attempt and its outcome
// ("success", "timeout", "error").
func (tm *TaskMetrics) RecordAttempt(ctx context.Context, outcome string) {
	if tm == nil {
		return
	}
	tm.attemptCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", outcome)),
	)
}

// RecordError increments the error counter for the given error.
func (tm *TaskMetrics) RecordError(ctx context.Context, err error) {
	if tm == nil || err == nil {
		return
	}
	code := string(errors.CodeOf(err))
	recoverable := "unknown"
	if be, ok := err.(*errors.BatError); ok {
		recoverable = be.RecoverableString()
	}
	tm.errorCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("error.code", code),
			attribute.String("recoverable", recoverable),
		),
	)
}

// RecordUnparseable records an oracle reply that failed decoding for the
// given decision state ("tool_selection", "delegation").
func (tm *TaskMetrics) RecordUnparseable(ctx context.Context, state string) {
	if tm == nil {
		return
	}
	tm.unparseableCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String(AttrDecisionState, state)),
	)
}

// RecordDelegation records a delegation to the given role.
func (tm *TaskMetrics) RecordDelegation(ctx context.Context, target string, depth int) {
	if tm == nil {
		return
	}
	tm.delegationCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String(AttrDelegationTarget, target),
			attribute.Int(AttrDelegationDepth, depth),
		),
	)
}

// RecordToolCall records one tool invocation.
func (tm *TaskMetrics) RecordToolCall(ctx context.Context, tool string, success bool) {
	if tm == nil {
		return
	}
	tm.toolCallCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String(AttrToolName, tool),
			attribute.Bool(AttrToolSuccess, success),
		),
	)
}

package telemetry

import (
	"context"
	"log/slog"
)

// TaskLogger records task execution transitions. It is passed explicitly
// into the orchestrator and executor rather than reached through a
// process-wide singleton.
type TaskLogger struct {
	logger *slog.Logger
}

// NewTaskLogger creates a TaskLogger over the given slog logger.
// A nil logger falls back to slog.Default().
func NewTaskLogger(logger *slog.Logger) *TaskLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskLogger{logger: logger}
}

// LogTaskExecution logs one task lifecycle transition. The optional detail
// carries the attempt error, the result summary, or a delegation note.
func (l *TaskLogger) LogTaskExecution(ctx context.Context, description, status string, detail ...string) {
	if l == nil || l.logger == nil {
		return
	}
	attrs := []any{
		slog.String("task", description),
		slog.String("status", status),
	}
	if len(detail) > 0 && detail[0] != "" {
		attrs = append(attrs, slog.String("detail", detail[0]))
	}
	switch status {
	case "failed":
		l.logger.ErrorContext(ctx, "task.execution", attrs...)
	case "retrying":
		l.logger.WarnContext(ctx, "task.execution", attrs...)
	default:
		l.logger.InfoContext(ctx, "task.execution", attrs...)
	}
}

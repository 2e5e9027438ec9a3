package core

import (
	"time"

	"github.com/google/uuid"

	"github.com/BatAIInc/bat-ai-core/pkg/errors"
)

// TaskStatus describes the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusRetrying  TaskStatus = "retrying"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// Priority orders tasks for result reporting. It does not gate concurrency:
// all tasks are launched together and priority only fixes the position of
// each task's result in the kickoff output.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Weight returns the numeric ordering value for the priority.
// Unknown priorities sort last.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// RetryConfig controls the bounded retry loop of a task.
type RetryConfig struct {
	// MaxRetries is the total number of attempts (must be >= 1).
	// A value of 1 means a single attempt with no retries.
	MaxRetries int

	// RetryDelay is the fixed delay inserted between attempts.
	RetryDelay time.Duration
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		RetryDelay: time.Second,
	}
}

// Validate checks the retry configuration bounds.
func (rc RetryConfig) Validate() error {
	if rc.MaxRetries < 1 {
		return errors.New(errors.CodeInvalidInput, "max retries must be at least 1", nil).
			WithContext("max_retries", rc.MaxRetries).
			WithRecoverable(false)
	}
	if rc.RetryDelay < 0 {
		return errors.New(errors.CodeInvalidInput, "retry delay must not be negative", nil).
			WithContext("retry_delay", rc.RetryDelay.String()).
			WithRecoverable(false)
	}
	return nil
}

// DefaultTaskTimeout bounds a single execution attempt when no explicit
// timeout is configured.
const DefaultTaskTimeout = 30 * time.Second

// Task represents a first-class unit of work bound to one agent. The agent
// is borrowed for the task's lifetime, never owned.
type Task struct {
	ID          string
	Description string
	Agent       Agent
	Priority    Priority
	Timeout     time.Duration
	Retry       RetryConfig

	// Mutable execution state, owned by the executor.
	Status       TaskStatus
	AttemptCount int
	Result       string
	Error        string

	CreatedAt  time.Time
	StartedAt  time.Time
	FinishedAt time.Time
}

// TaskOption configures a Task at construction time.
type TaskOption func(*Task)

// WithPriority sets the task priority.
func WithPriority(p Priority) TaskOption {
	return func(t *Task) { t.Priority = p }
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) TaskOption {
	return func(t *Task) { t.Timeout = d }
}

// WithRetry sets the retry configuration.
func WithRetry(rc RetryConfig) TaskOption {
	return func(t *Task) { t.Retry = rc }
}

// NewTask creates a pending task with a generated ID and default
// priority, timeout, and retry configuration.
func NewTask(description string, agent Agent, opts ...TaskOption) (*Task, error) {
	t := &Task{
		ID:          uuid.NewString(),
		Description: description,
		Agent:       agent,
		Priority:    PriorityMedium,
		Timeout:     DefaultTaskTimeout,
		Retry:       DefaultRetryConfig(),
		Status:      TaskStatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.Description == "" {
		return nil, errors.New(errors.CodeInvalidInput, "task description is required", nil).
			WithRecoverable(false)
	}
	if t.Agent == nil {
		return nil, errors.New(errors.CodeInvalidInput, "task agent is required", nil).
			WithRecoverable(false)
	}
	if !t.Priority.Valid() {
		return nil, errors.New(errors.CodeInvalidInput, "unknown task priority", nil).
			WithContext("priority", string(t.Priority)).
			WithRecoverable(false)
	}
	if t.Timeout <= 0 {
		return nil, errors.New(errors.CodeInvalidInput, "task timeout must be positive", nil).
			WithContext("timeout", t.Timeout.String()).
			WithRecoverable(false)
	}
	if err := t.Retry.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

package core

import (
	"context"
	"time"
)

// Agent is the minimal executable unit of the runtime. The role is the
// unique key used for registry lookup and delegation targeting.
type Agent interface {
	Role() string
	Goal() string
	Backstory() string
	Capabilities() []string
	Tools() []Tool
	Execute(ctx context.Context, input string) (string, error)
}

// Tool is a named, invocable operation an agent can select for a task.
// Parameters returns a JSON-Schema-shaped map describing the expected input.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Execute(ctx context.Context, input map[string]any) (*ToolResult, error)
}

// ToolResult is the structured outcome of a tool invocation.
type ToolResult struct {
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Exchange is one stored input/output pair of an agent's prior work.
type Exchange struct {
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	CreatedAt time.Time `json:"created_at"`
}

// Memory stores and retrieves contextual exchanges for agents. The scope
// partitions exchanges, typically by agent role.
type Memory interface {
	LoadContext(ctx context.Context, scope string) ([]Exchange, error)
	SaveContext(ctx context.Context, scope string, exchange Exchange) error
}

// AgentPool resolves delegation targets among the agents managed by an
// orchestrator. Roles returns roles in registration order.
type AgentPool interface {
	Find(role string) (Agent, bool)
	Roles() []string
}

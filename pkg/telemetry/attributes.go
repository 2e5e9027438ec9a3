// Package telemetry provides logging, tracing, and metrics for BatAI task
// execution.
package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Semantic conventions for BatAI telemetry.
// These follow OpenTelemetry naming conventions where applicable.
const (
	// Agent attributes
	AttrAgentRole  = "batai.agent.role"
	AttrAgentGoal  = "batai.agent.goal"
	AttrAgentModel = "batai.agent.model"
	AttrAgentRunID = "batai.agent.run_id"

	// Task attributes
	AttrTaskID       = "batai.task.id"
	AttrTaskPriority = "batai.task.priority"
	AttrTaskStatus   = "batai.task.status"
	AttrTaskAttempt  = "batai.task.attempt"
	AttrTaskAttempts = "batai.task.max_attempts"
	AttrTaskTimeout  = "batai.task.timeout_ms"

	// Decision protocol attributes
	AttrDecisionState    = "batai.decision.state"
	AttrToolName         = "batai.tool.name"
	AttrToolSuccess      = "batai.tool.success"
	AttrDelegationTarget = "batai.delegation.target"
	AttrDelegationDepth  = "batai.delegation.depth"
	AttrDelegationReason = "batai.delegation.reason"

	// LLM attributes (extending standard gen_ai conventions)
	AttrLLMModel        = "gen_ai.request.model"
	AttrLLMProvider     = "gen_ai.system"
	AttrLLMTokensInput  = "gen_ai.usage.input_tokens"
	AttrLLMTokensOutput = "gen_ai.usage.output_tokens"
	AttrLLMTokensTotal  = "gen_ai.usage.total_tokens"

	// Memory attributes
	AttrMemoryScope     = "batai.memory.scope"
	AttrMemoryRetrieved = "batai.memory.retrieved_count"
)

// TaskAttributes returns common attributes for task execution spans.
func TaskAttributes(taskID, priority, status string, attempt, maxAttempts int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrTaskID, taskID),
		attribute.String(AttrTaskPriority, priority),
	}
	if status != "" {
		attrs = append(attrs, attribute.String(AttrTaskStatus, status))
	}
	if attempt > 0 {
		attrs = append(attrs, attribute.Int(AttrTaskAttempt, attempt))
	}
	if maxAttempts > 0 {
		attrs = append(attrs, attribute.Int(AttrTaskAttempts, maxAttempts))
	}
	return attrs
}

// AgentAttributes returns common attributes for agent spans.
func AgentAttributes(role, model, runID string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrAgentRole, role),
	}
	if model != "" {
		attrs = append(attrs, attribute.String(AttrAgentModel, model))
	}
	if runID != "" {
		attrs = append(attrs, attribute.String(AttrAgentRunID, runID))
	}
	return attrs
}

// DelegationAttributes returns attributes for delegation spans.
func DelegationAttributes(target, reason string, depth int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrDelegationTarget, target),
		attribute.Int(AttrDelegationDepth, depth),
	}
	if reason != "" {
		attrs = append(attrs, attribute.String(AttrDelegationReason, reason))
	}
	return attrs
}

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BatAIInc/bat-ai-core/pkg/core"
	berrors "github.com/BatAIInc/bat-ai-core/pkg/errors"
)

// resolve runs the decision protocol: tool selection, capability check,
// delegation, then direct execution, terminating at whichever state
// produces a usable result.
func (a *Agent) resolve(ctx context.Context, task string) (string, error) {
	if len(a.tools) > 0 {
		result, handled, err := a.tryToolSelection(ctx, task)
		if err != nil {
			return "", err
		}
		if handled {
			return result, nil
		}
	}

	capable, err := a.checkCapability(ctx, task)
	if err != nil {
		return "", err
	}

	if !capable {
		result, handled, err := a.tryDelegation(ctx, task)
		if err != nil {
			return "", err
		}
		if handled {
			return result, nil
		}
	}

	return a.executeDirect(ctx, task)
}

// tryToolSelection asks the oracle to pick a tool. An unparseable reply or
// an unknown tool name degrades to "no tool selected"; a selected tool's
// failure is a terminal TOOL_FAILURE.
func (a *Agent) tryToolSelection(ctx context.Context, task string) (string, bool, error) {
	reply, err := a.chat(ctx, a.buildToolSelectionPrompt(task))
	if err != nil {
		return "", false, err
	}
	if strings.EqualFold(strings.TrimSpace(reply), "none") {
		return "", false, nil
	}

	selection, err := DecodeToolSelection(reply)
	if err != nil {
		a.logger.WarnContext(ctx, "unparseable tool selection reply",
			"agent", a.role,
			"error", err,
		)
		a.metrics.RecordUnparseable(ctx, "tool_selection")
		return "", false, nil
	}

	tool := a.findTool(selection.Tool)
	if tool == nil {
		a.logger.WarnContext(ctx, "oracle selected unknown tool",
			"agent", a.role,
			"tool", selection.Tool,
		)
		return "", false, nil
	}

	result, err := tool.Execute(ctx, selection.Input)
	if err != nil {
		a.metrics.RecordToolCall(ctx, tool.Name(), false)
		return "", false, berrors.New(berrors.CodeToolFailure, "tool execution failed", err).
			WithContext("tool", tool.Name()).
			WithContext("agent", a.role).
			WithRecoverable(true)
	}
	if !result.Success {
		a.metrics.RecordToolCall(ctx, tool.Name(), false)
		return "", false, berrors.New(berrors.CodeToolFailure, result.Error, nil).
			WithContext("tool", tool.Name()).
			WithContext("agent", a.role).
			WithRecoverable(true)
	}

	a.metrics.RecordToolCall(ctx, tool.Name(), true)
	a.logger.InfoContext(ctx, "tool executed",
		"agent", a.role,
		"tool", tool.Name(),
	)

	serialized, err := json.Marshal(result.Result)
	if err != nil {
		return "", false, berrors.New(berrors.CodeToolFailure, "tool result is not serializable", err).
			WithContext("tool", tool.Name()).
			WithRecoverable(true)
	}
	return string(serialized), true, nil
}

func (a *Agent) findTool(name string) core.Tool {
	for _, t := range a.tools {
		if t.Name() == name {
			return t
		}
	}
	return nil
}

// checkCapability asks the oracle a yes/no question; anything that does
// not normalize to "yes" is treated as no.
func (a *Agent) checkCapability(ctx context.Context, task string) (bool, error) {
	reply, err := a.chat(ctx, a.buildCapabilityPrompt(task))
	if err != nil {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(reply), "yes"), nil
}

// tryDelegation asks the oracle for a delegation recommendation and, when
// a target is resolvable, hands the task description off to that agent.
// Revisiting a role or exceeding the depth bound is a DELEGATION_CYCLE.
func (a *Agent) tryDelegation(ctx context.Context, task string) (string, bool, error) {
	pool, ok := core.AgentPoolFromContext(ctx)
	if !ok {
		return "", false, nil
	}

	peers := make([]core.Agent, 0)
	for _, role := range pool.Roles() {
		if role == a.role {
			continue
		}
		if peer, found := pool.Find(role); found {
			peers = append(peers, peer)
		}
	}
	if len(peers) == 0 {
		return "", false, nil
	}

	reply, err := a.chat(ctx, a.buildDelegationPrompt(task, peers))
	if err != nil {
		return "", false, err
	}

	decision, err := DecodeDelegation(reply)
	if err != nil {
		a.logger.WarnContext(ctx, "unparseable delegation reply",
			"agent", a.role,
			"error", err,
		)
		a.metrics.RecordUnparseable(ctx, "delegation")
		return "", false, nil
	}
	if !decision.ShouldDelegate {
		return "", false, nil
	}

	target, found := pool.Find(decision.TargetAgentRole)
	if !found || target.Role() == a.role {
		a.logger.WarnContext(ctx, "delegation target not available",
			"agent", a.role,
			"target", decision.TargetAgentRole,
		)
		return "", false, nil
	}

	depth := core.DelegationDepth(ctx)
	if core.DelegationVisited(ctx, target.Role()) || depth >= a.maxDepth {
		return "", false, berrors.New(berrors.CodeDelegationCycle,
			fmt.Sprintf("delegation chain rejected at depth %d", depth), nil).
			WithContext("agent", a.role).
			WithContext("target", target.Role()).
			WithContext("path", strings.Join(core.DelegationPath(ctx), " -> ")).
			WithRecoverable(false)
	}

	a.metrics.RecordDelegation(ctx, target.Role(), depth+1)
	a.logger.InfoContext(ctx, "delegating task",
		"agent", a.role,
		"target", target.Role(),
		"reason", decision.Reason,
		"depth", depth+1,
	)

	result, err := target.Execute(core.WithDelegation(ctx, a.role), task)
	if err != nil {
		return "", false, err
	}
	return result, true, nil
}

// executeDirect answers the task with a single oracle query, loading prior
// memory context first and saving the exchange on success. Memory failures
// degrade to running without context rather than failing the task.
func (a *Agent) executeDirect(ctx context.Context, task string) (string, error) {
	var history []core.Exchange
	if a.memory != nil {
		loaded, err := a.memory.LoadContext(ctx, a.role)
		if err != nil {
			a.logger.WarnContext(ctx, "failed to load memory context",
				"agent", a.role,
				"error", err,
			)
		} else {
			history = loaded
		}
	}

	result, err := a.chat(ctx, a.buildDirectPrompt(task, history))
	if err != nil {
		return "", err
	}

	if a.memory != nil {
		if err := a.memory.SaveContext(ctx, a.role, core.Exchange{Input: task, Output: result}); err != nil {
			a.logger.WarnContext(ctx, "failed to save memory context",
				"agent", a.role,
				"error", err,
			)
		}
	}
	return result, nil
}

package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BatAIInc/bat-ai-core/pkg/core"
)

func (a *Agent) identityPreamble() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s.\n", a.role)
	if a.goal != "" {
		fmt.Fprintf(&b, "Your goal: %s\n", a.goal)
	}
	if a.backstory != "" {
		fmt.Fprintf(&b, "Background: %s\n", a.backstory)
	}
	return b.String()
}

func (a *Agent) buildToolSelectionPrompt(task string) string {
	var b strings.Builder
	b.WriteString(a.identityPreamble())
	b.WriteString("\nYou have access to the following tools:\n")
	for _, tool := range a.tools {
		schema, _ := json.Marshal(tool.Parameters())
		fmt.Fprintf(&b, "- %s: %s\n  parameters: %s\n", tool.Name(), tool.Description(), schema)
	}
	fmt.Fprintf(&b, "\nTask: %s\n", task)
	b.WriteString("\nIf one of the tools is the right way to accomplish this task, reply with JSON only:\n")
	b.WriteString(`{"tool": "<tool name>", "input": {<parameters>}}` + "\n")
	b.WriteString("If no tool applies, reply with the word: none\n")
	return b.String()
}

func (a *Agent) buildCapabilityPrompt(task string) string {
	var b strings.Builder
	b.WriteString(a.identityPreamble())
	if len(a.capabilities) > 0 {
		fmt.Fprintf(&b, "Your capabilities: %s\n", strings.Join(a.capabilities, ", "))
	}
	fmt.Fprintf(&b, "\nTask: %s\n", task)
	b.WriteString("\nCan you handle this task yourself? Answer with exactly one word: yes or no.\n")
	return b.String()
}

func (a *Agent) buildDelegationPrompt(task string, peers []core.Agent) string {
	var b strings.Builder
	b.WriteString(a.identityPreamble())
	b.WriteString("\nYou cannot handle this task yourself. Other agents are available:\n")
	for _, peer := range peers {
		fmt.Fprintf(&b, "- role: %s, goal: %s", peer.Role(), peer.Goal())
		if caps := peer.Capabilities(); len(caps) > 0 {
			fmt.Fprintf(&b, ", capabilities: %s", strings.Join(caps, ", "))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nTask: %s\n", task)
	b.WriteString("\nShould this task be delegated to one of them? Reply with JSON only:\n")
	b.WriteString(`{"shouldDelegate": <true|false>, "reason": "<why>", "targetAgentRole": "<role>"}` + "\n")
	return b.String()
}

func (a *Agent) buildDirectPrompt(task string, history []core.Exchange) string {
	var b strings.Builder
	b.WriteString(a.identityPreamble())
	if len(history) > 0 {
		b.WriteString("\nRelevant prior work:\n")
		for _, ex := range history {
			fmt.Fprintf(&b, "Task: %s\nResult: %s\n\n", ex.Input, ex.Output)
		}
	}
	fmt.Fprintf(&b, "\nTask: %s\n\nComplete the task and reply with the result.\n", task)
	return b.String()
}

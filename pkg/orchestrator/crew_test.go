package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/BatAIInc/bat-ai-core/pkg/core"
	"github.com/BatAIInc/bat-ai-core/pkg/llm"
)

const crewYAML = `
agents:
  - role: researcher
    goal: find information
    backstory: a meticulous analyst
    capabilities: [search, summarize]
    model: test-model
  - role: writer
    goal: write prose
tasks:
  - description: research the topic
    agent: researcher
    priority: high
    timeout_ms: 5000
    retry:
      max_retries: 2
      retry_delay_ms: 10
  - description: write the report
    agent: writer
`

func TestParseCrew(t *testing.T) {
	crew, err := ParseCrew([]byte(crewYAML))
	if err != nil {
		t.Fatalf("ParseCrew failed: %v", err)
	}
	if len(crew.Agents) != 2 || len(crew.Tasks) != 2 {
		t.Fatalf("parsed %d agents, %d tasks", len(crew.Agents), len(crew.Tasks))
	}
	if crew.Agents[0].Role != "researcher" || crew.Agents[0].Capabilities[1] != "summarize" {
		t.Errorf("unexpected agent: %+v", crew.Agents[0])
	}
	if crew.Tasks[0].Retry == nil || crew.Tasks[0].Retry.MaxRetries != 2 {
		t.Errorf("unexpected retry: %+v", crew.Tasks[0].Retry)
	}
}

func TestParseCrewValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"no agents", "tasks:\n  - description: x\n    agent: y\n"},
		{"missing role", "agents:\n  - goal: g\n"},
		{"duplicate role", "agents:\n  - role: a\n  - role: a\n"},
		{"unknown task agent", "agents:\n  - role: a\ntasks:\n  - description: d\n    agent: ghost\n"},
		{"bad priority", "agents:\n  - role: a\ntasks:\n  - description: d\n    agent: a\n    priority: urgent\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseCrew([]byte(tc.yaml)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestBuildCrew(t *testing.T) {
	crew, err := ParseCrew([]byte(crewYAML))
	if err != nil {
		t.Fatalf("ParseCrew failed: %v", err)
	}

	o := New()
	provider := &llm.MockProvider{Response: "yes"}
	if err := o.BuildCrew(crew, provider); err != nil {
		t.Fatalf("BuildCrew failed: %v", err)
	}

	roles := o.Roles()
	if len(roles) != 2 || roles[0] != "researcher" || roles[1] != "writer" {
		t.Errorf("roles = %v", roles)
	}

	tasks := o.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("queued %d tasks, want 2", len(tasks))
	}
	if tasks[0].Priority != core.PriorityHigh {
		t.Errorf("priority = %s", tasks[0].Priority)
	}
	if tasks[0].Timeout != 5*time.Second {
		t.Errorf("timeout = %v", tasks[0].Timeout)
	}
	if tasks[0].Retry.MaxRetries != 2 || tasks[0].Retry.RetryDelay != 10*time.Millisecond {
		t.Errorf("retry = %+v", tasks[0].Retry)
	}
	// Defaults apply where the definition is silent.
	if tasks[1].Priority != core.PriorityMedium {
		t.Errorf("default priority = %s", tasks[1].Priority)
	}

	// The crew runs end to end with a mock provider: each agent answers
	// the capability check with "yes" and then responds directly.
	results := o.Kickoff(context.Background())
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for i, r := range results {
		if r != "yes" {
			t.Errorf("results[%d] = %q", i, r)
		}
	}
}

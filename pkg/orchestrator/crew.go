package orchestrator

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/BatAIInc/bat-ai-core/pkg/agent"
	"github.com/BatAIInc/bat-ai-core/pkg/core"
	"github.com/BatAIInc/bat-ai-core/pkg/llm"
)

// CrewDefinition is a declarative description of agents and tasks, loaded
// from YAML.
type CrewDefinition struct {
	Agents []AgentDefinition `yaml:"agents"`
	Tasks  []TaskDefinition  `yaml:"tasks"`
}

// AgentDefinition declares one agent of the crew.
type AgentDefinition struct {
	Role         string   `yaml:"role"`
	Goal         string   `yaml:"goal"`
	Backstory    string   `yaml:"backstory"`
	Capabilities []string `yaml:"capabilities"`
	Model        string   `yaml:"model"`
	Temperature  float64  `yaml:"temperature"`
}

// TaskDefinition declares one task of the crew.
type TaskDefinition struct {
	Description string           `yaml:"description"`
	Agent       string           `yaml:"agent"`
	Priority    string           `yaml:"priority"`
	TimeoutMs   int              `yaml:"timeout_ms"`
	Retry       *RetryDefinition `yaml:"retry"`
}

// RetryDefinition declares a task's retry configuration.
type RetryDefinition struct {
	MaxRetries   int `yaml:"max_retries"`
	RetryDelayMs int `yaml:"retry_delay_ms"`
}

// ParseCrew loads a crew definition from YAML and validates it.
func ParseCrew(data []byte) (*CrewDefinition, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty crew payload")
	}
	var crew CrewDefinition
	if err := yaml.Unmarshal(data, &crew); err != nil {
		return nil, fmt.Errorf("parse crew: %w", err)
	}
	if err := crew.Validate(); err != nil {
		return nil, err
	}
	return &crew, nil
}

// LoadCrewFile loads a crew definition from a YAML file.
func LoadCrewFile(path string) (*CrewDefinition, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("crew path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCrew(data)
}

// Validate checks the crew definition for structural problems: missing
// roles, duplicate roles, and tasks referencing unknown agents.
func (c *CrewDefinition) Validate() error {
	if len(c.Agents) == 0 {
		return fmt.Errorf("crew defines no agents")
	}

	roles := make(map[string]bool, len(c.Agents))
	for i, a := range c.Agents {
		if a.Role == "" {
			return fmt.Errorf("agent %d: role is required", i)
		}
		if roles[a.Role] {
			return fmt.Errorf("agent %d: duplicate role %q", i, a.Role)
		}
		roles[a.Role] = true
	}

	for i, t := range c.Tasks {
		if t.Description == "" {
			return fmt.Errorf("task %d: description is required", i)
		}
		if !roles[t.Agent] {
			return fmt.Errorf("task %d: unknown agent %q", i, t.Agent)
		}
		if t.Priority != "" && !core.Priority(t.Priority).Valid() {
			return fmt.Errorf("task %d: unknown priority %q", i, t.Priority)
		}
	}
	return nil
}

// BuildCrew registers the crew's agents and queues its tasks on the
// orchestrator. All agents share the given reasoning provider; extra
// agent options (memory, tools, logger) apply to every agent.
func (o *Orchestrator) BuildCrew(crew *CrewDefinition, provider llm.Provider, agentOpts ...agent.Option) error {
	if crew == nil {
		return fmt.Errorf("crew is nil")
	}
	if err := crew.Validate(); err != nil {
		return err
	}

	for _, def := range crew.Agents {
		opts := []agent.Option{
			agent.WithGoal(def.Goal),
			agent.WithBackstory(def.Backstory),
			agent.WithCapabilities(def.Capabilities...),
			agent.WithModel(def.Model),
			agent.WithTemperature(def.Temperature),
		}
		opts = append(opts, agentOpts...)

		a, err := agent.New(def.Role, provider, opts...)
		if err != nil {
			return err
		}
		if err := o.RegisterAgent(a); err != nil {
			return err
		}
	}

	for _, def := range crew.Tasks {
		var opts []core.TaskOption
		if def.Priority != "" {
			opts = append(opts, core.WithPriority(core.Priority(def.Priority)))
		}
		if def.TimeoutMs > 0 {
			opts = append(opts, core.WithTimeout(time.Duration(def.TimeoutMs)*time.Millisecond))
		}
		if def.Retry != nil {
			opts = append(opts, core.WithRetry(core.RetryConfig{
				MaxRetries: def.Retry.MaxRetries,
				RetryDelay: time.Duration(def.Retry.RetryDelayMs) * time.Millisecond,
			}))
		}
		if _, err := o.AddTask(def.Description, def.Agent, opts...); err != nil {
			return err
		}
	}
	return nil
}

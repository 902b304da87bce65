// Package agentfile loads agent definitions from YAML seed files.
package agentfile

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/developerfred/intentkit/internal/model"
)

// Seed file validation errors.
var (
	ErrNoAgents          = errors.New("at least one agent is required")
	ErrMissingAgentID    = errors.New("agent id is required")
	ErrDuplicateAgentID  = errors.New("agent ids must be unique")
	ErrMissingTaskID     = errors.New("task id is required")
	ErrTaskMissingPrompt = errors.New("task prompt is required")
	ErrTaskNoSchedule    = errors.New("task needs a cron expression or a minutes interval")
	ErrTaskBothSchedules = errors.New("task cannot set both cron and minutes")
)

// File is the top-level seed document.
type File struct {
	Agents []AgentConfig `yaml:"agents"`
}

// AgentConfig is one agent definition in the seed file.
type AgentConfig struct {
	ID         string                       `yaml:"id"`
	Name       string                       `yaml:"name"`
	Model      string                       `yaml:"model"`
	Prompt     string                       `yaml:"prompt"`
	Skills     map[string]map[string]string `yaml:"skills"`
	Autonomous []TaskConfig                 `yaml:"autonomous"`
}

// TaskConfig is one autonomous task definition.
type TaskConfig struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Minutes int    `yaml:"minutes"`
	Cron    string `yaml:"cron"`
	Prompt  string `yaml:"prompt"`
	Enabled bool   `yaml:"enabled"`
}

// Load reads and validates a seed file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read agents file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("agents file validation failed: %w", err)
	}

	return &f, nil
}

// Validate checks the seed document.
func (f *File) Validate() error {
	if len(f.Agents) == 0 {
		return ErrNoAgents
	}

	seen := make(map[string]bool, len(f.Agents))

	for i, agent := range f.Agents {
		if agent.ID == "" {
			return fmt.Errorf("%w: agent[%d]", ErrMissingAgentID, i)
		}

		if seen[agent.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateAgentID, agent.ID)
		}
		seen[agent.ID] = true

		for j, task := range agent.Autonomous {
			if task.ID == "" {
				return fmt.Errorf("%w: agent %s task[%d]", ErrMissingTaskID, agent.ID, j)
			}

			if task.Prompt == "" {
				return fmt.Errorf("%w: agent %s task %s", ErrTaskMissingPrompt, agent.ID, task.ID)
			}

			if task.Cron == "" && task.Minutes <= 0 {
				return fmt.Errorf("%w: agent %s task %s", ErrTaskNoSchedule, agent.ID, task.ID)
			}

			if task.Cron != "" && task.Minutes > 0 {
				return fmt.Errorf("%w: agent %s task %s", ErrTaskBothSchedules, agent.ID, task.ID)
			}
		}
	}

	return nil
}

// Agent converts one definition to the storage model.
func (a *AgentConfig) Agent() *model.Agent {
	agent := &model.Agent{
		ID:     a.ID,
		Name:   a.Name,
		Model:  a.Model,
		Prompt: a.Prompt,
		Skills: a.Skills,
	}

	for _, t := range a.Autonomous {
		agent.Autonomous = append(agent.Autonomous, model.AutonomousTask{
			ID:      t.ID,
			Name:    t.Name,
			Minutes: t.Minutes,
			Cron:    t.Cron,
			Prompt:  t.Prompt,
			Enabled: t.Enabled,
		})
	}

	return agent
}

package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/developerfred/intentkit/internal/model"
	"github.com/developerfred/intentkit/pkg/llm"
	"github.com/developerfred/intentkit/pkg/skill"
)

var (
	ErrUnknownAgent = errors.New("unknown agent")
	ErrUnknownSkill = errors.New("unknown skill")
)

type AgentStore interface {
	GetByID(id string) (*model.Agent, error)
}

type CallStore interface {
	Save(call *model.SkillCall) error
}

// Engine executes skills on behalf of agents and records every call.
type Engine struct {
	planner  llm.Client
	registry *skill.Registry
	agents   AgentStore
	calls    CallStore
}

func New(planner llm.Client, registry *skill.Registry, agents AgentStore, calls CallStore) *Engine {
	return &Engine{planner: planner, registry: registry, agents: agents, calls: calls}
}

// Invoke executes a named skill for an agent. The returned string is the
// skill's JSON payload; operational failures live inside that payload, so a
// Go error here means the call itself was malformed or the framework broke.
func (e *Engine) Invoke(ctx context.Context, agentID, skillName string, args map[string]any) (string, error) {
	agent, err := e.agents.GetByID(agentID)
	if err != nil {
		return "", fmt.Errorf("resolve agent: %w", err)
	}
	if agent == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownAgent, agentID)
	}

	tool, ok := e.registry.Get(skillName)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSkill, skillName)
	}

	sc := &skill.Context{
		AgentID: agent.ID,
		Config:  agent.Skills[tool.Category()],
	}

	output, err := tool.Execute(ctx, sc, args)
	e.record(agent.ID, skillName, args, output, err)
	if err != nil {
		return "", err
	}

	return output, nil
}

// RunTask plans and executes one autonomous task run.
func (e *Engine) RunTask(ctx context.Context, agent *model.Agent, task model.AutonomousTask) {
	runID := uuid.NewString()

	choice, err := e.planner.ChooseSkill(ctx, llm.ChoiceInput{
		Prompt: taskPrompt(agent, task),
		Model:  agent.Model,
		Tools:  e.toolSpecs(),
	})
	if err != nil {
		slog.Error("error choosing skill", "error", err, "run_id", runID, "agent_id", agent.ID, "task_id", task.ID)
		return
	}

	if choice.None() {
		slog.Info("no skill fits task, skipping run", "run_id", runID, "agent_id", agent.ID, "task_id", task.ID)
		return
	}

	output, err := e.Invoke(ctx, agent.ID, choice.Skill, choice.Arguments)
	if err != nil {
		slog.Error("error executing skill", "error", err, "run_id", runID, "agent_id", agent.ID, "task_id", task.ID, "skill", choice.Skill)
		return
	}

	slog.Info("task run complete", "run_id", runID, "agent_id", agent.ID, "task_id", task.ID, "skill", choice.Skill, "output_bytes", len(output))
}

func taskPrompt(agent *model.Agent, task model.AutonomousTask) string {
	if agent.Prompt == "" {
		return task.Prompt
	}
	return agent.Prompt + "\n\n" + task.Prompt
}

func (e *Engine) toolSpecs() []llm.ToolSpec {
	tools := e.registry.List()
	specs := make([]llm.ToolSpec, 0, len(tools))
	for _, t := range tools {
		specs = append(specs, llm.ToolSpec{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return specs
}

func (e *Engine) record(agentID, skillName string, args map[string]any, output string, execErr error) {
	rawArgs := []byte("{}")
	if args != nil {
		if encoded, err := json.Marshal(args); err == nil {
			rawArgs = encoded
		}
	}

	call := &model.SkillCall{
		AgentID:   agentID,
		Skill:     skillName,
		Arguments: string(rawArgs),
		Output:    output,
		Success:   execErr == nil,
	}
	if execErr != nil {
		call.Error = execErr.Error()
	}

	if err := e.calls.Save(call); err != nil {
		slog.Error("error saving skill call", "error", err, "agent_id", agentID, "skill", skillName)
	}
}

package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/developerfred/intentkit/internal/model"
	"github.com/developerfred/intentkit/pkg/llm"
	"github.com/developerfred/intentkit/pkg/skill"
)

type fakePlanner struct {
	choice   *llm.SkillChoice
	err      error
	gotInput llm.ChoiceInput
}

func (f *fakePlanner) ChooseSkill(ctx context.Context, input llm.ChoiceInput) (*llm.SkillChoice, error) {
	f.gotInput = input
	if f.err != nil {
		return nil, f.err
	}
	return f.choice, nil
}

type fakeAgents struct {
	agents map[string]*model.Agent
	err    error
}

func (f *fakeAgents) GetByID(id string) (*model.Agent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.agents[id], nil
}

type fakeCalls struct {
	saved []model.SkillCall
	err   error
}

func (f *fakeCalls) Save(call *model.SkillCall) error {
	if f.err != nil {
		return f.err
	}
	call.ID = int64(len(f.saved) + 1)
	f.saved = append(f.saved, *call)
	return nil
}

type echoTool struct {
	output string
	err    error
	gotCtx *skill.Context
}

func (e *echoTool) Name() string               { return "echo" }
func (e *echoTool) Category() string           { return "echo" }
func (e *echoTool) Description() string        { return "echoes its configured output" }
func (e *echoTool) Parameters() map[string]any { return map[string]any{"type": "object"} }

func (e *echoTool) Execute(ctx context.Context, sc *skill.Context, args map[string]any) (string, error) {
	e.gotCtx = sc
	if e.err != nil {
		return "", e.err
	}
	return e.output, nil
}

func testAgent() *model.Agent {
	return &model.Agent{
		ID:     "agent-1",
		Name:   "News watcher",
		Prompt: "You watch crypto markets.",
		Skills: map[string]map[string]string{
			"echo": {"api_key": "secret"},
		},
	}
}

func newTestEngine(planner llm.Client, tool skill.Tool, agents AgentStore, calls CallStore) *Engine {
	registry := skill.NewRegistry()
	if tool != nil {
		registry.Register(tool)
	}
	return New(planner, registry, agents, calls)
}

func TestInvoke(t *testing.T) {
	tool := &echoTool{output: `{"articles":[]}`}
	calls := &fakeCalls{}
	agents := &fakeAgents{agents: map[string]*model.Agent{"agent-1": testAgent()}}
	e := newTestEngine(&fakePlanner{}, tool, agents, calls)

	out, err := e.Invoke(context.Background(), "agent-1", "echo", map[string]any{"token": "BTC"})

	require.NoError(t, err)
	assert.Equal(t, `{"articles":[]}`, out)

	require.NotNil(t, tool.gotCtx)
	assert.Equal(t, "agent-1", tool.gotCtx.AgentID)
	assert.Equal(t, "secret", tool.gotCtx.Value("api_key"))

	require.Len(t, calls.saved, 1)
	saved := calls.saved[0]
	assert.Equal(t, "agent-1", saved.AgentID)
	assert.Equal(t, "echo", saved.Skill)
	assert.JSONEq(t, `{"token":"BTC"}`, saved.Arguments)
	assert.True(t, saved.Success)
	assert.Empty(t, saved.Error)
}

func TestInvokeUnknownAgent(t *testing.T) {
	calls := &fakeCalls{}
	e := newTestEngine(&fakePlanner{}, &echoTool{}, &fakeAgents{agents: map[string]*model.Agent{}}, calls)

	_, err := e.Invoke(context.Background(), "ghost", "echo", nil)

	assert.ErrorIs(t, err, ErrUnknownAgent)
	assert.Empty(t, calls.saved)
}

func TestInvokeUnknownSkill(t *testing.T) {
	calls := &fakeCalls{}
	agents := &fakeAgents{agents: map[string]*model.Agent{"agent-1": testAgent()}}
	e := newTestEngine(&fakePlanner{}, &echoTool{}, agents, calls)

	_, err := e.Invoke(context.Background(), "agent-1", "missing", nil)

	assert.ErrorIs(t, err, ErrUnknownSkill)
	assert.Empty(t, calls.saved)
}

func TestInvokeToolError(t *testing.T) {
	tool := &echoTool{err: errors.New("schema violation")}
	calls := &fakeCalls{}
	agents := &fakeAgents{agents: map[string]*model.Agent{"agent-1": testAgent()}}
	e := newTestEngine(&fakePlanner{}, tool, agents, calls)

	_, err := e.Invoke(context.Background(), "agent-1", "echo", nil)

	require.Error(t, err)
	require.Len(t, calls.saved, 1)
	assert.False(t, calls.saved[0].Success)
	assert.Equal(t, "schema violation", calls.saved[0].Error)
}

func TestInvokeNoCategoryConfig(t *testing.T) {
	tool := &echoTool{output: "ok"}
	agents := &fakeAgents{agents: map[string]*model.Agent{
		"agent-1": {ID: "agent-1", Skills: map[string]map[string]string{"other": {"api_key": "x"}}},
	}}
	e := newTestEngine(&fakePlanner{}, tool, agents, &fakeCalls{})

	_, err := e.Invoke(context.Background(), "agent-1", "echo", nil)

	require.NoError(t, err)
	require.NotNil(t, tool.gotCtx)
	assert.Equal(t, "", tool.gotCtx.Value("api_key"))
}

func TestRunTask(t *testing.T) {
	tool := &echoTool{output: `{"articles":[]}`}
	calls := &fakeCalls{}
	agent := testAgent()
	agent.Model = "gpt-4o"
	agents := &fakeAgents{agents: map[string]*model.Agent{"agent-1": agent}}
	planner := &fakePlanner{choice: &llm.SkillChoice{
		Skill:     "echo",
		Arguments: map[string]any{"token": "BTC"},
	}}
	e := newTestEngine(planner, tool, agents, calls)

	task := model.AutonomousTask{ID: "task-1", Prompt: "Fetch the latest BTC news.", Enabled: true}
	e.RunTask(context.Background(), agent, task)

	assert.Equal(t, "gpt-4o", planner.gotInput.Model)
	assert.Contains(t, planner.gotInput.Prompt, "You watch crypto markets.")
	assert.Contains(t, planner.gotInput.Prompt, "Fetch the latest BTC news.")
	require.Len(t, planner.gotInput.Tools, 1)
	assert.Equal(t, "echo", planner.gotInput.Tools[0].Name)

	require.Len(t, calls.saved, 1)
	assert.True(t, calls.saved[0].Success)
}

func TestRunTaskNoneChoice(t *testing.T) {
	calls := &fakeCalls{}
	agent := testAgent()
	agents := &fakeAgents{agents: map[string]*model.Agent{"agent-1": agent}}
	planner := &fakePlanner{choice: &llm.SkillChoice{Skill: "none"}}
	e := newTestEngine(planner, &echoTool{}, agents, calls)

	e.RunTask(context.Background(), agent, model.AutonomousTask{ID: "task-1", Prompt: "p"})

	assert.Empty(t, calls.saved)
}

func TestRunTaskPlannerError(t *testing.T) {
	calls := &fakeCalls{}
	agent := testAgent()
	agents := &fakeAgents{agents: map[string]*model.Agent{"agent-1": agent}}
	planner := &fakePlanner{err: errors.New("model unavailable")}
	e := newTestEngine(planner, &echoTool{}, agents, calls)

	e.RunTask(context.Background(), agent, model.AutonomousTask{ID: "task-1", Prompt: "p"})

	assert.Empty(t, calls.saved)
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/developerfred/intentkit/internal/engine"
	"github.com/developerfred/intentkit/internal/model"
	"github.com/developerfred/intentkit/pkg/skill"
)

type AgentStore interface {
	GetByID(id string) (*model.Agent, error)
	List() ([]model.Agent, error)
	Count() (int, error)
}

type CallStore interface {
	ListByAgent(agentID string, limit int) ([]model.SkillCall, error)
}

type SkillRunner interface {
	Invoke(ctx context.Context, agentID, skillName string, args map[string]any) (string, error)
}

type AgentHandler struct {
	agents AgentStore
	calls  CallStore
	runner SkillRunner
}

func NewAgentHandler(agents AgentStore, calls CallStore, runner SkillRunner) *AgentHandler {
	return &AgentHandler{agents: agents, calls: calls, runner: runner}
}

func (h *AgentHandler) GetAgents(c *gin.Context) {
	agents, err := h.agents.List()
	if err != nil {
		slog.Error("error fetching agents", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var agentRes []AgentSummaryResponse
	for _, a := range agents {
		agentRes = append(agentRes, AgentSummaryResponse{
			ID:     a.ID,
			Name:   a.Name,
			Model:  a.Model,
			Skills: skillNames(a.Skills),
		})
	}

	c.JSON(http.StatusOK, AgentsResponse{
		Agents: agentRes,
		Total:  len(agents),
	})
}

func (h *AgentHandler) GetAgent(c *gin.Context) {
	id := c.Param("id")

	agent, err := h.agents.GetByID(id)
	if err != nil {
		slog.Error("error fetching agent", "error", err, "agent_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if agent == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
		return
	}

	var tasks []TaskResponse
	for _, t := range agent.Autonomous {
		tasks = append(tasks, TaskResponse{
			ID:      t.ID,
			Name:    t.Name,
			Minutes: t.Minutes,
			Cron:    t.Cron,
			Prompt:  t.Prompt,
			Enabled: t.Enabled,
		})
	}

	res := AgentResponse{
		ID:         agent.ID,
		Name:       agent.Name,
		Model:      agent.Model,
		Prompt:     agent.Prompt,
		Skills:     skillNames(agent.Skills),
		Autonomous: tasks,
		CreatedAt:  agent.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  agent.UpdatedAt.Format(time.RFC3339),
	}

	c.JSON(http.StatusOK, res)
}

func (h *AgentHandler) InvokeSkill(c *gin.Context) {
	agentID := c.Param("id")
	skillName := c.Param("skill")

	var req InvokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	output, err := h.runner.Invoke(c.Request.Context(), agentID, skillName, req.Arguments)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrUnknownAgent):
			c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
		case errors.Is(err, engine.ErrUnknownSkill):
			c.JSON(http.StatusNotFound, gin.H{"error": "Skill not found"})
		case errors.Is(err, skill.ErrInvalidArgs):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			slog.Error("error invoking skill", "error", err, "agent_id", agentID, "skill", skillName)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Skill execution failed"})
		}
		return
	}

	c.JSON(http.StatusOK, InvokeResponse{
		AgentID: agentID,
		Skill:   skillName,
		Output:  json.RawMessage(output),
	})
}

func (h *AgentHandler) GetCalls(c *gin.Context) {
	agentID := c.Param("id")
	limit := getQueryLimit(c)

	agent, err := h.agents.GetByID(agentID)
	if err != nil {
		slog.Error("error fetching agent", "error", err, "agent_id", agentID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if agent == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
		return
	}

	calls, err := h.calls.ListByAgent(agentID, limit)
	if err != nil {
		slog.Error("error fetching calls", "error", err, "agent_id", agentID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var callRes []CallResponse
	for _, call := range calls {
		res := CallResponse{
			ID:        call.ID,
			Skill:     call.Skill,
			Arguments: json.RawMessage(call.Arguments),
			Success:   call.Success,
			Error:     call.Error,
			CreatedAt: call.CreatedAt.Format(time.RFC3339),
		}
		if call.Output != "" {
			res.Output = json.RawMessage(call.Output)
		}
		callRes = append(callRes, res)
	}

	c.JSON(http.StatusOK, CallsResponse{
		Calls: callRes,
		Limit: limit,
	})
}

func (h *AgentHandler) GetHealth(c *gin.Context) {
	_, err := h.agents.Count()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func skillNames(skills map[string]map[string]string) []string {
	var names []string
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	paramLimit := c.Query(name)

	if paramLimit == "" {
		return defaultValue
	}

	parsedValue, err := strconv.Atoi(paramLimit)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", paramLimit, "error", err)
		return defaultValue
	}

	return parsedValue
}

func getQueryLimit(c *gin.Context) int {
	const (
		defaultLimit = 10
		maxLimit     = 100
	)

	limit := getQueryInt("limit", defaultLimit, c)
	if limit < 1 {
		slog.Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", defaultLimit)
		return defaultLimit
	}

	if limit > maxLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", maxLimit)
		return maxLimit
	}

	return limit
}

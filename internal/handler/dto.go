package handler

import "encoding/json"

type AgentSummaryResponse struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Model  string   `json:"model"`
	Skills []string `json:"skills"`
}

type AgentsResponse struct {
	Agents []AgentSummaryResponse `json:"agents"`
	Total  int                    `json:"total"`
}

type TaskResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Minutes int    `json:"minutes,omitempty"`
	Cron    string `json:"cron,omitempty"`
	Prompt  string `json:"prompt"`
	Enabled bool   `json:"enabled"`
}

type AgentResponse struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Model      string         `json:"model"`
	Prompt     string         `json:"prompt"`
	Skills     []string       `json:"skills"`
	Autonomous []TaskResponse `json:"autonomous"`
	CreatedAt  string         `json:"created_at"`
	UpdatedAt  string         `json:"updated_at"`
}

type InvokeRequest struct {
	Arguments map[string]any `json:"arguments"`
}

type InvokeResponse struct {
	AgentID string          `json:"agent_id"`
	Skill   string          `json:"skill"`
	Output  json.RawMessage `json:"output"`
}

type CallResponse struct {
	ID        int64           `json:"id"`
	Skill     string          `json:"skill"`
	Arguments json.RawMessage `json:"arguments"`
	Output    json.RawMessage `json:"output,omitempty"`
	Success   bool            `json:"success"`
	Error     string          `json:"error,omitempty"`
	CreatedAt string          `json:"created_at"`
}

type CallsResponse struct {
	Calls []CallResponse `json:"calls"`
	Limit int            `json:"limit"`
}

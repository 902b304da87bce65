package model

import "time"

// Agent is one configured agent. Skills maps a skill category to that
// category's config (api_key and friends). Skills and Autonomous land in
// JSONB columns, hence the tags on the task type.
type Agent struct {
	ID         string
	Name       string
	Model      string
	Prompt     string
	Skills     map[string]map[string]string
	Autonomous []AutonomousTask
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AutonomousTask is one scheduled task for an agent. Exactly one of Cron or
// Minutes should be set; when both are present Cron wins.
type AutonomousTask struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Minutes int    `json:"minutes,omitempty"`
	Cron    string `json:"cron,omitempty"`
	Prompt  string `json:"prompt"`
	Enabled bool   `json:"enabled"`
}

// SkillCall is the audit row recorded for every skill execution.
type SkillCall struct {
	ID        int64
	AgentID   string
	Skill     string
	Arguments string
	Output    string
	Success   bool
	Error     string
	CreatedAt time.Time
}

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ToolSpec describes one skill to the model.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ChoiceInput is a planning request: a task prompt plus the skill catalog.
// Model optionally overrides the client's default per agent.
type ChoiceInput struct {
	Prompt string
	Model  string
	Tools  []ToolSpec
}

// SkillChoice is the model's pick for a task.
type SkillChoice struct {
	Skill     string         `json:"skill"`
	Arguments map[string]any `json:"arguments"`
}

// None reports that no skill fits the task.
func (c *SkillChoice) None() bool {
	return c.Skill == "" || c.Skill == "none"
}

type Client interface {
	ChooseSkill(ctx context.Context, input ChoiceInput) (*SkillChoice, error)
}

func renderTools(tools []ToolSpec) string {
	var sb strings.Builder
	for _, t := range tools {
		schema, _ := json.Marshal(t.Parameters)
		fmt.Fprintf(&sb, "- %s: %s\n  arguments schema: %s\n", t.Name, t.Description, schema)
	}
	return sb.String()
}

func parseChoice(content string) (*SkillChoice, error) {
	content = cleanJSONResponse(content)

	var parsed SkillChoice
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w, content: %s", err, content)
	}

	return &parsed, nil
}

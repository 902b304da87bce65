package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const systemPrompt = `You are the planning step of an autonomous crypto agent. Given a task and the list of available skills, pick the single skill that best accomplishes the task and the arguments to call it with.

Rules:
1. Pick exactly one skill from the list, or "none" if no skill fits the task
2. Arguments must follow the skill's JSON schema
3. Never invent skills or argument names

Output as JSON only, no other text:
{
  "skill": "skill name or none",
  "arguments": {}
}`

type OpenAIClient struct {
	client *openai.Client
	model  openai.ChatModel
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{
		client: &client,
		model:  openai.ChatModelGPT4oMini,
	}
}

func (c *OpenAIClient) ChooseSkill(ctx context.Context, input ChoiceInput) (*SkillChoice, error) {
	userPrompt := fmt.Sprintf("Task: %s\n\nAvailable skills:\n%s", input.Prompt, renderTools(input.Tools))

	model := c.model
	if input.Model != "" {
		model = openai.ChatModel(input.Model)
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})

	if err != nil {
		return nil, fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from openai")
	}

	return parseChoice(resp.Choices[0].Message.Content)
}

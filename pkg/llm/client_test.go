package llm

import (
	"strings"
	"testing"
)

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  bool
		skill    string
		none     bool
		argToken string
	}{
		{
			name:     "skill with arguments",
			input:    `{"skill":"cryptocompare_fetch_news","arguments":{"token":"BTC"}}`,
			skill:    "cryptocompare_fetch_news",
			argToken: "BTC",
		},
		{
			name:  "none choice",
			input: `{"skill":"none","arguments":{}}`,
			skill: "none",
			none:  true,
		},
		{
			name:  "missing skill field",
			input: `{"arguments":{}}`,
			none:  true,
		},
		{
			name:     "fenced response",
			input:    "```json\n{\"skill\":\"cryptocompare_fetch_news\",\"arguments\":{\"token\":\"ETH\"}}\n```",
			skill:    "cryptocompare_fetch_news",
			argToken: "ETH",
		},
		{
			name:    "not JSON",
			input:   "I would fetch some news.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			choice, err := parseChoice(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", choice)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if choice.Skill != tt.skill {
				t.Errorf("skill: got %q, want %q", choice.Skill, tt.skill)
			}
			if choice.None() != tt.none {
				t.Errorf("None(): got %v, want %v", choice.None(), tt.none)
			}
			if tt.argToken != "" {
				if got, _ := choice.Arguments["token"].(string); got != tt.argToken {
					t.Errorf("token argument: got %q, want %q", got, tt.argToken)
				}
			}
		})
	}
}

func TestRenderTools(t *testing.T) {
	tools := []ToolSpec{
		{
			Name:        "cryptocompare_fetch_news",
			Description: "Fetches cryptocurrency news.",
			Parameters: map[string]any{
				"type":     "object",
				"required": []string{"token"},
			},
		},
		{
			Name:        "finnhub_market_news",
			Description: "Fetches market news.",
		},
	}

	got := renderTools(tools)

	for _, want := range []string{
		"cryptocompare_fetch_news",
		"Fetches cryptocurrency news.",
		`"required":["token"]`,
		"finnhub_market_news",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("rendered tools missing %q:\n%s", want, got)
		}
	}
}

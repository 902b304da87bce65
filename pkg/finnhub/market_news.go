package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	finnhubapi "github.com/Finnhub-Stock-API/finnhub-go/v2"

	"github.com/developerfred/intentkit/pkg/ratelimit"
	"github.com/developerfred/intentkit/pkg/skill"
)

// Category keys the agent's config map and scopes rate limiting.
const Category = "finnhub"

const defaultCategory = "crypto"

const marketNewsDescription = `This tool fetches the latest market news from Finnhub for a news category
(crypto, general, forex or merger). Returns articles with headline, summary, source and publish time.`

// Article is one normalized Finnhub news item.
type Article struct {
	ID          string   `json:"id"`
	Headline    string   `json:"headline"`
	Summary     string   `json:"summary"`
	PublishedAt int64    `json:"published_at"`
	URL         string   `json:"url"`
	Source      string   `json:"source"`
	Related     []string `json:"related"`
}

// Output mirrors the fetch-news envelope: one branch populated, never both.
type Output struct {
	Articles []Article `json:"articles"`
	Err      string    `json:"error,omitempty"`
}

func success(articles []Article) Output {
	if articles == nil {
		articles = []Article{}
	}
	return Output{Articles: articles}
}

func failure(msg string) Output {
	return Output{Articles: []Article{}, Err: msg}
}

func (o Output) Failed() bool {
	return o.Err != ""
}

// MarketNews is the finnhub_market_news skill. The SDK client is built per
// call because each agent carries its own API key.
type MarketNews struct {
	limiter *ratelimit.Limiter
}

func NewMarketNews(limiter *ratelimit.Limiter) *MarketNews {
	return &MarketNews{limiter: limiter}
}

func (t *MarketNews) Name() string {
	return "finnhub_market_news"
}

func (t *MarketNews) Category() string {
	return Category
}

func (t *MarketNews) Description() string {
	return marketNewsDescription
}

func (t *MarketNews) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"category": map[string]any{
				"type":        "string",
				"description": `News category: "crypto", "general", "forex" or "merger". Defaults to "crypto".`,
			},
		},
	}
}

func (t *MarketNews) Execute(ctx context.Context, sc *skill.Context, args map[string]any) (string, error) {
	category := defaultCategory
	if raw, ok := args["category"]; ok {
		s, ok := raw.(string)
		if !ok {
			return "", fmt.Errorf("%w: %q must be a string", skill.ErrInvalidArgs, "category")
		}
		if s != "" {
			category = s
		}
	}

	out := t.Fetch(ctx, sc, category)

	payload, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encode market news output: %w", err)
	}

	return string(payload), nil
}

// Fetch returns the latest market news for a category. Operational failures
// come back inside the Output, never as a Go error.
func (t *MarketNews) Fetch(ctx context.Context, sc *skill.Context, category string) Output {
	var agentID string
	if sc != nil {
		agentID = sc.AgentID
	}

	limited, msg, err := t.limiter.Check(ctx, agentID)
	if err != nil {
		return failure(err.Error())
	}
	if limited {
		return failure(msg)
	}

	cfg := finnhubapi.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", sc.Value("api_key"))
	client := finnhubapi.NewAPIClient(cfg).DefaultApi

	res, _, err := client.MarketNews(ctx).Category(category).Execute()
	if err != nil {
		return failure(err.Error())
	}

	return success(mapArticles(res))
}

func mapArticles(items []finnhubapi.MarketNews) []Article {
	articles := make([]Article, 0, len(items))

	for _, news := range items {
		var a Article

		if news.Id != nil {
			a.ID = strconv.FormatInt(*news.Id, 10)
		}

		if news.Headline != nil {
			a.Headline = *news.Headline
		}

		if news.Summary != nil {
			a.Summary = *news.Summary
		}

		if news.Url != nil {
			a.URL = *news.Url
		}

		if news.Datetime != nil {
			a.PublishedAt = *news.Datetime
		}

		if news.Source != nil {
			a.Source = *news.Source
		}

		if news.Related != nil && *news.Related != "" {
			a.Related = strings.Split(*news.Related, ",")
		} else {
			a.Related = []string{}
		}

		articles = append(articles, a)
	}

	return articles
}

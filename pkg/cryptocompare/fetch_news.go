package cryptocompare

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/developerfred/intentkit/pkg/ratelimit"
	"github.com/developerfred/intentkit/pkg/skill"
)

// Category keys the agent's config map and scopes rate limiting.
const Category = "cryptocompare"

const invalidFormatMessage = "Invalid response format from CryptoCompare API"

const fetchNewsDescription = `This tool fetches the latest cryptocurrency news articles for a specific token.
Returns articles in English with details like title, body, source, and publish time.`

// Article is one normalized news item.
type Article struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Body        string   `json:"body"`
	PublishedAt int64    `json:"published_at"`
	URL         string   `json:"url"`
	Source      string   `json:"source"`
	Categories  []string `json:"categories"`
}

// Output is the skill's result. The constructors keep the two branches
// exclusive: a success carries only articles, a failure only the message.
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

type newsFetcher interface {
	FetchNews(ctx context.Context, apiKey, token string, timestamp int64) (*NewsResponse, error)
}

// FetchNews is the cryptocompare_fetch_news skill.
type FetchNews struct {
	client  newsFetcher
	limiter *ratelimit.Limiter
}

func NewFetchNews(client *Client, limiter *ratelimit.Limiter) *FetchNews {
	return &FetchNews{client: client, limiter: limiter}
}

func (t *FetchNews) Name() string {
	return "cryptocompare_fetch_news"
}

func (t *FetchNews) Category() string {
	return Category
}

func (t *FetchNews) Description() string {
	return fetchNewsDescription
}

func (t *FetchNews) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"token": map[string]any{
				"type":        "string",
				"description": `Cryptocurrency token symbol, e.g. "BTC"`,
			},
		},
		"required": []string{"token"},
	}
}

func (t *FetchNews) Execute(ctx context.Context, sc *skill.Context, args map[string]any) (string, error) {
	token, err := skill.StringArg(args, "token")
	if err != nil {
		return "", err
	}

	out := t.Fetch(ctx, sc, token)

	payload, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encode fetch news output: %w", err)
	}

	return string(payload), nil
}

// Fetch returns the latest news for token. Operational failures come back
// inside the Output, never as a Go error, so callers always get a
// well-formed result.
func (t *FetchNews) Fetch(ctx context.Context, sc *skill.Context, token string) Output {
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

	timestamp := time.Now().Unix()

	resp, err := t.client.FetchNews(ctx, sc.Value("api_key"), token, timestamp)
	if err != nil {
		return failure(err.Error())
	}

	articles, err := mapArticles(resp)
	if err != nil {
		return failure(err.Error())
	}

	return success(articles)
}

// newsItem keeps every field a pointer so absent keys are detectable.
type newsItem struct {
	ID          *articleID `json:"id"`
	Title       *string    `json:"title"`
	Body        *string    `json:"body"`
	PublishedOn *int64     `json:"published_on"`
	URL         *string    `json:"url"`
	Source      *string    `json:"source"`
	Categories  *string    `json:"categories"`
}

func (n *newsItem) missingField() string {
	switch {
	case n.ID == nil:
		return "id"
	case n.Title == nil:
		return "title"
	case n.Body == nil:
		return "body"
	case n.PublishedOn == nil:
		return "published_on"
	case n.URL == nil:
		return "url"
	case n.Source == nil:
		return "source"
	case n.Categories == nil:
		return "categories"
	}
	return ""
}

// articleID tolerates the provider sending ids as strings or numbers.
type articleID string

func (a *articleID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = articleID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("id is neither string nor number")
	}
	*a = articleID(n.String())
	return nil
}

func mapArticles(resp *NewsResponse) ([]Article, error) {
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return nil, errors.New(invalidFormatMessage)
	}

	var items []newsItem
	if err := json.Unmarshal(resp.Data, &items); err != nil {
		return nil, fmt.Errorf("%s: %v", invalidFormatMessage, err)
	}

	articles := make([]Article, 0, len(items))
	for i, item := range items {
		if field := item.missingField(); field != "" {
			return nil, fmt.Errorf("%s: article %d missing %q", invalidFormatMessage, i, field)
		}

		articles = append(articles, Article{
			ID:          string(*item.ID),
			Title:       *item.Title,
			Body:        *item.Body,
			PublishedAt: *item.PublishedOn,
			URL:         *item.URL,
			Source:      *item.Source,
			Categories:  strings.Split(*item.Categories, "|"),
		})
	}

	return articles, nil
}

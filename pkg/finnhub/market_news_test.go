package finnhub

import (
	"context"
	"errors"
	"testing"
	"time"

	finnhubapi "github.com/Finnhub-Stock-API/finnhub-go/v2"
	"github.com/go-playground/assert/v2"

	"github.com/developerfred/intentkit/pkg/ratelimit"
	"github.com/developerfred/intentkit/pkg/skill"
)

func strPtr(s string) *string { return &s }
func intPtr(n int64) *int64   { return &n }

func TestMapArticles(t *testing.T) {
	items := []finnhubapi.MarketNews{
		{
			Id:       intPtr(7381921),
			Headline: strPtr("Bitcoin climbs past key level"),
			Summary:  strPtr("BTC moved higher in early trading."),
			Url:      strPtr("https://example.com/btc"),
			Datetime: intPtr(1735819200),
			Source:   strPtr("CoinDesk"),
			Related:  strPtr("BTC,ETH"),
		},
	}

	articles := mapArticles(items)

	assert.Equal(t, 1, len(articles))

	a := articles[0]
	assert.Equal(t, "7381921", a.ID)
	assert.Equal(t, "Bitcoin climbs past key level", a.Headline)
	assert.Equal(t, "BTC moved higher in early trading.", a.Summary)
	assert.Equal(t, "https://example.com/btc", a.URL)
	assert.Equal(t, int64(1735819200), a.PublishedAt)
	assert.Equal(t, "CoinDesk", a.Source)
	assert.Equal(t, []string{"BTC", "ETH"}, a.Related)
}

func TestMapArticlesNilFields(t *testing.T) {
	items := []finnhubapi.MarketNews{{}}

	articles := mapArticles(items)

	assert.Equal(t, 1, len(articles))

	a := articles[0]
	assert.Equal(t, "", a.ID)
	assert.Equal(t, "", a.Headline)
	assert.Equal(t, int64(0), a.PublishedAt)
	assert.Equal(t, []string{}, a.Related)
}

func TestMapArticlesEmptyRelated(t *testing.T) {
	items := []finnhubapi.MarketNews{
		{
			Id:      intPtr(1),
			Related: strPtr(""),
		},
	}

	articles := mapArticles(items)

	assert.Equal(t, []string{}, articles[0].Related)
}

func TestMarketNewsRateLimited(t *testing.T) {
	store := ratelimit.NewMemoryStore()
	limiter := ratelimit.New(store, Category, 1, time.Minute)

	// Consume the allowance so Fetch short-circuits before any SDK call.
	limiter.Check(context.Background(), "agent-1")

	tool := NewMarketNews(limiter)
	sc := &skill.Context{AgentID: "agent-1", Config: map[string]string{"api_key": "k"}}

	out := tool.Fetch(context.Background(), sc, "crypto")

	assert.Equal(t, true, out.Failed())
	assert.Equal(t, ratelimit.ExceededMessage, out.Err)
	assert.Equal(t, 0, len(out.Articles))
}

func TestMarketNewsExecuteBadCategory(t *testing.T) {
	tool := NewMarketNews(ratelimit.New(ratelimit.NewMemoryStore(), Category, 0, time.Minute))

	_, err := tool.Execute(context.Background(), nil, map[string]any{"category": 7})

	if !errors.Is(err, skill.ErrInvalidArgs) {
		t.Fatalf("got %v, want ErrInvalidArgs", err)
	}
}

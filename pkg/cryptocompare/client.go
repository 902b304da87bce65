package cryptocompare

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const newsURL = "https://min-api.cryptocompare.com/data/v2/news/"

// Client calls the CryptoCompare REST API. API keys are supplied per call
// because each agent carries its own key.
type Client struct {
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewsResponse is the provider's envelope. Data stays raw so callers can
// tell a missing or null field apart from an empty list.
type NewsResponse struct {
	Message string          `json:"Message"`
	Data    json.RawMessage `json:"Data"`
}

// FetchNews returns news for a token as of the given Unix timestamp. The
// timestamp stays explicit in the contract even though the fetch-news skill
// always passes the current time.
func (c *Client) FetchNews(ctx context.Context, apiKey, token string, timestamp int64) (*NewsResponse, error) {
	url := fmt.Sprintf("%s?categories=%s&lTs=%d&lang=EN", newsURL, token, timestamp)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("cryptocompare request: %w", err)
	}
	if apiKey != "" {
		req.Header.Set("Authorization", "Apikey "+apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cryptocompare fetch: %w", err)
	}
	defer resp.Body.Close()

	var raw NewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("cryptocompare decode: %w", err)
	}

	return &raw, nil
}

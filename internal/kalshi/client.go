// Package kalshi is a minimal read-only client for the Kalshi trade API,
// used by the cross-venue price gap scan.
package kalshi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// APIError represents an error from the Kalshi API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("kalshi api error %d: %s", e.StatusCode, e.Message)
}

// Client provides access to the Kalshi REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Market represents a market from the Kalshi API. Prices are in cents.
type Market struct {
	Ticker      string `json:"ticker"`
	EventTicker string `json:"event_ticker"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Status      string `json:"status"`
	YesBid      int    `json:"yes_bid"`
	YesAsk      int    `json:"yes_ask"`
	NoBid       int    `json:"no_bid"`
	NoAsk       int    `json:"no_ask"`
	LastPrice   int    `json:"last_price"`
	Volume24h   int64  `json:"volume_24h"`
	CloseTime   string `json:"close_time"`
}

// MarketsResponse from GET /markets
type MarketsResponse struct {
	Markets []Market `json:"markets"`
	Cursor  string   `json:"cursor"`
}

// GetMarketsOptions configures a GetMarkets request.
type GetMarketsOptions struct {
	Limit  int
	Status string
	Cursor string
}

// GetMarkets fetches a single page of markets.
func (c *Client) GetMarkets(ctx context.Context, opts GetMarketsOptions) (*MarketsResponse, error) {
	query := url.Values{}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}

	var resp MarketsResponse
	if err := c.get(ctx, "/markets", query, &resp); err != nil {
		return nil, fmt.Errorf("get markets: %w", err)
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

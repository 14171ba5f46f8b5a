/**
 * @description
 * HTTP Client for the Polymarket Gamma API.
 * Fetches the active event feed page by page.
 *
 * @dependencies
 * - net/http
 * - backend/internal/config
 * - backend/internal/metrics
 *
 * @notes
 * - No retries: one failed page aborts the whole fetch. The cache coordinator
 *   decides whether to keep serving the previous snapshot.
 */

package gamma

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/polyintel-project/backend/internal/config"
	"github.com/polyintel-project/backend/internal/metrics"
)

const (
	DefaultTimeout  = 10 * time.Second
	DefaultPageSize = 100
)

// FetchError reports a page that could not be fetched or decoded
type FetchError struct {
	StatusCode int // 0 when the request never produced a response
	Offset     int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("gamma api error: status %d at offset %d", e.StatusCode, e.Offset)
	}
	return fmt.Sprintf("gamma api error at offset %d: %v", e.Offset, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Client struct {
	BaseURL    string
	PageSize   int
	HTTPClient *http.Client
	Metrics    *metrics.Metrics
}

func NewClient(cfg *config.Config, m *metrics.Metrics) *Client {
	timeout := cfg.Polymarket.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	pageSize := cfg.Polymarket.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &Client{
		BaseURL:  cfg.Polymarket.GammaURL,
		PageSize: pageSize,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		Metrics: m,
	}
}

// GetEventsParams holds query parameters for fetching events
type GetEventsParams struct {
	Limit     int
	Offset    int
	Active    *bool
	Closed    *bool
	Order     string // "volume", "liquidity", "createdAt"
	Ascending *bool
}

// GetEvents fetches a single page of events from Gamma
func (c *Client) GetEvents(ctx context.Context, params GetEventsParams) ([]GammaEvent, error) {
	events, _, err := c.getPage(ctx, params)
	return events, err
}

// getPage also returns the raw entry count, which drives pagination even when
// some entries were dropped while decoding.
func (c *Client) getPage(ctx context.Context, params GetEventsParams) ([]GammaEvent, int, error) {
	u, err := url.Parse(fmt.Sprintf("%s/events", c.BaseURL))
	if err != nil {
		return nil, 0, &FetchError{Offset: params.Offset, Err: err}
	}

	q := u.Query()
	if params.Active != nil {
		q.Set("active", strconv.FormatBool(*params.Active))
	}
	if params.Closed != nil {
		q.Set("closed", strconv.FormatBool(*params.Closed))
	}
	if params.Order != "" {
		q.Set("order", params.Order)
	}
	if params.Ascending != nil {
		q.Set("ascending", strconv.FormatBool(*params.Ascending))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	q.Set("offset", strconv.Itoa(params.Offset))

	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, &FetchError{Offset: params.Offset, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Metrics.RecordUpstreamPage("error")
		return nil, 0, &FetchError{Offset: params.Offset, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.Metrics.RecordUpstreamPage(strconv.Itoa(resp.StatusCode))
		return nil, 0, &FetchError{StatusCode: resp.StatusCode, Offset: params.Offset}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Metrics.RecordUpstreamPage("error")
		return nil, 0, &FetchError{Offset: params.Offset, Err: fmt.Errorf("read events: %w", err)}
	}

	events, skipped, err := DecodeEvents(body)
	if err != nil {
		c.Metrics.RecordUpstreamPage("decode_error")
		return nil, 0, &FetchError{Offset: params.Offset, Err: fmt.Errorf("decode events: %w", err)}
	}
	if skipped > 0 {
		c.Metrics.RecordUpstreamPage("partial")
	} else {
		c.Metrics.RecordUpstreamPage(strconv.Itoa(resp.StatusCode))
	}
	return events, len(events) + skipped, nil
}

// FetchAllEvents pages through every active, open event ordered by volume.
// It stops on an empty or short page; any failed page aborts the whole fetch.
func (c *Client) FetchAllEvents(ctx context.Context) ([]GammaEvent, error) {
	active := true
	closed := false
	ascending := false
	limit := c.PageSize
	if limit <= 0 {
		limit = DefaultPageSize
	}
	offset := 0

	var all []GammaEvent
	for {
		events, received, err := c.getPage(ctx, GetEventsParams{
			Limit:     limit,
			Offset:    offset,
			Active:    &active,
			Closed:    &closed,
			Order:     "volume",
			Ascending: &ascending,
		})
		if err != nil {
			return nil, err
		}

		if received == 0 {
			break
		}
		all = append(all, events...)

		if received < limit {
			break
		}
		offset += limit
	}

	return all, nil
}

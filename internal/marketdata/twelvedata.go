// Package marketdata fetches candle series from the TwelveData REST API and
// optionally layers a Redis-backed cache and credit limiter on top.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/asadbukhari/liqmatrix/internal/domain"
)

// DefaultBaseURL is the production TwelveData API root.
const DefaultBaseURL = "https://api.twelvedata.com"

// Client is the REST client for the TwelveData time-series API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a TwelveData client.
//
// baseURL is the API root, e.g. "https://api.twelvedata.com"; an empty
// string selects DefaultBaseURL.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Series fetches the last bars candles for symbol at the given interval and
// returns them oldest first with validated parsing. Volume defaults to 0
// when the exchange does not report it.
func (c *Client) Series(ctx context.Context, symbol string, interval domain.Interval, bars int) (domain.Series, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", string(interval))
	params.Set("outputsize", strconv.Itoa(bars))
	params.Set("format", "JSON")
	params.Set("apikey", c.apiKey)

	body, err := c.doGet(ctx, "/time_series?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("twelvedata: get %s %s series: %w", symbol, interval, err)
	}

	var resp timeSeriesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("twelvedata: decode %s series: %w", symbol, err)
	}
	// API errors come back as 200 with an error status payload.
	if resp.Status != "" && resp.Status != "ok" {
		return nil, fmt.Errorf("twelvedata: %s: api error %d: %s", symbol, resp.Code, resp.Message)
	}
	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("twelvedata: %s: %w", symbol, domain.ErrEmptyInput)
	}

	series, err := resp.toSeries()
	if err != nil {
		return nil, fmt.Errorf("twelvedata: %s series: %w", symbol, err)
	}
	return series, nil
}

// doGet performs a GET request against the API root and returns the raw body.
func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// Compile-time interface check.
var _ domain.CandleProvider = (*Client)(nil)

package eodapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the base URL for the EOD Historical Data API.
	DefaultBaseURL = "https://eodhistoricaldata.com/api"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit in requests per second.
	DefaultRateLimit = 10

	dateParamLayout = "20060102"
)

// Client is an EOD Historical Data API client.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
	logger     zerolog.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL. Used by tests to point the client at a
// local server.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a new EOD Historical Data API client.
func NewClient(apiToken string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger:  zerolog.Nop(),
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs a GET request against the API and decodes the JSON response
// into result. The api_token and fmt=json parameters are appended to every
// request.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &RateLimitError{RetryAfter: time.Second}
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiToken)
	params.Set("fmt", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().
		Str("endpoint", path).
		Msg("eod api request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// ExchangeList retrieves the list of available exchanges.
func (c *Client) ExchangeList(ctx context.Context) ([]Exchange, error) {
	var result []Exchange
	if err := c.get(ctx, "/exchanges-list", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ExchangeSymbols retrieves the symbol list for an exchange. The delisted
// flag selects between currently listed and delisted tickers; the returned
// rows carry the flag so the two lists can be merged.
func (c *Client) ExchangeSymbols(ctx context.Context, exchange string, delisted bool) ([]Symbol, error) {
	params := url.Values{}
	if delisted {
		params.Set("delisted", "1")
	} else {
		params.Set("delisted", "0")
	}

	var result []Symbol
	if err := c.get(ctx, "/exchange-symbol-list/"+exchange, params, &result); err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Delisted = delisted
	}
	return result, nil
}

// EOD retrieves end-of-day price data for a symbol in TICKER.EXCHANGE form.
// The period is the bar frequency (e.g. "1d").
func (c *Client) EOD(ctx context.Context, symbol, period string, from, to time.Time) ([]Candle, error) {
	params := url.Values{}
	params.Set("period", period)
	if !from.IsZero() {
		params.Set("from", from.Format(dateParamLayout))
	}
	if !to.IsZero() {
		params.Set("to", to.Format(dateParamLayout))
	}

	var result []Candle
	if err := c.get(ctx, "/eod/"+symbol, params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Intraday retrieves intraday bars for a symbol in TICKER.EXCHANGE form.
// The interval must be one of IntradayFrequencies; from and to become unix
// timestamps on the wire.
func (c *Client) Intraday(ctx context.Context, symbol, interval string, from, to time.Time) ([]IntradayBar, error) {
	params := url.Values{}
	params.Set("interval", interval)
	if !from.IsZero() {
		params.Set("from", strconv.FormatInt(from.Unix(), 10))
	}
	if !to.IsZero() {
		params.Set("to", strconv.FormatInt(to.Unix(), 10))
	}

	var result []IntradayBar
	if err := c.get(ctx, "/intraday/"+symbol, params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// MarketCap retrieves the historical market capitalization series for a
// symbol in TICKER.EXCHANGE form. The upstream response is an object keyed by
// row index; it is flattened to a date-ordered slice.
func (c *Client) MarketCap(ctx context.Context, symbol string) ([]MarketCapPoint, error) {
	var keyed map[string]MarketCapPoint
	if err := c.get(ctx, "/historical-market-cap/"+symbol, nil, &keyed); err != nil {
		return nil, err
	}

	result := make([]MarketCapPoint, 0, len(keyed))
	for _, point := range keyed {
		result = append(result, point)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}

// Fundamentals retrieves the fundamental data document for a symbol in
// TICKER.EXCHANGE form. The document is returned undecoded; callers that
// need typed access go through the fundamental package.
func (c *Client) Fundamentals(ctx context.Context, symbol string) (json.RawMessage, error) {
	var result json.RawMessage
	if err := c.get(ctx, "/fundamentals/"+symbol, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// FundamentalsBulk retrieves fundamentals for a window of an exchange's
// symbols. symbols optionally restricts the request to a comma-separated
// subset; limit and offset page through the exchange universe.
func (c *Client) FundamentalsBulk(ctx context.Context, exchange, symbols string, limit, offset int) (map[string]json.RawMessage, error) {
	params := url.Values{}
	if symbols != "" {
		params.Set("symbols", symbols)
	}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	var result map[string]json.RawMessage
	if err := c.get(ctx, "/bulk-fundamentals/"+exchange, params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Package hf reads evaluation rows from the HuggingFace datasets server.
package hf

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/DjordjeVuckovic/rag-insight/internal/apperr"
	"github.com/DjordjeVuckovic/rag-insight/internal/cache"
	"github.com/DjordjeVuckovic/rag-insight/internal/observability"
)

const (
	defaultHTTPTimeout = 60 * time.Second
	maxErrorBody       = 2048
)

type RowItem struct {
	Row            map[string]any `json:"row"`
	RowIdx         int            `json:"row_idx"`
	TruncatedCells []string       `json:"truncated_cells"`
}

type Feature struct {
	FeatureIdx int            `json:"feature_idx"`
	Name       string         `json:"name"`
	Type       map[string]any `json:"type"`
}

type RowsResponse struct {
	Rows           []RowItem `json:"rows"`
	Features       []Feature `json:"features"`
	NumRowsTotal   int       `json:"num_rows_total"`
	NumRowsPerPage int       `json:"num_rows_per_page"`
	Partial        bool      `json:"partial"`
}

type RowsRequest struct {
	Dataset string
	Config  string
	Split   string
	Offset  int
	Length  int
}

type ClientOption func(client *Client)

type Client struct {
	base     url.URL
	http     *http.Client
	limiter  *rate.Limiter
	cache    cache.Cache
	cacheTTL time.Duration
	token    string
	metrics  *observability.Metrics
}

func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing hf base url: %w", err)
	}

	client := &Client{
		base:     *base,
		http:     &http.Client{Timeout: defaultHTTPTimeout},
		cache:    cache.Noop{},
		cacheTTL: cache.DefaultTTL,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(client *Client) {
		client.http = httpClient
	}
}

// WithRateLimit throttles outbound requests. A non-positive rps disables it.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(client *Client) {
		if rps <= 0 {
			client.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		client.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithCache stores raw page bodies keyed by request URL.
func WithCache(c cache.Cache, ttl time.Duration) ClientOption {
	return func(client *Client) {
		client.cache = c
		client.cacheTTL = ttl
	}
}

func WithToken(token string) ClientOption {
	return func(client *Client) {
		client.token = token
	}
}

func WithMetrics(m *observability.Metrics) ClientOption {
	return func(client *Client) {
		client.metrics = m
	}
}

// ClampLength bounds a page length to what the server accepts.
func ClampLength(length int) int {
	if length < 1 {
		return 1
	}
	if length > MaxPageLength {
		return MaxPageLength
	}
	return length
}

func (c *Client) rowsURL(req RowsRequest) string {
	u := c.base.JoinPath("/rows")
	q := url.Values{}
	q.Set("dataset", req.Dataset)
	q.Set("config", req.Config)
	q.Set("split", req.Split)
	q.Set("offset", strconv.Itoa(req.Offset))
	q.Set("length", strconv.Itoa(ClampLength(req.Length)))
	u.RawQuery = q.Encode()
	return u.String()
}

// Rows fetches one page of the dataset.
func (c *Client) Rows(ctx context.Context, req RowsRequest) (*RowsResponse, error) {
	reqURL := c.rowsURL(req)

	if body, ok := c.cache.Get(ctx, reqURL); ok {
		var resp RowsResponse
		if err := json.Unmarshal(body, &resp); err == nil {
			c.metrics.RecordCacheLookup(true)
			return &resp, nil
		}
		slog.Warn("Discarding undecodable cached page", "url", reqURL)
	}
	c.metrics.RecordCacheLookup(false)

	body, err := c.do(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var resp RowsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperr.NewRemoteFetch(http.StatusOK, truncate(body), fmt.Errorf("decoding rows response: %w", err))
	}

	c.cache.Set(ctx, reqURL, body, c.cacheTTL)
	return &resp, nil
}

func (c *Client) do(ctx context.Context, reqURL string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			// Wait fails early when the next token is due after the deadline.
			if _, ok := ctx.Deadline(); ok && ctx.Err() == nil {
				err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
			}
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", "application/json")
	if c.token != "" {
		request.Header.Set("Authorization", "Bearer "+c.token)
	}

	slog.Debug("Fetching dataset page", "url", reqURL)

	resp, err := c.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", c.base.Host, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.NewRemoteFetch(resp.StatusCode, truncate(respBody), nil)
	}

	return respBody, nil
}

func truncate(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}

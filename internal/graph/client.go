// Package graph is the client for the LangGraph server behind the query
// console.
package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/DjordjeVuckovic/rag-insight/internal/apperr"
	"github.com/DjordjeVuckovic/rag-insight/internal/domain"
	"github.com/DjordjeVuckovic/rag-insight/internal/observability"
)

const (
	DefaultAssistantID = "gdelt"
	defaultTimeout     = 30 * time.Second
	healthTimeout      = 5 * time.Second
)

type Config struct {
	BaseURL     string        `envconfig:"GRAPH_API_URL" default:"http://localhost:2024"`
	AssistantID string        `envconfig:"GRAPH_ASSISTANT_ID" default:"gdelt"`
	Timeout     time.Duration `envconfig:"GRAPH_TIMEOUT" default:"30s"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing graph config: %w", err)
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("GRAPH_API_URL is required")
	}
	return &cfg, nil
}

type Thread struct {
	ThreadID  string         `json:"thread_id"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
	Metadata  map[string]any `json:"metadata"`
	Status    string         `json:"status"`
	Config    map[string]any `json:"config"`
	Values    any            `json:"values"`
}

type createThreadRequest struct {
	Metadata map[string]any `json:"metadata,omitempty"`
}

type RunInput struct {
	Question string `json:"question"`
}

type RunRequest struct {
	AssistantID string   `json:"assistant_id"`
	Input       RunInput `json:"input"`
}

// RunResponse is the final graph state.
type RunResponse struct {
	Question string            `json:"question"`
	Context  []domain.Document `json:"context"`
	Response string            `json:"response"`
}

type ClientOption func(client *Client)

type Client struct {
	base        url.URL
	http        *http.Client
	assistantID string
	timeout     time.Duration
	metrics     *observability.Metrics
}

func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing graph base url: %w", err)
	}

	client := &Client{
		base:        *base,
		http:        &http.Client{},
		assistantID: DefaultAssistantID,
		timeout:     defaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

func NewClientFromConfig(cfg Config, opts ...ClientOption) (*Client, error) {
	opts = append([]ClientOption{WithAssistantID(cfg.AssistantID), WithTimeout(cfg.Timeout)}, opts...)
	return NewClient(cfg.BaseURL, opts...)
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(client *Client) {
		client.http = httpClient
	}
}

func WithAssistantID(id string) ClientOption {
	return func(client *Client) {
		if id != "" {
			client.assistantID = id
		}
	}
}

// WithTimeout sets the default run timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(client *Client) {
		if d > 0 {
			client.timeout = d
		}
	}
}

func WithMetrics(m *observability.Metrics) ClientOption {
	return func(client *Client) {
		client.metrics = m
	}
}

func (c *Client) CreateThread(ctx context.Context, metadata map[string]any) (*Thread, error) {
	var thread Thread
	if err := c.do(ctx, "create thread", http.MethodPost, "/threads", c.timeout, createThreadRequest{Metadata: metadata}, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

// InvokeGraph runs the assistant on a thread and waits for the final state.
// A non-positive timeout uses the client default.
func (c *Client) InvokeGraph(ctx context.Context, threadID, question string, timeout time.Duration) (*RunResponse, error) {
	if timeout <= 0 {
		timeout = c.timeout
	}

	req := RunRequest{
		AssistantID: c.assistantID,
		Input:       RunInput{Question: question},
	}

	var resp RunResponse
	path := "/threads/" + url.PathEscape(threadID) + "/runs/wait"
	if err := c.do(ctx, "invoke graph", http.MethodPost, path, timeout, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Health(ctx context.Context) (bool, error) {
	var resp struct {
		OK bool `json:"ok"`
	}
	if err := c.do(ctx, "health check", http.MethodGet, "/ok", healthTimeout, nil, &resp); err != nil {
		return false, err
	}
	return resp.OK, nil
}

// Healthy adapts Health to the server health checker interface.
func (c *Client) Healthy(ctx context.Context) bool {
	ok, err := c.Health(ctx)
	return err == nil && ok
}

func (c *Client) do(ctx context.Context, op, method, path string, timeout time.Duration, reqData, respData any) error {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if reqData != nil {
		reqDataBytes, err := json.Marshal(reqData)
		if err != nil {
			return err
		}
		body = bytes.NewReader(reqDataBytes)
	}

	reqURL := c.base.JoinPath(path)
	request, err := http.NewRequestWithContext(tctx, method, reqURL.String(), body)
	if err != nil {
		return err
	}
	if reqData != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(request)
	if err != nil {
		return c.transportError(ctx, tctx, op, timeout, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.transportError(ctx, tctx, op, timeout, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.RecordGraphRequest("api_error")
		return newAPIError(resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, respData); err != nil {
		c.metrics.RecordGraphRequest("api_error")
		return &APIError{Status: resp.StatusCode, Message: "invalid JSON response from server"}
	}

	c.metrics.RecordGraphRequest("ok")
	return nil
}

func (c *Client) transportError(parent, tctx context.Context, op string, timeout time.Duration, err error) error {
	c.metrics.RecordGraphRequest("transport_error")

	if parent.Err() == nil && errors.Is(tctx.Err(), context.DeadlineExceeded) {
		slog.Warn("Graph request timed out", "op", op, "timeout", timeout)
		return &TransportError{Op: op, Timeout: true, Err: apperr.NewTimeout(op, timeout, err)}
	}
	return &TransportError{Op: op, Err: err}
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		Status:  status,
		Message: fmt.Sprintf("API request failed: %d %s", status, http.StatusText(status)),
	}

	var details map[string]any
	if err := json.Unmarshal(body, &details); err != nil {
		return apiErr
	}
	apiErr.Details = details
	if msg, ok := details["message"].(string); ok && msg != "" {
		apiErr.Message = msg
	}
	if code, ok := details["code"].(string); ok {
		apiErr.Code = code
	}
	return apiErr
}

// Package rest is the typed JSON-over-HTTP transport shared by all API calls.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"clob_go/internal/domain"
	"clob_go/internal/infra"
)

// Client sends JSON requests to baseURL+path over a pooled connection set.
// A Client holds no per-call state and is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	metrics    *infra.Metrics
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the pooled http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout sets a whole-request timeout. Zero leaves the client without one.
// The current http.Client is copied, so a shared client passed through
// WithHTTPClient keeps its own timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithMetrics records request counters into m instead of infra.GlobalMetrics.
func WithMetrics(m *infra.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a transport for baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: infra.DefaultUserAgent,
		metrics:   infra.GlobalMetrics,
		logger:    slog.Default().With("module", "rest_client"),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the URL every path is appended to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get sends GET baseURL+path and decodes the JSON answer into T.
func Get[T any](ctx context.Context, c *Client, path string, headers domain.Headers) (T, error) {
	return call[T](ctx, c, http.MethodGet, path, nil, headers)
}

// Post sends body as JSON with POST and decodes the answer into T.
func Post[T any](ctx context.Context, c *Client, path string, body any, headers domain.Headers) (T, error) {
	return call[T](ctx, c, http.MethodPost, path, body, headers)
}

// Delete sends DELETE without a body and decodes the answer into T.
func Delete[T any](ctx context.Context, c *Client, path string, headers domain.Headers) (T, error) {
	return call[T](ctx, c, http.MethodDelete, path, nil, headers)
}

// DeleteWithBody sends body as JSON with DELETE and decodes the answer into T.
func DeleteWithBody[T any](ctx context.Context, c *Client, path string, body any, headers domain.Headers) (T, error) {
	return call[T](ctx, c, http.MethodDelete, path, body, headers)
}

func call[T any](ctx context.Context, c *Client, method, path string, body any, headers domain.Headers) (T, error) {
	var out T
	if err := c.Do(ctx, method, path, body, headers, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Do performs one request. A nil body sends no body; a nil out discards a
// successful response. Errors are *domain.TransportError or *domain.APIError.
func (c *Client) Do(ctx context.Context, method, path string, body any, headers domain.Headers, out any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			return c.transportErr(domain.OpEncode, err)
		}
		bodyReader = bytes.NewReader(jsonBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return c.transportErr(domain.OpRequest, err)
	}
	c.applyHeaders(req, headers)

	c.metrics.RequestStarted()
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.RequestFinished()
	if err != nil {
		return c.transportErr(domain.OpSend, err)
	}
	defer resp.Body.Close()

	latency := time.Since(start)
	c.metrics.RecordRequest(latency.Nanoseconds())
	c.logger.Debug("request completed",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", latency),
	)

	return c.handleResponse(resp, out)
}

// applyHeaders sets the defaults first, then the caller's headers, so a
// caller header replaces a same-named default.
func (c *Client) applyHeaders(req *http.Request, headers domain.Headers) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}
}

func (c *Client) handleResponse(resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The error body is kept verbatim, even when it is JSON.
		message := domain.UnknownErrorMessage
		if bodyBytes, err := io.ReadAll(resp.Body); err == nil {
			message = string(bodyBytes)
		}
		c.metrics.RecordAPIError()
		return &domain.APIError{Status: resp.StatusCode, Message: message}
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.transportErr(domain.OpSend, err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return c.transportErr(domain.OpDecode, err)
	}
	return nil
}

func (c *Client) transportErr(op string, err error) error {
	c.metrics.RecordTransportError()
	c.logger.Warn("transport failure", slog.String("op", op), slog.Any("error", err))
	return domain.NewTransportError(op, err)
}

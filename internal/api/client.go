package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// RequestIDHeader carries the per-attempt request identifier.
const RequestIDHeader = "X-Request-ID"

// Config holds the settings used to build a Client.
type Config struct {
	// BaseURL is the API root; request paths are joined below it.
	BaseURL string
	// Headers are sent on every request.
	Headers http.Header
	// Timeout is the overall deadline of one attempt.
	Timeout time.Duration
	// OpenTimeout is the connection-establishment deadline.
	OpenTimeout time.Duration
	// Retry is the retry policy.
	Retry RetryPolicy
	// HTTPClient replaces the client built from Timeout and OpenTimeout.
	HTTPClient *http.Client
	// Logger receives attempt and retry events. Defaults to a null logger.
	Logger hclog.Logger
	// Metrics, when set, records every attempt and retry.
	Metrics *Metrics
}

// Client is the HTTP API client.
type Client struct {
	baseURL      *url.URL
	headers      http.Header
	retry        RetryPolicy
	httpClient   *http.Client
	streamClient *http.Client
	logger       hclog.Logger
	metrics      *Metrics
}

// Request describes one API call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is sent as-is; nil means no body.
	Body []byte
}

// RawResponse is a fully read HTTP response.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// RequestID is the identifier sent with the final attempt.
	RequestID string
	Attempts  int
}

// NewClient creates a new API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", cfg.BaseURL)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if cfg.OpenTimeout > 0 {
			transport.DialContext = (&net.Dialer{
				Timeout:   cfg.OpenTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext
			transport.TLSHandshakeTimeout = cfg.OpenTimeout
		}
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		}
	}

	// Streams stay open far longer than a single request deadline.
	streamClient := &http.Client{
		Transport:     httpClient.Transport,
		CheckRedirect: httpClient.CheckRedirect,
		Jar:           httpClient.Jar,
	}

	return &Client{
		baseURL:      base,
		headers:      cfg.Headers.Clone(),
		retry:        cfg.Retry,
		httpClient:   httpClient,
		streamClient: streamClient,
		logger:       logger,
		metrics:      cfg.Metrics,
	}, nil
}

// URL returns the absolute URL for path and query.
func (c *Client) URL(path string, query url.Values) string {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// Do executes req, retrying according to the client's policy. Non-2xx
// statuses are not errors at this layer: the last response received is
// returned once it is either non-retryable or retries are exhausted.
func (c *Client) Do(ctx context.Context, req Request) (*RawResponse, error) {
	target := c.URL(req.Path, req.Query)
	sched := c.retry.newSchedule()
	attempt := 0

	operation := func() (*RawResponse, error) {
		attempt++
		resp, err := c.roundTrip(ctx, req, target, attempt)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		if c.retry.RetryableStatus(resp.StatusCode) {
			if seconds, ok := ParseRetryAfter(resp.Header); ok {
				sched.retryAfter = time.Duration(seconds) * time.Second
			}
			return resp, &retryableStatusError{statusCode: resp.StatusCode}
		}
		return resp, nil
	}

	notify := func(err error, wait time.Duration) {
		c.metrics.retry(req.Method)
		c.logger.Warn("retrying request",
			"method", req.Method,
			"path", req.Path,
			"attempt", attempt,
			"reason", err.Error(),
			"wait", wait)
	}

	policy := backoff.WithMaxRetries(sched, uint64(max(c.retry.MaxRetries, 0)))

	resp, err := backoff.RetryNotifyWithData(operation, backoff.WithContext(policy, ctx), notify)
	if err == nil {
		return resp, nil
	}

	var statusErr *retryableStatusError
	if errors.As(err, &statusErr) && resp != nil {
		return resp, nil
	}
	var netErr *NetworkError
	var timeoutErr *TimeoutError
	if errors.As(err, &netErr) || errors.As(err, &timeoutErr) {
		return nil, err
	}
	if ctx.Err() != nil {
		// Cancelled or expired while waiting between attempts.
		return nil, classifyTransportError(err, target, attempt)
	}
	return nil, err
}

func (c *Client) roundTrip(ctx context.Context, req Request, target string, attempt int) (*RawResponse, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	requestID := c.setHeaders(httpReq)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.observe(req.Method, 0, time.Since(start))
		c.logger.Debug("request failed",
			"method", req.Method,
			"path", req.Path,
			"request_id", requestID,
			"attempt", attempt,
			"error", err)
		return nil, classifyTransportError(err, target, attempt)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err, target, attempt)
	}

	c.metrics.observe(req.Method, resp.StatusCode, time.Since(start))
	c.logger.Debug("request completed",
		"method", req.Method,
		"path", req.Path,
		"request_id", requestID,
		"attempt", attempt,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	return &RawResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
		RequestID:  requestID,
		Attempts:   attempt,
	}, nil
}

// OpenStream opens a long-lived GET for a Server-Sent Events endpoint. It
// does not retry and applies no overall deadline; the caller owns the
// returned response body.
func (c *Client) OpenStream(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	target := c.URL(path, query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	requestID := c.setHeaders(req)
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err, target, 1)
	}
	c.logger.Debug("stream opened", "path", path, "request_id", requestID, "status", resp.StatusCode)
	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) string {
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	return requestID
}

package mailhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mailhook/mailhook-go/internal/api"
)

// Authentication headers sent when the configuration has credentials.
const (
	HeaderAgentID = "X-Agent-ID"
	HeaderAPIKey  = "X-API-Key"
)

// Params holds request parameters. GET and DELETE send them as the query
// string, other verbs as a JSON body. Nil values are dropped; when nothing
// remains neither a query string nor a body is sent.
type Params map[string]any

// compact returns p without nil entries.
func (p Params) compact() Params {
	out := make(Params, len(p))
	for k, v := range p {
		if v == nil {
			continue
		}
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			continue
		}
		out[k] = v
	}
	return out
}

// Connection executes authenticated requests against the API and turns
// the results into a *Response or an *Error. It is safe for concurrent use.
type Connection struct {
	config     Config
	httpClient *http.Client
	logger     hclog.Logger
	registerer prometheus.Registerer

	once      sync.Once
	transport *api.Client
	initErr   error
}

func newConnection(cfg Config, opts *clientConfig) *Connection {
	logger := opts.logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Connection{
		config:     cfg,
		httpClient: opts.httpClient,
		logger:     logger,
		registerer: opts.registerer,
	}
}

// Config returns a copy of the configuration used by the connection.
func (c *Connection) Config() Config {
	return c.config.Clone()
}

// client builds the transport on first use. A configuration that cannot
// be used is reported on every call.
func (c *Connection) client() (*api.Client, error) {
	c.once.Do(func() {
		if err := c.config.Validate(); err != nil {
			c.initErr = newConfigError(err)
			return
		}

		headers := http.Header{}
		headers.Set("Content-Type", "application/json")
		headers.Set("Accept", "application/json")
		headers.Set("User-Agent", userAgent)
		if c.config.HasCredentials() {
			headers.Set(HeaderAgentID, c.config.AgentID)
			headers.Set(HeaderAPIKey, c.config.APIKey)
		} else {
			c.logger.Debug("no credentials configured, sending unauthenticated requests")
		}

		retry := api.DefaultRetryPolicy()
		retry.MaxRetries = c.config.MaxRetries
		retry.RetryStatuses = slices.Clone(c.config.RetryStatuses)

		var metrics *api.Metrics
		if c.registerer != nil {
			m, err := api.NewMetrics(c.registerer)
			if err != nil {
				c.initErr = newConfigError(err)
				return
			}
			metrics = m
		}

		transport, err := api.NewClient(api.Config{
			BaseURL:     c.config.BaseURL,
			Headers:     headers,
			Timeout:     c.config.Timeout,
			OpenTimeout: c.config.OpenTimeout,
			Retry:       retry,
			HTTPClient:  c.httpClient,
			Logger:      c.logger,
			Metrics:     metrics,
		})
		if err != nil {
			c.initErr = newConfigError(err)
			return
		}
		c.transport = transport
	})
	return c.transport, c.initErr
}

// Request sends one request and blocks until it succeeds, fails, or
// exhausts its retries. Any non-2xx status is returned as an *Error.
func (c *Connection) Request(ctx context.Context, method, path string, params Params) (*Response, error) {
	transport, err := c.client()
	if err != nil {
		return nil, err
	}

	method = strings.ToUpper(method)
	params = params.compact()
	req := api.Request{Method: method, Path: path}

	switch method {
	case http.MethodGet, http.MethodDelete:
		if len(params) > 0 {
			req.Query = encodeQuery(params)
		}
	case http.MethodPost, http.MethodPatch, http.MethodPut:
		if len(params) > 0 {
			body, err := json.Marshal(params)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal request body: %w", err)
			}
			req.Body = body
		}
	default:
		return nil, fmt.Errorf("unsupported method %q", method)
	}

	raw, err := transport.Do(ctx, req)
	if err != nil {
		return nil, newTransportError(err)
	}
	if raw.StatusCode < 200 || raw.StatusCode > 299 {
		return nil, newResponseError(raw)
	}

	return newResponse(raw.StatusCode, raw.Header, parseBody(raw.Body)), nil
}

// Get sends a GET request.
func (c *Connection) Get(ctx context.Context, path string, params Params) (*Response, error) {
	return c.Request(ctx, http.MethodGet, path, params)
}

// Post sends a POST request.
func (c *Connection) Post(ctx context.Context, path string, params Params) (*Response, error) {
	return c.Request(ctx, http.MethodPost, path, params)
}

// Patch sends a PATCH request.
func (c *Connection) Patch(ctx context.Context, path string, params Params) (*Response, error) {
	return c.Request(ctx, http.MethodPatch, path, params)
}

// Put sends a PUT request.
func (c *Connection) Put(ctx context.Context, path string, params Params) (*Response, error) {
	return c.Request(ctx, http.MethodPut, path, params)
}

// Delete sends a DELETE request.
func (c *Connection) Delete(ctx context.Context, path string, params Params) (*Response, error) {
	return c.Request(ctx, http.MethodDelete, path, params)
}

// Stream opens a Server-Sent Events endpoint and returns the raw event
// stream. It is not retried and has no overall deadline, so cancel ctx to
// close it. A non-2xx status is returned as an *Error.
func (c *Connection) Stream(ctx context.Context, path string, params Params) (io.ReadCloser, error) {
	transport, err := c.client()
	if err != nil {
		return nil, err
	}

	var query url.Values
	if params = params.compact(); len(params) > 0 {
		query = encodeQuery(params)
	}

	resp, err := transport.OpenStream(ctx, path, query)
	if err != nil {
		return nil, newTransportError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return nil, newResponseError(&api.RawResponse{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       body,
			RequestID:  resp.Request.Header.Get(api.RequestIDHeader),
		})
	}
	return resp.Body, nil
}

// encodeQuery flattens params into query values. Slices use the
// "key[]=a&key[]=b" form.
func encodeQuery(params Params) url.Values {
	query := url.Values{}
	for key, value := range params {
		rv := reflect.ValueOf(value)
		for rv.Kind() == reflect.Pointer && !rv.IsNil() {
			rv = rv.Elem()
		}
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			for i := range rv.Len() {
				query.Add(key+"[]", fmt.Sprint(rv.Index(i).Interface()))
			}
			continue
		}
		query.Set(key, fmt.Sprint(rv.Interface()))
	}
	return query
}

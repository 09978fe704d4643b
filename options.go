package mailhook

import (
	"net/http"
	"slices"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
)

// clientConfig collects the options passed to New. Pointer fields are nil
// when the option was not supplied, so an explicit empty value can be told
// apart from an absent one.
type clientConfig struct {
	base *Config

	agentID       *string
	apiKey        *string
	baseURL       *string
	timeout       *time.Duration
	openTimeout   *time.Duration
	maxRetries    *int
	retryStatuses []int

	httpClient *http.Client
	logger     hclog.Logger
	registerer prometheus.Registerer
}

// Option configures the client.
type Option func(*clientConfig)

// WithConfig uses cfg instead of the process-wide configuration as the
// fallback for settings not given explicitly.
func WithConfig(cfg Config) Option {
	return func(c *clientConfig) {
		clone := cfg.Clone()
		c.base = &clone
	}
}

// WithAgentID sets the agent ID sent in the X-Agent-ID header.
func WithAgentID(agentID string) Option {
	return func(c *clientConfig) {
		c.agentID = &agentID
	}
}

// WithAPIKey sets the API key sent in the X-API-Key header.
func WithAPIKey(apiKey string) Option {
	return func(c *clientConfig) {
		c.apiKey = &apiKey
	}
}

// WithCredentials sets both the agent ID and the API key.
func WithCredentials(agentID, apiKey string) Option {
	return func(c *clientConfig) {
		c.agentID = &agentID
		c.apiKey = &apiKey
	}
}

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = &url
	}
}

// WithTimeout sets the overall deadline of one request attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = &timeout
	}
}

// WithOpenTimeout sets the connection-establishment deadline.
func WithOpenTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.openTimeout = &timeout
	}
}

// WithMaxRetries sets the number of retries for retryable failures.
func WithMaxRetries(count int) Option {
	return func(c *clientConfig) {
		c.maxRetries = &count
	}
}

// WithRetryStatuses sets the HTTP status codes that trigger a retry.
// Default: [429, 500, 502, 503, 504]
func WithRetryStatuses(statusCodes ...int) Option {
	return func(c *clientConfig) {
		c.retryStatuses = slices.Clone(statusCodes)
		if c.retryStatuses == nil {
			c.retryStatuses = []int{}
		}
	}
}

// WithHTTPClient sets a custom HTTP client. Its own timeouts replace
// Timeout and OpenTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithLogger sets the logger used for request and retry events.
func WithLogger(logger hclog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithMetrics registers request metrics with reg: attempts by method and
// status, attempt duration, and scheduled retries. Clients sharing a
// registry share the collectors.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *clientConfig) {
		c.registerer = reg
	}
}

// resolve merges the explicit options over the base configuration.
func (c *clientConfig) resolve() Config {
	var cfg Config
	if c.base != nil {
		cfg = c.base.Clone()
	} else {
		cfg = GlobalConfig()
	}

	if c.agentID != nil {
		cfg.AgentID = *c.agentID
	}
	if c.apiKey != nil {
		cfg.APIKey = *c.apiKey
	}
	if c.baseURL != nil {
		cfg.BaseURL = *c.baseURL
	}
	if c.timeout != nil {
		cfg.Timeout = *c.timeout
	}
	if c.openTimeout != nil {
		cfg.OpenTimeout = *c.openTimeout
	}
	if c.maxRetries != nil {
		cfg.MaxRetries = *c.maxRetries
	}
	if c.retryStatuses != nil {
		cfg.RetryStatuses = slices.Clone(c.retryStatuses)
	}
	return cfg
}

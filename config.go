package mailhook

import (
	"os"
	"slices"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/mailhook/mailhook-go/internal/api"
)

// Configuration defaults.
const (
	DefaultBaseURL     = "https://app.mailhook.co/api/v1"
	DefaultTimeout     = 30 * time.Second
	DefaultOpenTimeout = 10 * time.Second
	DefaultMaxRetries  = api.DefaultMaxRetries
)

// DefaultRetryStatuses returns the HTTP statuses retried by default.
func DefaultRetryStatuses() []int {
	return slices.Clone(api.DefaultRetryStatuses)
}

// Environment variables read by ConfigFromEnv.
const (
	EnvAgentID = "MAILHOOK_AGENT_ID"
	EnvAPIKey  = "MAILHOOK_API_KEY"
	EnvBaseURL = "MAILHOOK_BASE_URL"
)

// Config holds connection parameters for the Mailhook API.
//
// Fields are not validated when set. Invalid values surface as a
// configuration error the first time a request is made.
type Config struct {
	// AgentID and APIKey authenticate the agent. Both must be set for the
	// authentication headers to be sent.
	AgentID string
	APIKey  string

	// BaseURL is the API root. Default: https://app.mailhook.co/api/v1
	BaseURL string

	// Timeout is the overall deadline of one request attempt. Default: 30s
	Timeout time.Duration

	// OpenTimeout is the connection-establishment deadline. Default: 10s
	OpenTimeout time.Duration

	// MaxRetries is the number of additional attempts for retryable
	// failures. Default: 2
	MaxRetries int

	// RetryStatuses lists the response statuses that are retried.
	// Default: [429, 500, 502, 503, 504]
	RetryStatuses []int
}

// NewConfig returns a Config populated with defaults and no credentials.
func NewConfig() *Config {
	c := &Config{}
	c.Reset()
	return c
}

// Reset restores every field to its default, clearing credentials.
func (c *Config) Reset() {
	*c = Config{
		BaseURL:       DefaultBaseURL,
		Timeout:       DefaultTimeout,
		OpenTimeout:   DefaultOpenTimeout,
		MaxRetries:    DefaultMaxRetries,
		RetryStatuses: DefaultRetryStatuses(),
	}
}

// HasCredentials reports whether both the agent ID and API key are set.
func (c Config) HasCredentials() bool {
	return c.AgentID != "" && c.APIKey != ""
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	c.RetryStatuses = slices.Clone(c.RetryStatuses)
	return c
}

// Validate checks that the configuration can be used to build a
// connection.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required, is.RequestURL),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.OpenTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.MaxRetries, validation.Min(0)),
		validation.Field(&c.RetryStatuses, validation.Each(validation.Min(100), validation.Max(599))),
	)
}

// ConfigFromEnv returns the default configuration overlaid with the
// MAILHOOK_AGENT_ID, MAILHOOK_API_KEY and MAILHOOK_BASE_URL environment
// variables. Unset variables keep their defaults.
func ConfigFromEnv() Config {
	c := NewConfig()
	if v := os.Getenv(EnvAgentID); v != "" {
		c.AgentID = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	return *c
}

var (
	globalMu     sync.Mutex
	globalConfig *Config
)

// global returns the process-wide configuration, creating it on first use.
// Callers must hold globalMu.
func global() *Config {
	if globalConfig == nil {
		globalConfig = NewConfig()
	}
	return globalConfig
}

// Configure applies fn to the process-wide configuration and returns a
// copy of the result. Clients created afterwards use the new values as
// their defaults; existing clients are unaffected.
//
//	mailhook.Configure(func(c *mailhook.Config) {
//	    c.AgentID = os.Getenv("MAILHOOK_AGENT_ID")
//	    c.APIKey = os.Getenv("MAILHOOK_API_KEY")
//	})
func Configure(fn func(*Config)) Config {
	globalMu.Lock()
	defer globalMu.Unlock()

	fn(global())
	return global().Clone()
}

// GlobalConfig returns a copy of the process-wide configuration.
func GlobalConfig() Config {
	globalMu.Lock()
	defer globalMu.Unlock()

	return global().Clone()
}

// SetGlobalConfig replaces the process-wide configuration.
func SetGlobalConfig(cfg Config) {
	globalMu.Lock()
	defer globalMu.Unlock()

	c := cfg.Clone()
	globalConfig = &c
}

// ResetConfiguration restores the process-wide configuration to defaults.
func ResetConfiguration() {
	globalMu.Lock()
	defer globalMu.Unlock()

	globalConfig = NewConfig()
}

package api

import (
	"math"
	"math/rand"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Retry defaults.
const (
	DefaultMaxRetries    = 2
	DefaultInterval      = 500 * time.Millisecond
	DefaultBackoffFactor = 2.0
	DefaultRandomness    = 0.5
	DefaultMaxInterval   = 30 * time.Second
)

// DefaultRetryStatuses are the HTTP statuses retried when no list is given.
var DefaultRetryStatuses = []int{429, 500, 502, 503, 504}

// RetryPolicy configures retry behavior for failed HTTP requests.
type RetryPolicy struct {
	// MaxRetries is the number of additional attempts after the first one.
	MaxRetries int
	// Interval is the wait before the first retry.
	Interval time.Duration
	// BackoffFactor multiplies the interval after each retry.
	BackoffFactor float64
	// Randomness is the fraction of the interval (0.0 to 1.0) that may be
	// added on top of it as jitter.
	Randomness float64
	// MaxInterval caps the computed interval and any Retry-After value.
	MaxInterval time.Duration
	// RetryStatuses lists the response statuses that trigger a retry.
	RetryStatuses []int
}

// DefaultRetryPolicy returns the default retry policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:    DefaultMaxRetries,
		Interval:      DefaultInterval,
		BackoffFactor: DefaultBackoffFactor,
		Randomness:    DefaultRandomness,
		MaxInterval:   DefaultMaxInterval,
		RetryStatuses: slices.Clone(DefaultRetryStatuses),
	}
}

// RetryableStatus reports whether a response with the given status should
// be retried.
func (p RetryPolicy) RetryableStatus(statusCode int) bool {
	return slices.Contains(p.RetryStatuses, statusCode)
}

// Delay returns the interval before retry number attempt (zero-based),
// without jitter.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	factor := p.BackoffFactor
	if factor <= 0 {
		factor = 1
	}
	delay := float64(p.Interval) * math.Pow(factor, float64(attempt))
	if p.MaxInterval > 0 && delay > float64(p.MaxInterval) {
		delay = float64(p.MaxInterval)
	}
	return time.Duration(delay)
}

// jitter adds up to Randomness*d on top of d.
func (p RetryPolicy) jitter(d time.Duration, random func() float64) time.Duration {
	if p.Randomness <= 0 {
		return d
	}
	return d + time.Duration(random()*p.Randomness*float64(d))
}

// schedule is the per-request backoff state. It implements backoff.BackOff
// so the retry loop can be driven by backoff.RetryNotifyWithData.
type schedule struct {
	policy     RetryPolicy
	attempt    int
	retryAfter time.Duration
	random     func() float64
}

var _ backoff.BackOff = (*schedule)(nil)

func (p RetryPolicy) newSchedule() *schedule {
	return &schedule{policy: p, random: rand.Float64}
}

// NextBackOff returns the wait before the next attempt. A pending
// Retry-After hint takes precedence over the exponential interval.
func (s *schedule) NextBackOff() time.Duration {
	defer func() { s.attempt++ }()

	if s.retryAfter > 0 {
		d := s.retryAfter
		s.retryAfter = 0
		if s.policy.MaxInterval > 0 && d > s.policy.MaxInterval {
			d = s.policy.MaxInterval
		}
		return d
	}
	return s.policy.jitter(s.policy.Delay(s.attempt), s.random)
}

// Reset restarts the schedule from the first interval.
func (s *schedule) Reset() {
	s.attempt = 0
	s.retryAfter = 0
}

// ParseRetryAfter reads the Retry-After header as whole seconds. Header
// lookup is case-insensitive. ok is false when the header is missing or
// not an integer.
func ParseRetryAfter(h http.Header) (seconds int, ok bool) {
	value := strings.TrimSpace(h.Get("Retry-After"))
	if value == "" {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}

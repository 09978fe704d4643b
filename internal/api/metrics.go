package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsNamespace prefixes every collector registered by NewMetrics.
const MetricsNamespace = "mailhook"

// statusError labels attempts that produced no HTTP response.
const statusError = "error"

// Metrics records transport activity in Prometheus collectors. A nil
// *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	retries  *prometheus.CounterVec
}

// NewMetrics creates the transport collectors and registers them with reg.
// Collectors already registered by another client on the same registry are
// shared.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	requests, err := register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Total number of request attempts, by method and response status",
		},
		[]string{"method", "status_code"},
	))
	if err != nil {
		return nil, err
	}

	duration, err := register(reg, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Duration of request attempts in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	))
	if err != nil {
		return nil, err
	}

	retries, err := register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "client",
			Name:      "retries_total",
			Help:      "Total number of scheduled retries, by method",
		},
		[]string{"method"},
	))
	if err != nil {
		return nil, err
	}

	return &Metrics{requests: requests, duration: duration, retries: retries}, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var exists prometheus.AlreadyRegisteredError
		if errors.As(err, &exists) {
			if existing, ok := exists.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// observe records one attempt. status is 0 when no response was received.
func (m *Metrics) observe(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := statusError
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(method, code).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) retry(method string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(method).Inc()
}

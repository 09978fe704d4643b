// Package api provides the HTTP transport used by the Mailhook client. It
// handles request construction, authentication headers, timeouts and
// automatic retry with exponential backoff for transient failures.
//
// # Retry Behavior
//
// Failed attempts are retried up to [RetryPolicy.MaxRetries] times when the
// response status is one of [RetryPolicy.RetryStatuses] or when the attempt
// fails at the transport level (connection refused, reset, timeout). By
// default these statuses are retried:
//
//   - 429 Too Many Requests
//   - 500 Internal Server Error
//   - 502 Bad Gateway
//   - 503 Service Unavailable
//   - 504 Gateway Timeout
//
// The wait starts at 0.5s and doubles with each attempt (0.5s, 1s, 2s, ...).
// Up to 50% of the interval is added as random jitter. A Retry-After header
// on a retryable response replaces the computed interval.
//
// Every verb is retried, including POST and PATCH. Callers that need
// exactly-once semantics must make their endpoint idempotent.
//
// # Errors
//
// [Client.Do] never classifies HTTP statuses: once retries are exhausted the
// final response is returned as-is. Transport failures surface as
// [*NetworkError] or [*TimeoutError].
//
// # Metrics
//
// When [Config.Metrics] is set every attempt is counted by method and status
// and timed, and every scheduled retry is counted. See [NewMetrics].
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use. Multiple goroutines may call
// methods on a single Client simultaneously.
package api

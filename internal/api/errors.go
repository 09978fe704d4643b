package api

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// NetworkError represents a failure to reach the API or to complete an
// exchange with it (refused or reset connections, DNS failures, caller
// cancellation).
type NetworkError struct {
	Err     error
	URL     string
	Attempt int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// TimeoutError represents an attempt that exceeded the request or connect
// deadline.
type TimeoutError struct {
	Err     error
	URL     string
	Attempt int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// classifyTransportError sorts an error returned by http.Client.Do (or by
// reading the body) into a timeout or a network failure.
func classifyTransportError(err error, url string, attempt int) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &TimeoutError{Err: err, URL: url, Attempt: attempt}
	}
	return &NetworkError{Err: err, URL: url, Attempt: attempt}
}

// retryableStatusError marks a response whose status is in the retry list.
// It never leaves the package: once retries run out the response itself is
// returned to the caller.
type retryableStatusError struct {
	statusCode int
}

func (e *retryableStatusError) Error() string {
	return fmt.Sprintf("retryable status %d", e.statusCode)
}

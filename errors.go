package mailhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mailhook/mailhook-go/internal/api"
)

// ErrorKind classifies an Error.
type ErrorKind int

// Error kinds. Every failure returned by the client carries exactly one.
const (
	// KindUnexpected is a non-2xx status without a dedicated kind.
	KindUnexpected ErrorKind = iota
	KindBadRequest
	KindAuthentication
	KindForbidden
	KindNotFound
	KindConflict
	KindUnprocessableEntity
	KindRateLimit
	// KindServer covers every 5xx status.
	KindServer
	// KindConnection is a transport failure before a response was received.
	KindConnection
	// KindTimeout is a request or connect deadline that expired.
	KindTimeout
	// KindConfiguration is a client configuration that cannot be used.
	KindConfiguration
)

var kindNames = map[ErrorKind]string{
	KindUnexpected:          "unexpected",
	KindBadRequest:          "bad_request",
	KindAuthentication:      "authentication",
	KindForbidden:           "forbidden",
	KindNotFound:            "not_found",
	KindConflict:            "conflict",
	KindUnprocessableEntity: "unprocessable_entity",
	KindRateLimit:           "rate_limit",
	KindServer:              "server",
	KindConnection:          "connection",
	KindTimeout:             "timeout",
	KindConfiguration:       "configuration",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// defaultMessage is used when the response body carries no error text.
func (k ErrorKind) defaultMessage() string {
	switch k {
	case KindBadRequest:
		return "The request was invalid"
	case KindAuthentication:
		return "Invalid or missing API credentials"
	case KindForbidden:
		return "Access to this resource is forbidden"
	case KindNotFound:
		return "The requested resource was not found"
	case KindConflict:
		return "The request conflicts with the current state"
	case KindUnprocessableEntity:
		return "The request could not be processed"
	case KindRateLimit:
		return "Rate limit exceeded"
	case KindServer:
		return "An internal server error occurred"
	case KindConnection:
		return "Failed to connect to the Mailhook API"
	case KindTimeout:
		return "The request timed out"
	case KindConfiguration:
		return "Invalid configuration"
	default:
		return "An error occurred"
	}
}

// Sentinel errors for errors.Is() checks. Each matches every *Error of the
// corresponding kind.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("invalid or missing API credentials")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("resource not found")
	ErrConflict            = errors.New("conflict")
	ErrUnprocessableEntity = errors.New("unprocessable entity")
	ErrRateLimited         = errors.New("rate limit exceeded")
	ErrServer              = errors.New("server error")
	ErrUnexpectedStatus    = errors.New("unexpected response status")
	ErrConnection          = errors.New("connection failed")
	ErrTimeout             = errors.New("request timed out")
	ErrInvalidConfig       = errors.New("invalid configuration")
)

var kindSentinels = map[ErrorKind]error{
	KindUnexpected:          ErrUnexpectedStatus,
	KindBadRequest:          ErrBadRequest,
	KindAuthentication:      ErrUnauthorized,
	KindForbidden:           ErrForbidden,
	KindNotFound:            ErrNotFound,
	KindConflict:            ErrConflict,
	KindUnprocessableEntity: ErrUnprocessableEntity,
	KindRateLimit:           ErrRateLimited,
	KindServer:              ErrServer,
	KindConnection:          ErrConnection,
	KindTimeout:             ErrTimeout,
	KindConfiguration:       ErrInvalidConfig,
}

// Error is returned for every failed request.
type Error struct {
	Kind ErrorKind

	// Status is the HTTP status, or 0 when no response was received.
	Status int

	// Body is the parsed JSON error body. A body that is not valid JSON is
	// kept as {"raw": text}. Nil when there was no body.
	Body any

	Message string

	// Errors holds the "errors" field of a 422 response body.
	Errors any

	// RetryAfter is the Retry-After header of a 429 response, in seconds.
	RetryAfter *int

	// RequestID identifies the failed request: the server's X-Request-ID
	// or "request_id" when present, else the one sent by the client.
	RequestID string

	Header http.Header

	// Err is the underlying transport or configuration error.
	Err error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *Error) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && target == sentinel
}

// Retryable reports whether the failure is transient.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindRateLimit, KindServer, KindConnection, KindTimeout:
		return true
	}
	return false
}

// kindForStatus maps a non-2xx status onto an error kind.
func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusBadRequest:
		return KindBadRequest
	case status == http.StatusUnauthorized:
		return KindAuthentication
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusUnprocessableEntity:
		return KindUnprocessableEntity
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status >= 500 && status <= 599:
		return KindServer
	default:
		return KindUnexpected
	}
}

// newResponseError builds the error for a completed exchange with a
// non-2xx status. The body is parsed once; a malformed body never
// prevents the error from being built.
func newResponseError(raw *api.RawResponse) *Error {
	kind := kindForStatus(raw.StatusCode)
	e := &Error{
		Kind:      kind,
		Status:    raw.StatusCode,
		Body:      parseErrorBody(raw.Body),
		Header:    raw.Header,
		RequestID: raw.RequestID,
	}

	fields, _ := e.Body.(map[string]any)
	if id := raw.Header.Get(api.RequestIDHeader); id != "" {
		e.RequestID = id
	} else if id, ok := fields["request_id"].(string); ok && id != "" {
		e.RequestID = id
	}

	message := bodyMessage(fields)
	if message == "" {
		message = kind.defaultMessage()
		if kind == KindUnexpected {
			message = fmt.Sprintf("Unexpected response status: %d", raw.StatusCode)
		}
	}

	switch kind {
	case KindUnprocessableEntity:
		e.Errors = fields["errors"]
	case KindRateLimit:
		if seconds, ok := api.ParseRetryAfter(raw.Header); ok {
			e.RetryAfter = &seconds
			message = fmt.Sprintf("%s. Retry after %d seconds", message, seconds)
		}
	}

	e.Message = message
	return e
}

// newTransportError converts a failure from the transport layer.
func newTransportError(err error) *Error {
	var timeoutErr *api.TimeoutError
	if errors.As(err, &timeoutErr) {
		return &Error{
			Kind:    KindTimeout,
			Message: fmt.Sprintf("%s: %v", KindTimeout.defaultMessage(), timeoutErr.Err),
			Err:     err,
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: KindTimeout.defaultMessage(), Err: err}
	}

	cause := err
	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		cause = netErr.Err
	}
	return &Error{
		Kind:    KindConnection,
		Message: fmt.Sprintf("%s: %v", KindConnection.defaultMessage(), cause),
		Err:     err,
	}
}

// newConfigError reports a configuration that cannot be used.
func newConfigError(err error) *Error {
	return &Error{
		Kind:    KindConfiguration,
		Message: fmt.Sprintf("%s: %v", KindConfiguration.defaultMessage(), err),
		Err:     err,
	}
}

func parseErrorBody(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return map[string]any{"raw": string(body)}
	}
	return parsed
}

// bodyMessage returns the "error" or "message" field of an error body.
func bodyMessage(fields map[string]any) string {
	for _, key := range []string{"error", "message"} {
		if msg, ok := fields[key].(string); ok && msg != "" {
			return msg
		}
	}
	return ""
}

// IsNotFound reports whether err is a 404 error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRateLimited reports whether err is a 429 error.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsRetryable reports whether err is a transient failure worth retrying
// later.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable()
}

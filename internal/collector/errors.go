package collector

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorType is the category of a failed fetch.
type ErrorType string

const (
	ErrorTypeNetwork   ErrorType = "network"
	ErrorTypeTimeout   ErrorType = "timeout"
	ErrorTypeClient    ErrorType = "client"
	ErrorTypeServer    ErrorType = "server"
	ErrorTypeRateLimit ErrorType = "rate_limit"
	ErrorTypeParse     ErrorType = "parse"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// FetchError is a structured error from a fetch or render.
type FetchError struct {
	Type       ErrorType
	StatusCode int
	URL        string
	Message    string
	Cause      error
}

func (e *FetchError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s error: %s", e.Type, msg)
}

func (e *FetchError) Unwrap() error { return e.Cause }

// NewNetworkError wraps a transport failure, recognising timeouts.
func NewNetworkError(url string, cause error) *FetchError {
	if isTimeout(cause) {
		return &FetchError{Type: ErrorTypeTimeout, URL: url, Message: "request timed out", Cause: cause}
	}
	return &FetchError{Type: ErrorTypeNetwork, URL: url, Message: "request failed", Cause: cause}
}

// NewParseError reports a page that loaded but could not be read.
func NewParseError(url, message string, cause error) *FetchError {
	return &FetchError{Type: ErrorTypeParse, URL: url, Message: message, Cause: cause}
}

// ClassifyHTTPError maps a non-2xx status to a FetchError.
func ClassifyHTTPError(url string, statusCode int) *FetchError {
	e := &FetchError{StatusCode: statusCode, URL: url, Message: http.StatusText(statusCode)}
	switch {
	case statusCode == http.StatusTooManyRequests:
		e.Type = ErrorTypeRateLimit
	case statusCode >= 500:
		e.Type = ErrorTypeServer
	case statusCode >= 400:
		e.Type = ErrorTypeClient
	default:
		e.Type = ErrorTypeUnknown
	}
	return e
}

// IsType reports whether err carries a FetchError of type t.
func IsType(err error, t ErrorType) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Type == t
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

package rest

import (
	"errors"
	"fmt"
)

// ConfigurationError reports an invalid construction: a bad host URL, an
// unusable parameter combination, or a malformed client config. It is never
// produced by a server response.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return "oae: " + e.Reason + ": " + e.Err.Error()
	}
	return "oae: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func newConfigurationError(reason string, err error) *ConfigurationError {
	return &ConfigurationError{Reason: reason, Err: err}
}

// TransportError means the request never completed a round trip: DNS failure,
// connection refused, TLS failure, timeout. The underlying cause is wrapped,
// so errors.Is(err, context.DeadlineExceeded) keeps working.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "oae: transport failure: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError means the response declared a structured content type but its
// body did not parse. The raw text is still delivered as the result body so
// callers can inspect it.
type ParseError struct {
	ContentType string
	Err         error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("oae: failed to parse %s response body: %v", e.ContentType, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// RequestError is the common failure path: the server answered with a status
// of 400 or higher. Message carries the server's msg field when the error
// body has the platform's {"code":NNN,"msg":"..."} shape, else the raw text.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("oae: request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("oae: request failed with status %d: %s", e.StatusCode, e.Message)
}

// StatusOf returns the HTTP status carried by err when it is (or wraps) a
// RequestError, and 0 otherwise.
func StatusOf(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a RequestError with status 404.
func IsNotFound(err error) bool { return StatusOf(err) == 404 }

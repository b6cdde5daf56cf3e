package lrclib

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents an LRCLIB API error.
//
// The Error type carries the HTTP status and the error body returned by
// LRCLIB. It implements error, and provides helpers for callers deciding
// whether a failed request is worth replaying later.
type Error struct {
	StatusCode int    // HTTP status code
	Name       string // LRCLIB error name, e.g. "IncorrectPublishTokenError"
	Message    string // Error message from LRCLIB
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("lrclib: %d %s: %s", e.StatusCode, e.Name, e.Message)
	}
	return fmt.Sprintf("lrclib: %d: %s", e.StatusCode, e.Message)
}

// Is checks if the target error is an LRCLIB error with the same status.
//
// This allows errors.Is() to work with *Error types.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode
}

// Temporary returns true if the request may succeed when replayed later.
//
// Server errors (5xx) and rate limiting (429) are temporary. The client
// itself never retries; callers decide what to do with a temporary error.
func (e *Error) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Predefined errors for common cases.
var (
	// ErrInvalidConfig is returned when client configuration is invalid.
	ErrInvalidConfig = errors.New("lrclib: invalid configuration")

	// ErrNotFound matches any *Error with a 404 status via errors.Is.
	ErrNotFound = &Error{StatusCode: http.StatusNotFound}
)

// IsNotFound reports whether err is an LRCLIB 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTemporary reports whether err is a transport failure or a temporary
// API error, i.e. whether replaying the request later could succeed.
func IsTemporary(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// NetworkError wraps a failure to reach LRCLIB or read its response.
type NetworkError struct {
	Op  string // Request description, e.g. "GET search"
	Err error
}

// Error returns the error message.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("lrclib: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

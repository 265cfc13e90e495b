package core

import (
	"errors"
	"fmt"
)

// ErrorKind represents the category of a OneSky client error.
type ErrorKind int

// Error kind constants categorize every failure the request pipeline can produce.
const (
	// KindArgumentValidation indicates the caller passed an invalid argument.
	// It is raised before any network I/O.
	KindArgumentValidation ErrorKind = iota
	// KindTransport indicates a network, connection or TLS failure.
	KindTransport
	// KindAPI indicates the HTTP status or meta.status did not match the expected status.
	KindAPI
	// KindMalformedResponse indicates the body is not a valid envelope.
	KindMalformedResponse
	// KindTypeMismatch indicates data has an unexpected JSON shape.
	KindTypeMismatch
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	names := [...]string{
		"ARGUMENT_VALIDATION",
		"TRANSPORT",
		"API",
		"MALFORMED_RESPONSE",
		"TYPE_MISMATCH",
	}
	if k < 0 || int(k) >= len(names) {
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
	return names[k]
}

// Sentinel errors for common error conditions.
var (
	// ErrClientClosed is returned when attempting to use a closed client.
	ErrClientClosed = errors.New("client is closed")
	// ErrNoCredentials is returned when no API key or secret is configured.
	ErrNoCredentials = errors.New("no credentials configured")
)

// Error is the single error type produced by the request pipeline.
type Error struct {
	// Kind categorizes the error for programmatic handling.
	Kind ErrorKind
	// Path is the API path of the failing call, if any.
	Path string
	// Expected is the status code the call kind requires (API errors only).
	Expected int
	// Actual is the status code the server reported (API errors only).
	Actual int
	// Message is the human-readable description, including meta.message when present.
	Message string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var msg string
	switch {
	case e.Kind == KindAPI && e.Message != "":
		msg = fmt.Sprintf("onesky %s: expected status=%d, got status=%d: %s", e.Kind, e.Expected, e.Actual, e.Message)
	case e.Kind == KindAPI:
		msg = fmt.Sprintf("onesky %s: expected status=%d, got status=%d", e.Kind, e.Expected, e.Actual)
	default:
		msg = fmt.Sprintf("onesky %s: %s", e.Kind, e.Message)
	}
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewArgumentError creates an argument validation error.
func NewArgumentError(format string, args ...any) *Error {
	return &Error{Kind: KindArgumentValidation, Message: fmt.Sprintf(format, args...)}
}

// NewTransportError wraps a network failure for the given path.
func NewTransportError(path string, err error) *Error {
	return &Error{Kind: KindTransport, Path: path, Message: "request failed", Err: err}
}

// NewAPIError creates an error for a status mismatch. The message is optional.
func NewAPIError(path string, expected, actual int, message string) *Error {
	return &Error{Kind: KindAPI, Path: path, Expected: expected, Actual: actual, Message: message}
}

// NewMalformedResponseError creates an error for a body that is not a valid envelope.
func NewMalformedResponseError(message string, err error) *Error {
	return &Error{Kind: KindMalformedResponse, Message: message, Err: err}
}

// NewTypeMismatchError creates an error for a JSON value of the wrong shape.
func NewTypeMismatchError(name string, expected, actual JSONKind) *Error {
	return &Error{
		Kind:    KindTypeMismatch,
		Message: fmt.Sprintf("`%s` was expected to be of type %s, but was of type %s", name, expected, actual),
	}
}

func isKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// IsArgumentError returns true if the caller passed an invalid argument.
func IsArgumentError(err error) bool {
	return isKind(err, KindArgumentValidation)
}

// IsTransportError returns true if the error is a network failure.
func IsTransportError(err error) bool {
	return isKind(err, KindTransport)
}

// IsAPIError returns true if the server reported an unexpected status.
func IsAPIError(err error) bool {
	return isKind(err, KindAPI)
}

// IsMalformedResponse returns true if the response body was not a valid envelope.
func IsMalformedResponse(err error) bool {
	return isKind(err, KindMalformedResponse)
}

// IsTypeMismatch returns true if the response data had the wrong JSON shape.
func IsTypeMismatch(err error) bool {
	return isKind(err, KindTypeMismatch)
}

// StatusOf returns the actual status of an API error and true, or 0 and false
// for any other error.
func StatusOf(err error) (int, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindAPI {
		return e.Actual, true
	}
	return 0, false
}

// file: internal/clienterr/clienterr.go
// version: 1.0.0
// guid: b5e25858-20cc-4ab6-91e6-f40a80c12a01

// Package clienterr defines the uniform error surface shared by every
// upstream client. Callers classify retry behavior from the Kind rather
// than string matching.
package clienterr

import (
	"errors"
	"fmt"
)

// Kind classifies a client error.
type Kind int

const (
	// KindParameter: caller supplied an invalid argument. Terminal.
	KindParameter Kind = iota
	// KindTransport: connection or read failure. Retriable.
	KindTransport
	// KindHTTP: non-2xx response with captured status and body.
	KindHTTP
	// KindApplication: upstream returned an error payload inside a
	// success envelope. Terminal.
	KindApplication
	// KindDeserialization: response shape mismatch. Terminal.
	KindDeserialization
	// KindMissingField: expected field absent from response. Terminal.
	KindMissingField
	// KindAuthentication: credentials rejected. Terminal.
	KindAuthentication
	// KindNotFound: entity does not exist upstream. Terminal.
	KindNotFound
	// KindRateLimited: upstream asked us to back off. Retriable.
	KindRateLimited
	// KindLimiterClosed: limiter dropped during acquisition. Only
	// possible during shutdown. Terminal.
	KindLimiterClosed
)

func (k Kind) String() string {
	switch k {
	case KindParameter:
		return "parameter"
	case KindTransport:
		return "transport"
	case KindHTTP:
		return "http"
	case KindApplication:
		return "application"
	case KindDeserialization:
		return "deserialization"
	case KindMissingField:
		return "missing_field"
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindLimiterClosed:
		return "limiter_closed"
	default:
		return "unknown"
	}
}

// Error is the typed error every upstream client returns.
type Error struct {
	Kind    Kind
	Status  int    // set for KindHTTP
	Body    string // set for KindHTTP
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindHTTP:
		return fmt.Sprintf("%s error: status %d: %s", e.Kind, e.Status, e.Body)
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Retriable reports whether a job-level retry could plausibly succeed.
// Transport and rate-limit errors qualify; HTTP errors qualify for
// status 429 and the 5xx range.
func (e *Error) Retriable() bool {
	switch e.Kind {
	case KindTransport, KindRateLimited:
		return true
	case KindHTTP:
		return e.Status == 429 || (e.Status >= 500 && e.Status < 600)
	default:
		return false
	}
}

// Parameter reports an invalid caller-supplied argument.
func Parameter(format string, args ...any) *Error {
	return &Error{Kind: KindParameter, Message: fmt.Sprintf(format, args...)}
}

// Transport wraps a connection or read failure.
func Transport(err error) *Error {
	return &Error{Kind: KindTransport, Err: err}
}

// HTTPStatus captures a non-2xx response.
func HTTPStatus(status int, body string) *Error {
	return &Error{Kind: KindHTTP, Status: status, Body: body}
}

// Application reports an upstream error payload in a success envelope.
func Application(message string) *Error {
	return &Error{Kind: KindApplication, Message: message}
}

// Deserialization wraps a response decoding failure.
func Deserialization(err error) *Error {
	return &Error{Kind: KindDeserialization, Err: err, Message: "decoding response"}
}

// MissingField reports a field absent from an otherwise valid response.
func MissingField(field string) *Error {
	return &Error{Kind: KindMissingField, Message: fmt.Sprintf("missing field %q", field)}
}

// Authentication reports rejected credentials.
func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// NotFound reports a 404 for an entity lookup.
func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// RateLimited reports an upstream 503/429 back-off signal.
func RateLimited(message string) *Error {
	return &Error{Kind: KindRateLimited, Message: message}
}

// LimiterClosed reports acquisition on a closed rate limiter.
func LimiterClosed() *Error {
	return &Error{Kind: KindLimiterClosed, Message: "rate limiter closed"}
}

// KindOf extracts the Kind from err, or ok=false when err is not a
// client error.
func KindOf(err error) (Kind, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return 0, false
}

// IsRetriable reports whether err is a retriable client error.
func IsRetriable(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Retriable()
	}
	return false
}

// Package apperr defines the error taxonomy every component maps its
// failures into. Domain errors (NotFound, Forbidden) are constructed close
// to the failure site and pass through layers unchanged; infrastructure
// errors are wrapped at each store boundary so callers never see
// driver-specific error shapes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for transport mapping and caller branching.
type Kind int

const (
	// Internal is anything unexpected from the backing store or runtime.
	// Surfaced as 500 with a generic message; detail stays in the logs.
	Internal Kind = iota
	// Unauthenticated means the credential is missing, malformed, or expired.
	Unauthenticated
	// Forbidden means the caller is authenticated but fails a membership or
	// role check.
	Forbidden
	// NotFound means a referenced group/activity/log/profile is absent.
	NotFound
	// Invalid means the request payload failed validation.
	Invalid
	// Config is an operator-actionable deployment problem, such as a missing
	// database index. Distinct from Internal so "you forgot to provision an
	// index" does not read as "something crashed".
	Config
)

// Error carries a Kind, a caller-safe message, and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an Error of the given kind with a caller-safe message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf is New with formatting.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and caller-safe message to an underlying error.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of err, or Internal for non-taxonomy errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool { return err != nil && KindOf(err) == NotFound }

// IsForbidden reports whether err is a Forbidden error.
func IsForbidden(err error) bool { return err != nil && KindOf(err) == Forbidden }

// IsUnauthenticated reports whether err is an Unauthenticated error.
func IsUnauthenticated(err error) bool { return err != nil && KindOf(err) == Unauthenticated }

// HTTPStatus maps an error to its REST status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Invalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the caller-safe message for err. Internal errors collapse
// to a generic message; Config errors keep their actionable text.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Msg
	}
	return "internal server error"
}

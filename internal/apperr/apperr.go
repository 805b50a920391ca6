// Package apperr defines the error kinds the HTTP boundary maps to status codes.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the response boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindRateLimit
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindRateLimit:
		return "rate_limit"
	default:
		return "internal"
	}
}

// Error is a classified, client-presentable error.
type Error struct {
	Kind    Kind
	Message string
	// Errors lists individual validation failures.
	Errors []string
	// Err is the underlying cause; never sent to clients outside development mode.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports malformed or missing input.
func Validation(message string, errs ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Errors: errs}
}

// Unauthorized reports a missing, invalid or expired credential.
func Unauthorized(message string, cause error) *Error {
	return &Error{Kind: KindAuthentication, Message: message, Err: cause}
}

// Forbidden reports a valid identity lacking rights over a resource.
func Forbidden(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// NotFound reports an id that does not resolve.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// TooManyRequests reports a rate limit rejection.
func TooManyRequests(message string) *Error {
	return &Error{Kind: KindRateLimit, Message: message}
}

// Internal wraps an unexpected failure.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "Something went wrong!", Err: cause}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// As extracts an *Error, wrapping unclassified errors as internal.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

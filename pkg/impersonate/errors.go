package impersonate

import (
	"fmt"
	"net/http"
)

// Kind classifies impersonation failures for transport mapping.
type Kind int

const (
	// KindForbidden is any safety policy violation.
	KindForbidden Kind = iota
	// KindRateLimited is a rate limiter denial.
	KindRateLimited
	// KindInvalidCredential is a credential validation failure.
	KindInvalidCredential
	// KindInternal covers audit write failures, signing failures and
	// directory transport failures. The real cause is logged server-side.
	KindInternal
)

// Error carries a stable machine-readable code and a message safe to return
// to the caller. No stack traces or internal identifiers are ever included.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// HTTPStatus maps the error kind to an HTTP status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindForbidden:
		return http.StatusForbidden
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindInvalidCredential:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func forbiddenError(message string) *Error {
	return &Error{
		Kind:    KindForbidden,
		Code:    "forbidden",
		Message: message,
	}
}

func rateLimitedError(maxPerHour int) *Error {
	// The message states the configured limit, never the admin's actual
	// attempt history.
	return &Error{
		Kind:    KindRateLimited,
		Code:    "rate_limited",
		Message: fmt.Sprintf("impersonation limit of %d per hour reached", maxPerHour),
	}
}

func invalidCredentialError(cause error) *Error {
	return &Error{
		Kind:    KindInvalidCredential,
		Code:    "invalid_credential",
		Message: "invalid impersonation credential",
		cause:   cause,
	}
}

func internalError(cause error) *Error {
	return &Error{
		Kind:    KindInternal,
		Code:    "internal_error",
		Message: "internal error",
		cause:   cause,
	}
}

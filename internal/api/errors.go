package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed operation for calling UI code. Every backend
// status the client can see collapses into one of these.
type Kind string

const (
	KindInvalidCredentials Kind = "invalid_credentials"
	KindDuplicateEmail     Kind = "duplicate_email"
	KindValidationError    Kind = "validation_error"
	KindNotAuthenticated   Kind = "not_authenticated"
	KindNotFound           Kind = "not_found"
	KindForbidden          Kind = "forbidden"
	KindServerError        Kind = "server_error"
	KindNetworkError       Kind = "network_error"
	KindUnknown            Kind = "unknown"
)

// Error is the normalized failure returned by every client operation.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, k Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == k
}

// NotAuthenticated builds the client-side error raised before any network
// call when an operation needs an active session.
func NotAuthenticated(msg string) *Error {
	return &Error{Kind: KindNotAuthenticated, Message: msg}
}

// kindForStatus maps an HTTP status to the taxonomy. 401 is ambiguous: on
// the login endpoint it means rejected credentials, anywhere else an
// expired or revoked token.
func kindForStatus(status int, loginEndpoint bool) Kind {
	switch status {
	case http.StatusUnauthorized:
		if loginEndpoint {
			return KindInvalidCredentials
		}
		return KindNotAuthenticated
	case http.StatusConflict:
		return KindDuplicateEmail
	case http.StatusBadRequest:
		return KindValidationError
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusInternalServerError:
		return KindServerError
	default:
		return KindUnknown
	}
}

// fallbackMessage supplies the status-specific toast text when the backend
// did not include a message of its own.
func fallbackMessage(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "Invalid email or password"
	case http.StatusConflict:
		return "Email already exists"
	case http.StatusForbidden:
		return "You do not have permission to perform this action"
	case http.StatusNotFound:
		return "Resource not found"
	case http.StatusInternalServerError:
		return "Server error. Please try again later"
	default:
		return "An error occurred"
	}
}

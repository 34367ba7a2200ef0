package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed console error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`

	// RemoteStatus carries the directory service status for upstream failures.
	RemoteStatus int   `json:"remote_status,omitempty"`
	Err          error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code so cloned or wrapped variants of a
// predefined error still satisfy errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound          = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrValidation        = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal          = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrUpstreamDown      = New("UPSTREAM_UNAVAILABLE", http.StatusBadGateway, "directory service unreachable")
	ErrUpstream          = New("UPSTREAM_ERROR", http.StatusBadGateway, "directory service rejected the request")
	ErrSessionNotFound   = New("SESSION_NOT_FOUND", http.StatusUnauthorized, "console session not found")
	ErrSessionConflict   = New("SESSION_CONFLICT", http.StatusConflict, "console session changed concurrently")
	ErrUnknownView       = New("UNKNOWN_VIEW", http.StatusNotFound, "unknown view")
	ErrExportsDisabled   = New("EXPORTS_DISABLED", http.StatusNotFound, "exports are disabled")
	ErrUnsupportedFormat = New("UNSUPPORTED_FORMAT", http.StatusBadRequest, "unsupported export format")
)

// Upstream builds the error for a non-2xx directory response.
func Upstream(status int, body string) *Error {
	msg := fmt.Sprintf("directory service responded %d", status)
	if body != "" {
		msg = fmt.Sprintf("%s: %s", msg, body)
	}
	return &Error{Code: ErrUpstream.Code, Status: ErrUpstream.Status, Message: msg, RemoteStatus: status}
}

// UpstreamStatus reports the remote status code carried by err, or zero.
func UpstreamStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return 0
	}
	return e.RemoteStatus
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

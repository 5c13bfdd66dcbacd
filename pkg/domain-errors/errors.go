// Package dErrors defines the domain error taxonomy shared by all services.
//
// Services construct these at operation boundaries; stores return sentinel
// errors (pkg/platform/sentinel) which services translate into domain errors.
// Transports map codes to status lines via pkg/platform/httputil.
package dErrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for callers that need to branch or render.
type Code string

const (
	// CodeBadRequest indicates a malformed or incomplete request.
	CodeBadRequest Code = "bad_request"
	// CodeInvalidInput indicates input rejected at a trust boundary (e.g. id parsing).
	CodeInvalidInput Code = "invalid_input"
	// CodeValidation indicates a domain validation failure (e.g. subitem not a
	// child of the declared main subject).
	CodeValidation Code = "validation"
	// CodeNotFound indicates a referenced entity does not exist.
	CodeNotFound Code = "not_found"
	// CodeConflict indicates a uniqueness or state conflict (duplicate
	// publication number, transition not allowed from the current state).
	CodeConflict Code = "conflict"
	// CodeUnauthorized indicates the principal lacks the required capability.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden indicates the principal is known but the action is denied.
	CodeForbidden Code = "forbidden"
	// CodeInvariantViolation indicates a domain invariant would be broken.
	// Services usually translate these to CodeValidation or CodeConflict
	// before they cross the API boundary.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeTimeout indicates the operation exceeded its deadline.
	CodeTimeout Code = "timeout"
	// CodeInternal indicates a storage or infrastructure failure.
	CodeInternal Code = "internal_error"
)

// Error carries a code plus a human-readable message, optionally wrapping a cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs a domain error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf constructs a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var domainErr *Error
	for errors.As(err, &domainErr) {
		if domainErr.Code == code {
			return true
		}
		err = domainErr.Err
	}
	return false
}

// Is is an alias for HasCode kept for call-site readability in transports.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the outermost code carried by err, or CodeInternal when err
// is not a domain error.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}

// MessageOf returns the outermost message, or a generic one for foreign errors.
func MessageOf(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return "internal error"
}

package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an Error for transport-level routing. The API layer
// switches on the kind, never on message text.
type ErrorKind int

const (
	// KindValidation marks client-correctable input errors.
	KindValidation ErrorKind = iota
	// KindNotFound marks a missing task, either directly referenced or as a parent.
	KindNotFound
	// KindInternal marks unexpected storage or system failures.
	KindInternal
)

// Error code constants — uppercase, underscore-separated, stable.
const (
	CodeInvalidTitle         = "INVALID_TITLE"
	CodeTitleTooLong         = "TITLE_TOO_LONG"
	CodeInvalidDescription   = "INVALID_DESCRIPTION"
	CodeDescriptionTooLong   = "DESCRIPTION_TOO_LONG"
	CodeInvalidCategory      = "INVALID_CATEGORY"
	CodeInvalidStatus        = "INVALID_STATUS"
	CodeInvalidDueDateFormat = "INVALID_DUE_DATE_FORMAT"
	CodeNoUpdatesProvided    = "NO_UPDATES_PROVIDED"
	CodeInvalidTaskID        = "INVALID_TASK_ID"
	CodeTaskNotFound         = "TASK_NOT_FOUND"
	CodeParentTaskNotFound   = "PARENT_TASK_NOT_FOUND"
	CodeInternalServerError  = "INTERNAL_SERVER_ERROR"
)

// Error is a structured domain error carrying a machine-readable code
// alongside the human-readable message.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// NewValidation creates a validation error with the given code.
func NewValidation(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

// NewValidationf creates a validation error with a formatted message.
func NewValidationf(code, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewNotFound creates a not-found error with the given code.
func NewNotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

// NewInternal wraps an unexpected failure. The caller is expected to log the
// underlying cause; the message here is safe to expose.
func NewInternal(message string) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternalServerError, Message: message}
}

// AsError extracts a *Error from err, or wraps err as an internal error so
// callers always have a kind and a code to route on.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewInternal("internal server error")
}

// IsNotFound reports whether err is a structured not-found error.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindNotFound
}

// IsValidation reports whether err is a structured validation error.
func IsValidation(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindValidation
}

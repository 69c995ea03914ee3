package utils

import (
	"errors"
	"fmt"
)

// Error codes for the scheduling core. Validation and ownership failures are
// surfaced to the caller immediately and never retried; reservation races
// surface as CodeConflict to the losing caller.
const (
	CodeValidation     = "VALIDATION"
	CodeForbidden      = "FORBIDDEN"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeCutoffExceeded = "CUTOFF_EXCEEDED"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeInternal       = "INTERNAL"
)

// AppError is a coded error carried across service boundaries so callers can
// decide propagate-vs-isolate per kind.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Errf builds a coded error with a formatted message.
func Errf(code, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapErr attaches a code and message to an underlying error.
func WrapErr(code string, err error, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// CodeOf extracts the error code, defaulting to CodeInternal.
func CodeOf(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

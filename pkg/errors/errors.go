// Package errors provides structured error types for assetforge.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code] so the CLI, the HTTP API and tests can branch on the kind of failure
// without string matching:
//   - INVALID_*: configuration or variant validation failures
//   - UNSUPPORTED_*: formats or conversions the engine does not produce
//   - FILE_*: filesystem conflicts and missing inputs
//   - CODEC_FAILURE / RENDER_FAILED: failures inside the render pipeline
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnsupportedFormat, "unsupported output format: %s", f)
//	if errors.Is(err, errors.ErrCodeUnsupportedFormat) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeCodec, origErr, "encode %s", format)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidVariant  Code = "INVALID_VARIANT"
	ErrCodeInvalidColor    Code = "INVALID_COLOR"
	ErrCodeInvalidMargin   Code = "INVALID_MARGIN"
	ErrCodeInvalidIconSize Code = "INVALID_ICON_SIZE"
	ErrCodeInvalidSource   Code = "INVALID_SOURCE"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Format errors
	ErrCodeUnsupportedFormat     Code = "UNSUPPORTED_FORMAT"
	ErrCodeUnsupportedConversion Code = "UNSUPPORTED_CONVERSION"

	// Filesystem errors
	ErrCodeFileExists   Code = "FILE_EXISTS"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Render errors
	ErrCodeCodec  Code = "CODEC_FAILURE"
	ErrCodeRender Code = "RENDER_FAILED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether any *Error in err's chain has the given code.
// A FILE_EXISTS failure wrapped in RENDER_FAILED matches both codes.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix, followed by
// the user message of the cause.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

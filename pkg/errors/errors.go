// Package errors provides structured error types for pipeline-yaml.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the library packages
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes mirror the stages a document passes through:
//   - IO_ERROR, FILE_NOT_FOUND: the input could not be read
//   - PARSE_ERROR: the input is not well-formed YAML
//   - SCHEMA_ERROR: required fields are missing or malformed
//   - VALIDATION_ERROR: the document is well-formed but not renderable
//   - STRUCTURAL_ERROR: pipeline nesting repeats a pipeline name
//   - RENDER_ERROR: Graphviz or format conversion failed
//
// # Usage
//
//	err := errors.New(errors.ErrCodeValidation, "Top level is not a pipeline definition")
//	if errors.Is(err, errors.ErrCodeValidation) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeIO           Code = "IO_ERROR"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeParse        Code = "PARSE_ERROR"

	// Document errors
	ErrCodeSchema     Code = "SCHEMA_ERROR"
	ErrCodeValidation Code = "VALIDATION_ERROR"
	ErrCodeStructural Code = "STRUCTURAL_ERROR"

	// Option errors
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidMode   Code = "INVALID_MODE"
	ErrCodeInvalidLabels Code = "INVALID_LABELS"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Output errors
	ErrCodeRender      Code = "RENDER_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
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

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix,
// followed by the cause if there is one.
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

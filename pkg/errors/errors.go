// Package errors provides structured error types for referraltree.
//
// Every fatal condition the CLI can report carries a machine-readable [Code]
// so callers can tell a missing file from a bad column name without parsing
// messages.
//
// # Error Codes
//
//   - FILE_NOT_FOUND, INVALID_PATH: input location problems
//   - UNSUPPORTED_FORMAT, MISSING_DEPENDENCY: table format problems
//   - SCHEMA_ERROR, DUPLICATE_MEMBER, INVALID_INPUT: data problems
//   - CYCLE_DETECTED: referral cycles (recoverable, only fatal on request)
//   - INTERNAL_ERROR: anything unexpected
//
// # Usage
//
//	err := errors.New(errors.ErrCodeSchema, "column %q not found", name)
//	if errors.Is(err, errors.ErrCodeSchema) {
//	    // Handle missing column
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input location errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeInvalidPath  Code = "INVALID_PATH"

	// Table format errors
	ErrCodeUnsupportedFormat Code = "UNSUPPORTED_FORMAT"
	ErrCodeMissingDependency Code = "MISSING_DEPENDENCY"

	// Data errors
	ErrCodeSchema          Code = "SCHEMA_ERROR"
	ErrCodeDuplicateMember Code = "DUPLICATE_MEMBER"
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeCycleDetected   Code = "CYCLE_DETECTED"

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
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// SchemaError reports the requested columns that are absent from a table.
type SchemaError struct {
	Missing   []string // Requested column names not present
	Available []string // Column names the table does have
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("column(s) %q not found (available: %q)", e.Missing, e.Available)
}

// Code returns the error code for this error type.
func (e *SchemaError) Code() Code {
	return ErrCodeSchema
}

// NewSchemaError wraps a SchemaError in a coded *Error so [Is] matches it.
func NewSchemaError(missing, available []string) *Error {
	se := &SchemaError{Missing: missing, Available: available}
	return Wrap(ErrCodeSchema, se, "missing column(s) %q", missing)
}

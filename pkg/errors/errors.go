// Package errors provides structured error types for ghostleg.
//
// Every failure the core can report carries a machine-readable [Code], so the
// CLI and the HTTP API can map it to an exit status or response without
// parsing messages.
//
// # Error Codes
//
// Codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (caller misuse)
//   - *_NOT_FOUND: Missing rounds or files
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidParticipantCount, "need at least 2 participants, got %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidParticipantCount) {
//	    // Ask the user for more participants
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "save round %s", id)
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
	ErrCodeInvalidInput            Code = "INVALID_INPUT"
	ErrCodeInvalidParticipantCount Code = "INVALID_PARTICIPANT_COUNT"
	ErrCodeColumnOutOfRange        Code = "COLUMN_OUT_OF_RANGE"
	ErrCodeInvalidMatrix           Code = "INVALID_MATRIX"
	ErrCodeDuplicateParticipant    Code = "DUPLICATE_PARTICIPANT"
	ErrCodeInvalidFormat           Code = "INVALID_FORMAT"
	ErrCodeInvalidPath             Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeRoundNotFound Code = "ROUND_NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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
// It unwraps the error chain looking for the outermost *Error and compares its code.
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

// IsInvalid reports whether err is a caller-side validation failure.
// These are never transient and must not be retried.
func IsInvalid(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidParticipantCount, ErrCodeColumnOutOfRange,
		ErrCodeInvalidMatrix, ErrCodeDuplicateParticipant, ErrCodeInvalidFormat, ErrCodeInvalidPath:
		return true
	}
	return false
}

// IsNotFound reports whether err describes a missing resource.
func IsNotFound(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotFound, ErrCodeRoundNotFound, ErrCodeFileNotFound:
		return true
	}
	return false
}

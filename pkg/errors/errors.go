// Package errors provides structured error types for Flipbook.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_FAILURE: A frame or the finished atlas could not be processed
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFrameCount, "frame count must be positive, got %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidFrameCount) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeEncodeFailure, origErr, "write %s", path)
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
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidFrameCount Code = "INVALID_FRAME_COUNT"
	ErrCodeInvalidPath       Code = "INVALID_PATH"
	ErrCodeInvalidFilter     Code = "INVALID_FILTER"

	// Resource not found errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
	ErrCodeNoFramesFound Code = "NO_FRAMES_FOUND"

	// Processing errors
	ErrCodeDecodeFailure Code = "DECODE_FAILURE"
	ErrCodeEncodeFailure Code = "ENCODE_FAILURE"
	ErrCodeCanceled      Code = "CANCELED"

	// Internal errors
	ErrCodeLayoutInvariant Code = "LAYOUT_INVARIANT_VIOLATION"
	ErrCodeInternal        Code = "INTERNAL_ERROR"
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

// FrameError identifies the frame a processing failure belongs to.
type FrameError struct {
	Index  int    // Position of the frame in the ordered input
	Source string // Identifier of the frame source (usually a file path)
	Err    error
}

// Error implements the error interface.
func (e *FrameError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("frame %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("frame %d (%s): %v", e.Index, e.Source, e.Err)
}

// Unwrap returns the wrapped error.
func (e *FrameError) Unwrap() error { return e.Err }

// FrameIndex returns the index of the frame that caused err.
// The boolean is false if err does not carry a *FrameError.
func FrameIndex(err error) (int, bool) {
	var fe *FrameError
	if errors.As(err, &fe) {
		return fe.Index, true
	}
	return -1, false
}

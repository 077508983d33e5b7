// Package errors provides structured error types for MNRL loading and
// network construction.
//
// Every failure surfaced by the library carries a machine-readable [Code]
// and, where one exists, the identifier of the offending element in
// [Error.Subject]: a node id, a "node.port" pair, a field name, or a JSON
// document pointer for schema violations.
//
// # Error Codes
//
// Codes fall into three groups:
//   - Document errors: SCHEMA_VIOLATION, INVALID_FORMAT, UNKNOWN_NODE_TYPE,
//     MISSING_FIELD, INVALID_ENUM_VALUE
//   - Model errors: INVALID_ATTRIBUTE, INVALID_PORT, DUPLICATE_PORT_ID
//   - Graph errors: DUPLICATE_ID, UNKNOWN_ID, UNKNOWN_PORT
//
// All of them are terminal for the load that raised them.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownID, "no node %q", id).WithSubject(id)
//	if errors.Is(err, errors.ErrCodeUnknownID) {
//	    // dangling reference
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode document")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Document errors
	ErrCodeSchemaViolation  Code = "SCHEMA_VIOLATION"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeUnknownNodeType  Code = "UNKNOWN_NODE_TYPE"
	ErrCodeMissingField     Code = "MISSING_FIELD"
	ErrCodeInvalidEnumValue Code = "INVALID_ENUM_VALUE"

	// Model errors
	ErrCodeInvalidAttribute Code = "INVALID_ATTRIBUTE"
	ErrCodeInvalidPort      Code = "INVALID_PORT"
	ErrCodeDuplicatePortID  Code = "DUPLICATE_PORT_ID"

	// Graph errors
	ErrCodeDuplicateID Code = "DUPLICATE_ID"
	ErrCodeUnknownID   Code = "UNKNOWN_ID"
	ErrCodeUnknownPort Code = "UNKNOWN_PORT"

	// Input and environment errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Subject string // Offending identifier: node id, node.port, field or document pointer
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

// WithSubject sets the offending identifier and returns e.
func (e *Error) WithSubject(subject string) *Error {
	e.Subject = subject
	return e
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

// GetSubject extracts the offending identifier from an error, if available.
// The outermost *Error with a non-empty subject wins.
func GetSubject(err error) string {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return ""
		}
		if e.Subject != "" {
			return e.Subject
		}
		err = e.Cause
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

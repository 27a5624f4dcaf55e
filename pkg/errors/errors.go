package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Pattern errors (reported per pattern, never fatal to the run)
	ErrPatternSyntax    ErrorCode = "PATTERN_SYNTAX"
	ErrPatternTooLong   ErrorCode = "PATTERN_TOO_LONG"
	ErrTooManyWildcards ErrorCode = "TOO_MANY_WILDCARDS"
	ErrBadBackref       ErrorCode = "BAD_BACKREF"

	// Directory resolution errors
	ErrDirNotFound ErrorCode = "DIR_NOT_FOUND"
	ErrDirNoRead   ErrorCode = "DIR_NO_READ"

	// Planning errors
	ErrBadOperation ErrorCode = "BAD_OPERATION"
	ErrCollision    ErrorCode = "COLLISION"
	ErrChain        ErrorCode = "CHAIN"

	// Execution errors
	ErrExecute   ErrorCode = "EXECUTE"
	ErrCancelled ErrorCode = "CANCELLED"

	// The filesystem no longer agrees with the snapshot taken at listing time
	ErrInconsistent ErrorCode = "INCONSISTENT"
)

// Error represents a structured error with code and details
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *Error) Is(target error) bool {
	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new Error with the given code and message
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new Error with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an Error
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var mmvErr *Error
	if errors.As(err, &mmvErr) {
		return mmvErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an Error
func GetErrorCode(err error) ErrorCode {
	var mmvErr *Error
	if errors.As(err, &mmvErr) {
		return mmvErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an Error
func GetErrorDetails(err error) map[string]interface{} {
	var mmvErr *Error
	if errors.As(err, &mmvErr) {
		return mmvErr.Details
	}
	return nil
}

// Message returns the human readable message of err without the code prefix.
// Pattern and planning failures are shown to users in this form.
func Message(err error) string {
	var mmvErr *Error
	if errors.As(err, &mmvErr) {
		return mmvErr.Message
	}
	return err.Error()
}

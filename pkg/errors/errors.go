package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for the fatal error tier. Non-fatal conditions are reported
// through the diagnostics sink instead of these.
const (
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrConfigParse   ErrorCode = "CONFIG_PARSE"
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Pack errors
	ErrRootNotFound   ErrorCode = "ROOT_NOT_FOUND"
	ErrAssetsNotFound ErrorCode = "ASSETS_NOT_FOUND"
	ErrPackAccess     ErrorCode = "PACK_ACCESS"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
	ErrDirCreate  ErrorCode = "DIR_CREATE"
)

// MinipatchError represents a structured error with code and details
type MinipatchError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *MinipatchError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *MinipatchError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *MinipatchError) Is(target error) bool {
	var targetErr *MinipatchError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new MinipatchError with the given code and message
func New(code ErrorCode, message string) *MinipatchError {
	return &MinipatchError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new MinipatchError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *MinipatchError {
	return &MinipatchError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a MinipatchError
func Wrap(err error, code ErrorCode, message string) *MinipatchError {
	if err == nil {
		return nil
	}
	return &MinipatchError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *MinipatchError {
	if err == nil {
		return nil
	}
	return &MinipatchError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *MinipatchError) WithDetail(key string, value interface{}) *MinipatchError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var mpErr *MinipatchError
	if errors.As(err, &mpErr) {
		return mpErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not
// a MinipatchError
func GetErrorCode(err error) ErrorCode {
	var mpErr *MinipatchError
	if errors.As(err, &mpErr) {
		return mpErr.Code
	}
	return ErrUnknown
}

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

	// Product resolution errors
	ErrProductNotFound ErrorCode = "PRODUCT_NOT_FOUND"
	ErrProductRequired ErrorCode = "PRODUCT_REQUIRED"
	ErrEupsExec        ErrorCode = "EUPS_EXEC"

	// Fragment errors
	ErrFragmentMissing ErrorCode = "FRAGMENT_MISSING"
	ErrConfigLoad      ErrorCode = "CONFIG_LOAD"
	ErrConfigParse     ErrorCode = "CONFIG_PARSE"

	// Rewrite errors
	ErrMainpageRewrite ErrorCode = "MAINPAGE_REWRITE"
	ErrTagfileInvalid  ErrorCode = "TAGFILE_INVALID"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
)

// DoxError represents a structured error with code and details
type DoxError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DoxError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DoxError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *DoxError) Is(target error) bool {
	var targetErr *DoxError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DoxError with the given code and message
func New(code ErrorCode, message string) *DoxError {
	return &DoxError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DoxError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DoxError {
	return &DoxError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DoxError
func Wrap(err error, code ErrorCode, message string) *DoxError {
	if err == nil {
		return nil
	}
	return &DoxError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DoxError {
	if err == nil {
		return nil
	}
	return &DoxError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DoxError) WithDetail(key string, value interface{}) *DoxError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var doxErr *DoxError
	if errors.As(err, &doxErr) {
		return doxErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DoxError
func GetErrorCode(err error) ErrorCode {
	var doxErr *DoxError
	if errors.As(err, &doxErr) {
		return doxErr.Code
	}
	return ErrUnknown
}

package core

import "fmt"

// Error code constants
const (
	ErrCodeConfigLoadFailed   = "CONFIG_LOAD_FAILED"
	ErrCodeInvalidConfig      = "INVALID_CONFIG"
	ErrCodeBackendUnavailable = "BACKEND_UNAVAILABLE"
	ErrCodeModelNotFound      = "MODEL_NOT_FOUND"
)

// AppError is the unified application error type: a code for clients,
// a human-readable message and an optional underlying cause.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap supports errors.Unwrap.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// NewAppErrorf creates a new application error with a formatted message.
func NewAppErrorf(code string, cause error, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// ErrBackendUnavailable wraps a failed backend call.
func ErrBackendUnavailable(operation string, cause error) *AppError {
	return NewAppErrorf(ErrCodeBackendUnavailable, cause, "Backend call %s failed", operation)
}

// ErrInvalidConfig reports an invalid configuration field.
func ErrInvalidConfig(field string, reason string) *AppError {
	return NewAppErrorf(ErrCodeInvalidConfig, nil, "Invalid configuration for %s: %s", field, reason)
}

package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// HTTPStatus returns the HTTP status code for this error
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// NotFoundError represents a missing directory entry
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// HTTPStatus returns the HTTP status code for this error
func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// ToolError represents a failed invocation of an external directory tool.
// ExitCode is -1 when the process never started.
type ToolError struct {
	Tool     string
	ExitCode int
	Stderr   string
	Err      error
}

// NewToolError creates a new tool error
func NewToolError(tool string, exitCode int, stderr string, err error) *ToolError {
	return &ToolError{
		Tool:     tool,
		ExitCode: exitCode,
		Stderr:   stderr,
		Err:      err,
	}
}

// Error implements the error interface
func (e *ToolError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
	case e.Stderr != "":
		return fmt.Sprintf("%s exited with code %d: %s", e.Tool, e.ExitCode, e.Stderr)
	default:
		return fmt.Sprintf("%s exited with code %d", e.Tool, e.ExitCode)
	}
}

// Unwrap returns the wrapped error
func (e *ToolError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code for this error
func (e *ToolError) HTTPStatus() int {
	return http.StatusBadGateway
}

// TimeoutError represents an external tool that did not finish in time
type TimeoutError struct {
	Tool    string
	Timeout time.Duration
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(tool string, timeout time.Duration) *TimeoutError {
	return &TimeoutError{
		Tool:    tool,
		Timeout: timeout,
	}
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	if e.Timeout > 0 {
		return fmt.Sprintf("%s timed out after %s", e.Tool, e.Timeout)
	}
	return fmt.Sprintf("%s timed out", e.Tool)
}

// HTTPStatus returns the HTTP status code for this error
func (e *TimeoutError) HTTPStatus() int {
	return http.StatusGatewayTimeout
}

// InternalError represents an internal error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code for this error
func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// HTTPStatuser is implemented by errors that map onto an HTTP status code
type HTTPStatuser interface {
	HTTPStatus() int
}

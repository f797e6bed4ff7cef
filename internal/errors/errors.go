package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Usage errors (USAGE-001 to USAGE-099)
	ErrCodeUsage ErrorCode = "USAGE-001"

	// Task errors (TASK-001 to TASK-099)
	ErrCodeInvalidPosition ErrorCode = "TASK-001"

	// Store errors (STORE-001 to STORE-099)
	ErrCodeStoreCorrupt ErrorCode = "STORE-001"
	ErrCodeStoreLocked  ErrorCode = "STORE-002"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
)

// TaskError represents an error with code, suggestions, and an optional cause
type TaskError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *TaskError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *TaskError) Unwrap() error {
	return e.Cause
}

// New creates a new TaskError
func New(code ErrorCode, message string) *TaskError {
	return &TaskError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new TaskError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *TaskError {
	return &TaskError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *TaskError) WithSuggestion(suggestion string) *TaskError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *TaskError) WithSuggestions(suggestions ...string) *TaskError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// CodeOf returns the code of the first TaskError in err's chain,
// or an empty code if there is none.
func CodeOf(err error) ErrorCode {
	var taskErr *TaskError
	if stderrors.As(err, &taskErr) {
		return taskErr.Code
	}
	return ""
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// Common error constructors for frequently used errors

// NewUsageError creates an error for a missing or invalid command-line parameter
func NewUsageError(message string) *TaskError {
	return New(ErrCodeUsage, message).
		WithSuggestion("Run 'tasks <command> --help' to see the required flags")
}

// NewInvalidPositionError creates an error for a task number outside the list
func NewInvalidPositionError(position, length int) *TaskError {
	msg := fmt.Sprintf("task number %d is out of range", position)
	if length == 0 {
		msg += " (no tasks)"
	} else {
		msg += fmt.Sprintf(" (valid: 1-%d)", length)
	}
	return New(ErrCodeInvalidPosition, msg).
		WithSuggestion("Run 'tasks list' to see current task numbers")
}

// NewStoreCorruptError creates an error for a backing file that cannot be decoded
func NewStoreCorruptError(path string, cause error) *TaskError {
	return Wrap(ErrCodeStoreCorrupt, fmt.Sprintf("failed to parse task file: %s", path), cause).
		WithSuggestions(
			"Check the file syntax and format",
			"Each task needs \"title\", \"priority\" (low, medium, high) and \"completed\"",
		)
}

// NewStoreLockedError creates an error for a task file held by another process
func NewStoreLockedError(path string, cause error) *TaskError {
	return Wrap(ErrCodeStoreLocked, fmt.Sprintf("failed to lock task file: %s", path), cause).
		WithSuggestions(
			"Another tasks process may be running; retry when it finishes",
			"Raise storage.lock_timeout if the file lives on slow storage",
		)
}

// NewFileReadError creates an error for a task file that exists but cannot be read
func NewFileReadError(path string, cause error) *TaskError {
	return Wrap(ErrCodeFileReadFailed, fmt.Sprintf("failed to read task file: %s", path), cause).
		WithSuggestion("Verify you have read permissions on the file")
}

// NewFileWriteError creates an error for a failed save
func NewFileWriteError(path string, cause error) *TaskError {
	return Wrap(ErrCodeFileWriteFailed, fmt.Sprintf("failed to write task file: %s", path), cause).
		WithSuggestion("Check directory permissions and free disk space")
}

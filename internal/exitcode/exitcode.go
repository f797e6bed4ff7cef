package exitcode

import (
	"os"
	"strings"

	"github.com/felixgeelhaar/tasks/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution, including an empty listing
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// InvalidPosition indicates a task number outside the current list
	InvalidPosition = 3

	// CorruptStore indicates the task file exists but cannot be decoded
	CorruptStore = 4

	// IOError indicates the task file could not be read, written or locked
	IOError = 5

	// Interrupted indicates the operation was cancelled by a signal
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// DetermineExitCode maps an error to an exit code. Coded errors are mapped by
// code; errors raised by cobra and pflag are recognized by message.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	switch errors.CodeOf(err) {
	case errors.ErrCodeUsage:
		return UsageError
	case errors.ErrCodeInvalidPosition:
		return InvalidPosition
	case errors.ErrCodeStoreCorrupt:
		return CorruptStore
	case errors.ErrCodeStoreLocked, errors.ErrCodeFileReadFailed, errors.ErrCodeFileWriteFailed:
		return IOError
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "unknown command") || strings.Contains(errMsg, "unknown flag") ||
		strings.Contains(errMsg, "unknown shorthand flag") {
		return UsageError
	}
	if strings.Contains(errMsg, "invalid argument") || strings.Contains(errMsg, "flag needs an argument") {
		return UsageError
	}
	if strings.Contains(errMsg, "accepts") && strings.Contains(errMsg, "arg(s)") {
		return UsageError
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case InvalidPosition:
		return "Invalid task number"
	case CorruptStore:
		return "Task file is corrupt"
	case IOError:
		return "Task file I/O error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}

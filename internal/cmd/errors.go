package cmd

import (
	stderrors "errors"

	"github.com/felixgeelhaar/tasks/internal/errors"
	"github.com/felixgeelhaar/tasks/internal/ux"
)

// reportedError marks an error whose user-facing message was already printed.
// It still carries the original error for exit code selection.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string {
	return e.err.Error()
}

func (e *reportedError) Unwrap() error {
	return e.err
}

func reported(err error) error {
	return &reportedError{err: err}
}

// IsReported reports whether err was already rendered for the user.
func IsReported(err error) bool {
	var r *reportedError
	return stderrors.As(err, &r)
}

// fail renders the outcomes that have a status message of their own and
// passes every other error up as fatal.
func (c *CommandContext) fail(err error, usage string) error {
	c.Logger.WithError(err).DebugContext(c.ctx, "operation failed")

	switch errors.CodeOf(err) {
	case errors.ErrCodeInvalidPosition:
		c.Out.Warn(ux.MsgInvalidPosition)
		return reported(err)
	case errors.ErrCodeUsage:
		if usage != "" {
			c.Out.Warn(usage)
			return reported(err)
		}
	}
	return err
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tasks/internal/errors"
	"github.com/felixgeelhaar/tasks/internal/ux"
)

func newCompleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Mark a task as completed",
		Long: `Mark the task at the given position as completed.

Positions are 1-based as shown by 'tasks list'. Completing a task that is
already completed succeeds and leaves it completed.`,
		Example: `  tasks complete --task 1`,
		Args:    cobra.NoArgs,
		RunE:    runComplete,
	}

	cmd.Flags().Int("task", 0, "position of the task (see 'tasks list')")

	return cmd
}

func runComplete(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("task") {
		cmdCtx.Out.Warn(ux.MsgCompleteUsage)
		return reported(errors.NewUsageError("--task is required"))
	}
	position, _ := cmd.Flags().GetInt("task")

	res, err := cmdCtx.Tracker.Complete(cmdCtx.Context(), position)
	if err != nil {
		return cmdCtx.fail(err, "")
	}

	cmdCtx.Out.Completed(res.Position)
	return nil
}

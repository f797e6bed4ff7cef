package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tasks/internal/errors"
	"github.com/felixgeelhaar/tasks/internal/ux"
)

func newDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a task",
		Long: `Delete the task at the given position.

Tasks after it move up by one, so run 'tasks list' again before the next
delete.`,
		Example: `  tasks delete --task 2`,
		Args:    cobra.NoArgs,
		RunE:    runDelete,
	}

	cmd.Flags().Int("task", 0, "position of the task (see 'tasks list')")

	return cmd
}

func runDelete(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("task") {
		cmdCtx.Out.Warn(ux.MsgDeleteUsage)
		return reported(errors.NewUsageError("--task is required"))
	}
	position, _ := cmd.Flags().GetInt("task")

	res, err := cmdCtx.Tracker.Delete(cmdCtx.Context(), position)
	if err != nil {
		return cmdCtx.fail(err, "")
	}

	removed, _ := res.Task()
	cmdCtx.Out.Deleted(removed.Title)
	return nil
}

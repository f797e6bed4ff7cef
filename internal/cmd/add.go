package cmd

import (
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tasks/internal/errors"
	"github.com/felixgeelhaar/tasks/internal/task"
	"github.com/felixgeelhaar/tasks/internal/ux"
)

func newAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task",
		Long: `Add a pending task to the end of the list.

Identical titles are allowed; every add creates a new task.`,
		Example: `  tasks add --title "Write report" --priority high`,
		Args:    cobra.NoArgs,
		RunE:    runAdd,
	}

	cmd.Flags().String("title", "", "task title")
	cmd.Flags().String("priority", "", "task priority: low, medium, high")

	return cmd
}

func runAdd(cmd *cobra.Command, _ []string) error {
	title, _ := cmd.Flags().GetString("title")
	rawPriority, _ := cmd.Flags().GetString("priority")

	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	if strings.TrimSpace(title) == "" || strings.TrimSpace(rawPriority) == "" {
		cmdCtx.Out.Warn(ux.MsgAddUsage)
		return reported(errors.NewUsageError("--title and --priority are required"))
	}

	if !utf8.ValidString(title) {
		cmdCtx.Out.Warn(ux.MsgInvalidTitle)
		return reported(errors.NewUsageError("--title is not valid UTF-8"))
	}

	priority, err := task.ParsePriority(rawPriority)
	if err != nil {
		cmdCtx.Out.InvalidPriority(rawPriority)
		return reported(errors.Wrap(errors.ErrCodeUsage, "invalid --priority", err))
	}

	res, err := cmdCtx.Tracker.Add(cmdCtx.Context(), title, priority)
	if err != nil {
		return cmdCtx.fail(err, ux.MsgAddUsage)
	}

	added, _ := res.Task()
	cmdCtx.Out.Added(added.Title)
	return nil
}

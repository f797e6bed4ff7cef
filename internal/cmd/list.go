package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tasks/internal/errors"
	"github.com/felixgeelhaar/tasks/internal/tracker"
	"github.com/felixgeelhaar/tasks/internal/ux"
)

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all tasks",
		Long: `List every task in order with its position, priority and status.

The json and yaml formats print the same entries for scripting. Listing
never creates or modifies the task file.`,
		Example: `  tasks list
  tasks list --format json --compact`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	cmd.Flags().String("format", ux.FormatText, "output format: text, json, yaml")
	cmd.Flags().Bool("compact", false, "print json on a single line")

	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := ux.ValidateFormat(format); err != nil {
		return errors.Wrap(errors.ErrCodeUsage, "invalid --format", err)
	}

	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	res, err := cmdCtx.Tracker.List(cmdCtx.Context())
	if err != nil {
		return cmdCtx.fail(err, "")
	}

	if format == ux.FormatText || format == "" {
		renderText(cmdCtx.Out, res)
		return nil
	}

	compact, _ := cmd.Flags().GetBool("compact")
	formatter, err := ux.NewFormatter(format, &ux.FormatterOptions{
		Writer:  cmd.OutOrStdout(),
		Compact: compact,
	})
	if err != nil {
		return err
	}
	entries := res.Entries
	if entries == nil {
		entries = []tracker.Entry{}
	}
	return formatter.Format(entries)
}

func renderText(out *ux.Printer, res tracker.Result) {
	if res.Kind == tracker.KindEmpty {
		out.NoTasks()
		return
	}
	for _, e := range res.Entries {
		out.TaskLine(e.Position, e.Title, e.Priority.String(), e.Marker())
	}
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tasks/internal/errors"
	"github.com/felixgeelhaar/tasks/internal/exitcode"
	"github.com/felixgeelhaar/tasks/internal/log"
	"github.com/felixgeelhaar/tasks/internal/ux"
)

// NewRootCommand builds the tasks command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tasks",
		Short: "Track tasks in a local JSON file",
		Long: `tasks is a small command-line task tracker.

Tasks are kept in order in a JSON file (tasks.json in the current directory
by default) and addressed by their position in the list, as shown by
'tasks list'. Positions change when earlier tasks are deleted.

Commands that change the list lock a sibling file named after the task file
with a .lock suffix (tasks.json.lock). It is left in place and can be
removed whenever no tasks command is running.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("file", "", "task file (default \"tasks.json\", env TASKS_STORAGE_PATH)")
	flags.String("config", "", "config file (default is $HOME/.tasks/config.yaml)")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("log-level", "", "diagnostic log level on stderr: debug, info, warn, error")

	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return errors.Wrap(errors.ErrCodeUsage, "invalid flags", err).
			WithSuggestion(fmt.Sprintf("Run '%s --help' for usage", c.CommandPath()))
	})

	rootCmd.AddCommand(
		newAddCommand(),
		newListCommand(),
		newCompleteCommand(),
		newDeleteCommand(),
		newVersionCommand(),
	)

	return rootCmd
}

// Execute runs the CLI against the process arguments and standard streams
// and returns the exit code.
func Execute(ctx context.Context) int {
	return Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes the command tree with args and returns the process exit code.
// Outcomes already reported to the user are not printed again; any other
// error is written to stderr.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fallback := log.DefaultConfig()
	fallback.Output = log.NewOutput(stderr)
	log.SetDefaultLogger(log.New(fallback))

	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return exitcode.Success
	}

	if ctx.Err() == context.Canceled {
		fmt.Fprintln(stderr, "\nOperation cancelled by user")
		return exitcode.Interrupted
	}

	if !IsReported(err) {
		noColor, _ := rootCmd.PersistentFlags().GetBool("no-color")
		ux.NewPrinter(stderr, !noColor).Fatal(err)
	}

	code := exitcode.DetermineExitCode(err)
	log.DefaultLogger().WithError(err).Debug("command failed",
		"exit_code", code,
		"exit_reason", exitcode.GetExitCodeDescription(code),
	)
	return code
}

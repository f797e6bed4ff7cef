package cmd

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tasks/internal/config"
	"github.com/felixgeelhaar/tasks/internal/log"
	"github.com/felixgeelhaar/tasks/internal/storage"
	"github.com/felixgeelhaar/tasks/internal/tracker"
	"github.com/felixgeelhaar/tasks/internal/ux"
	"github.com/felixgeelhaar/tasks/internal/version"
)

// CommandContext holds the resolved configuration and the collaborators a
// command needs. It is built once per invocation so tests can run commands
// in-process without shared state.
type CommandContext struct {
	Config  *config.Config
	Logger  *log.Logger
	Store   *storage.FileStore
	Tracker *tracker.Tracker

	// Out receives status text, Err receives diagnostics.
	Out *ux.Printer
	Err *ux.Printer

	ctx context.Context
}

// NewCommandContext resolves configuration from the command's flags and wires
// the store, tracker and printers.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger := log.New(loggerConfig(cfg, cmd)).
		With("run_id", uuid.NewString(), "command", cmd.Name())
	log.SetDefaultLogger(logger)

	store := storage.NewFileStore(cfg.Storage.Path,
		storage.WithLockTimeout(cfg.Storage.LockTimeout),
		storage.WithLogger(logger),
	)

	logger.Debug("configuration resolved",
		"path", cfg.Storage.Path,
		"lock_timeout", cfg.Storage.LockTimeout,
		"colors", cfg.Display.Colors,
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return &CommandContext{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Tracker: tracker.New(store, logger),
		Out:     ux.NewPrinter(cmd.OutOrStdout(), cfg.Display.Colors),
		Err:     ux.NewPrinter(cmd.ErrOrStderr(), cfg.Display.Colors),
		ctx:     ctx,
	}, nil
}

// loggerConfig starts from the debug preset at debug level so records carry
// source locations.
func loggerConfig(cfg *config.Config, cmd *cobra.Command) log.Config {
	logCfg := log.DefaultConfig()
	if level := log.ParseLevel(cfg.Log.Level); level == log.LevelDebug {
		logCfg = log.DebugConfig()
	} else {
		logCfg.Level = level
	}
	logCfg.Format = log.ParseFormat(cfg.Log.Format)
	logCfg.Output = log.NewOutput(cmd.ErrOrStderr())
	logCfg.ServiceVersion = version.Version
	return logCfg
}

// Context returns the invocation context.
func (c *CommandContext) Context() context.Context {
	return c.ctx
}

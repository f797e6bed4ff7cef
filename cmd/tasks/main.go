package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/tasks/internal/cmd"
	"github.com/felixgeelhaar/tasks/internal/exitcode"
)

func main() {
	// Cancel in-flight store operations on Ctrl+C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := cmd.Execute(ctx)
	stop()
	exitcode.Exit(code)
}

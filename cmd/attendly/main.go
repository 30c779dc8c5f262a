package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/attendly/attendly/internal/cmd"
	"github.com/attendly/attendly/internal/exitcode"
	"github.com/attendly/attendly/internal/ux"
)

func main() {
	// Create a context that listens for interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		if ctx.Err() == context.Canceled {
			exitcode.Exit(exitcode.Interrupted)
		}

		ux.PrintError(os.Stderr, err)
		exitcode.ExitWithError(err)
	}
	exitcode.Exit(exitcode.Success)
}

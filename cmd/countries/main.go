// Command countries browses the REST Countries dataset in the terminal.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rshade/countries/internal/cli"
	"github.com/rshade/countries/pkg/version"
)

func main() {
	if err := run(); err != nil {
		// Cobra has already printed the error.
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(version.GetVersion())
	return root.ExecuteContext(ctx)
}

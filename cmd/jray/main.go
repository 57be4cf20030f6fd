// Command jray projects JSON documents into node diagrams and keeps text
// and diagram in sync while either is edited.
//
//	jray project config.json          # nodes and edges as JSON
//	jray export config.json -f svg    # render the visible diagram
//	jray explore config.json          # browse and edit in the terminal
//	jray serve --watch config.json    # HTTP API following a file
//
// The process exits with 130 when interrupted and 1 on any other error.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jray/internal/cli"
	"github.com/matzehuels/jray/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()

	switch {
	case err == nil:
	case ctx.Err() != nil:
		os.Exit(130)
	default:
		if code := errors.GetCode(err); code != "" {
			fmt.Fprintf(os.Stderr, "jray: %s (%s)\n", errors.UserMessage(err), code)
		} else {
			fmt.Fprintf(os.Stderr, "jray: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	// The level must be set before config loading so that it is logged.
	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return loadConfig(cmd, args)
	}
	return root.ExecuteContext(ctx)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pipeline-yaml/internal/cli"
	perrors "github.com/matzehuels/pipeline-yaml/pkg/errors"
	"github.com/matzehuels/pipeline-yaml/pkg/observability"
)

const progName = "pipeline-yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx, os.Args[1:])
	code := exitCode(err)
	if code == 1 {
		report(os.Stderr, err)
	}
	if code != 0 {
		os.Exit(code)
	}
}

// exitCode maps a run error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130 // Standard shell convention for SIGINT
	default:
		return 1
	}
}

// report prints a fatal error in the "<prog> ERROR: <msg>, exiting" form.
func report(w io.Writer, err error) {
	fmt.Fprintf(w, "%s ERROR: %s, exiting\n", progName, perrors.UserMessage(err))
}

func run(ctx context.Context, args []string) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	observability.SetPipelineHooks(c.Hooks())

	root := c.RootCommand()
	root.SetArgs(args)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		c.SetLogLevel(cli.LevelFor(verbose))

		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}

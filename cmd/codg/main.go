// Command codg runs the gaze judgement task in a terminal and estimates the
// cone of direct gaze from trial logs
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"codg/internal/core/version"
	"codg/internal/platform/logger"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd(os.Stdin, os.Stdout).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// newRootCmd wires every subcommand to in and out so tests can script them
func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:          "codg",
		Short:        "Cone of direct gaze task runner and estimator",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts := logger.FromEnv()
			if logLevel != "" {
				opts.Level = logLevel
			}
			opts.Service = "codg"
			opts.Writer = cmd.ErrOrStderr()
			logger.Init(opts)
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides LOG_LEVEL")

	root.AddCommand(
		newPlanCmd(),
		newRunCmd(),
		newEstimateCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				cmd.Println(version.Info("codg").String())
			},
		},
	)
	return root
}

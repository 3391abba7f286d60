package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/Tafitantsu/Transport-cost/pkg/buildinfo"
	errs "github.com/Tafitantsu/Transport-cost/pkg/errors"
)

// Process exit codes.
const (
	ExitFailure     = 1
	ExitInvalid     = 2   // the input problem or flags were rejected
	ExitInterrupted = 130 // SIGINT, as shells report it
)

// ExitCode maps the error returned by the root command to a process exit
// status. A nil error maps to 0.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errs.IsInvalid(err):
		return ExitInvalid
	}
	return ExitFailure
}

// RootCommand builds the command tree. The global --verbose flag lowers
// the log level to debug before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   appName,
		Short: "Transport solves transportation problems",
		Long: `Transport builds and optimizes shipping plans for balanced transportation
problems: northwest-corner and penalty (Vogel) initial solutions, stepping-stone
optimization, exact verification, and an HTTP API for stored tasks.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.optimizeCommand())
	root.AddCommand(c.verifyCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.taskCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

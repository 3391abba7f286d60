package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Tafitantsu/Transport-cost/pkg/transport"
)

type inspectOpts struct {
	method    string
	maxRounds int
	plain     bool // print every frame instead of starting the TUI
}

// inspectCommand creates the inspect command, which replays a solve one
// optimizer round at a time.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Step through the optimizer rounds of a problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.method, "method", "m", "", "initial method: corner (default), penalty")
	cmd.Flags().IntVar(&opts.maxRounds, "max-rounds", 0, "optimizer round limit (default 2·n·m)")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "print all rounds without the interactive view")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, path string, opts inspectOpts) error {
	pf, p, err := loadProblem(path)
	if err != nil {
		return err
	}
	method, err := resolveMethod(opts.method, pf.Method)
	if err != nil {
		return err
	}

	frames, err := traceSolve(p, method, opts.maxRounds)
	if err != nil {
		return err
	}
	c.Logger.Debug("traced solve", "method", method, "frames", len(frames))

	if opts.plain {
		for _, f := range frames {
			fmt.Println(renderFrame(f, p.Costs))
			fmt.Println()
		}
		return nil
	}

	_, err = tea.NewProgram(NewInspectModel(frames, p.Costs), tea.WithContext(ctx)).Run()
	return err
}

// traceSolve generates and optimizes p while recording every pivot. The
// cache is bypassed since a cached plan carries no events.
func traceSolve(p transport.Problem, method transport.Method, maxRounds int) ([]frame, error) {
	initial, err := transport.Generate(p, method)
	if err != nil {
		return nil, err
	}
	var rec transport.Recorder
	final, err := transport.Optimize(initial, p.Costs,
		transport.WithObserver(&rec),
		transport.WithMaxRounds(maxRounds))
	if err != nil {
		return nil, err
	}
	return buildFrames(method, initial, rec.Trace.Pivots, final), nil
}

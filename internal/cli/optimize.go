package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	tio "github.com/Tafitantsu/Transport-cost/pkg/io"
)

type optimizeOpts struct {
	costs     string // problem file holding the cost matrix
	output    string
	asJSON    bool
	noCache   bool
	maxRounds int
}

// optimizeCommand creates the optimize command.
func (c *CLI) optimizeCommand() *cobra.Command {
	var opts optimizeOpts

	cmd := &cobra.Command{
		Use:   "optimize [solution]",
		Short: "Optimize a saved plan with the stepping-stone method",
		Example: `  transport solve problem.json -o plan.json
  transport optimize plan.json --costs problem.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOptimize(cmd.Context(), args[0], opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.costs, "costs", "", "problem file with the unit costs (required)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the optimized solution to a JSON file")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the solution as JSON")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&opts.maxRounds, "max-rounds", 0, "optimizer round limit (default 2·n·m)")
	_ = cmd.MarkFlagRequired("costs")

	return cmd
}

func (c *CLI) runOptimize(ctx context.Context, path string, opts optimizeOpts, w io.Writer) error {
	if opts.costs == "" {
		return errors.New("--costs is required")
	}
	initial, err := tio.ImportSolution(path)
	if err != nil {
		return err
	}
	pf, p, err := loadProblem(opts.costs)
	if err != nil {
		return err
	}

	svc, err := c.newService(serviceOpts{noCache: opts.noCache, maxRounds: opts.maxRounds})
	if err != nil {
		return err
	}
	defer svc.Cache.Close()

	prog := newProgress(c.Logger)
	sol, err := svc.Optimize(ctx, initial, p.Costs)
	if err != nil {
		return err
	}
	prog.done("Optimized", "rounds", sol.Rounds, "cost", formatCost(sol.TotalCost))

	if opts.output != "" {
		if err := tio.ExportSolution(sol, opts.output); err != nil {
			return err
		}
	}
	if opts.asJSON {
		return tio.WriteSolution(sol, w)
	}

	method, err := resolveMethod("", pf.Method)
	if err != nil {
		return err
	}
	printSolution(pf.Name, method, sol, p.Costs, initial.TotalCost)
	if opts.output != "" {
		printFile(opts.output)
	}
	return nil
}

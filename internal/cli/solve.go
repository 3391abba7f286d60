package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	tio "github.com/Tafitantsu/Transport-cost/pkg/io"
	"github.com/Tafitantsu/Transport-cost/pkg/service"
	"github.com/Tafitantsu/Transport-cost/pkg/transport"
)

// solveOpts holds the command-line flags for the solve command.
type solveOpts struct {
	method    string // initial-solution method; falls back to the file, then corner
	optimize  bool   // run the stepping-stone method after the generator
	verify    bool   // compare the result with the exact optimum
	asJSON    bool   // write the solution as JSON instead of a table
	output    string // solution output file
	noCache   bool
	maxRounds int
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "solve [file]",
		Short: "Build an initial shipping plan for a problem file",
		Long: `Solve reads a problem (JSON or TOML) and builds an initial plan with the
northwest-corner rule or the penalty method, optionally followed by
stepping-stone optimization.`,
		Example: `  transport solve problem.json
  transport solve problem.toml -m penalty --optimize
  transport solve problem.json --optimize -o plan.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd.Context(), args[0], opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.method, "method", "m", "", "initial method: corner (default), penalty")
	cmd.Flags().BoolVar(&opts.optimize, "optimize", false, "optimize with the stepping-stone method")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "compare with the exact optimum")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the solution as JSON")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the solution to a JSON file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&opts.maxRounds, "max-rounds", 0, "optimizer round limit (default 2·n·m)")

	return cmd
}

// runSolve executes the solve command. Machine-readable output goes to w.
func (c *CLI) runSolve(ctx context.Context, path string, opts solveOpts, w io.Writer) error {
	pf, p, err := loadProblem(path)
	if err != nil {
		return err
	}
	method, err := resolveMethod(opts.method, pf.Method)
	if err != nil {
		return err
	}

	svc, err := c.newService(serviceOpts{noCache: opts.noCache, maxRounds: opts.maxRounds})
	if err != nil {
		return err
	}
	defer svc.Cache.Close()

	prog := newProgress(c.Logger)
	sol, err := svc.Solve(ctx, p, method)
	if err != nil {
		return err
	}
	prog.done("Built initial plan", "method", method, "cost", formatCost(sol.TotalCost))

	initialCost := sol.TotalCost
	if opts.optimize {
		prog = newProgress(c.Logger)
		if sol, err = svc.Optimize(ctx, sol, p.Costs); err != nil {
			return err
		}
		prog.done("Optimized", "rounds", sol.Rounds, "cost", formatCost(sol.TotalCost))
	}

	if opts.output != "" {
		if err := tio.ExportSolution(sol, opts.output); err != nil {
			return err
		}
	}

	if opts.asJSON {
		if err := tio.WriteSolution(sol, w); err != nil {
			return err
		}
	} else {
		printSolution(pf.Name, method, sol, p.Costs, initialCost)
		if opts.output != "" {
			printFile(opts.output)
		}
	}

	if opts.verify {
		if err := c.reportVerify(ctx, svc, p, sol); err != nil {
			return err
		}
	}

	if !opts.asJSON && !opts.optimize && opts.output != "" {
		printNextStep("Optimize the plan", fmt.Sprintf("%s optimize %s --costs %s", appName, opts.output, path))
	}
	return nil
}

// loadProblem reads and validates a problem file.
func loadProblem(path string) (tio.ProblemFile, transport.Problem, error) {
	pf, err := tio.ImportProblem(path)
	if err != nil {
		return tio.ProblemFile{}, transport.Problem{}, err
	}
	p, err := service.Problem(pf.Supply, pf.Demand, pf.Costs)
	if err != nil {
		return tio.ProblemFile{}, transport.Problem{}, fmt.Errorf("%s: %w", path, err)
	}
	return pf, p, nil
}

// resolveMethod picks the flag value, then the file's method, then the
// default.
func resolveMethod(flag, fromFile string) (transport.Method, error) {
	name := flag
	if name == "" {
		name = fromFile
	}
	if name == "" {
		name = defaultMethod
	}
	return service.ParseMethod(name)
}

// printSolution prints a solution as a titled table followed by its stats.
func printSolution(name string, method transport.Method, sol *transport.Solution, costs transport.Matrix, initialCost float64) {
	title := string(method)
	if name != "" {
		title = name + " · " + title
	}
	fmt.Println(StyleTitle.Render(title))
	fmt.Println(renderTableau(sol.Allocation, &costs, tableauMarks{}))

	cost := StyleNumber.Render(formatCost(sol.TotalCost))
	if sol.Status != transport.StatusInitial && initialCost != sol.TotalCost {
		cost += StyleDim.Render(fmt.Sprintf(" (initial %s)", formatCost(initialCost)))
	}
	printKeyValue("Total cost", cost)
	printStats(sol)
	if sol.Status == transport.StatusIterationCap {
		printWarning("Round limit reached; the plan may not be optimal")
	}
}

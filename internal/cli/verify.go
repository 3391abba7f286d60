package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Tafitantsu/Transport-cost/pkg/exact"
	tio "github.com/Tafitantsu/Transport-cost/pkg/io"
	"github.com/Tafitantsu/Transport-cost/pkg/service"
	"github.com/Tafitantsu/Transport-cost/pkg/transport"
)

type verifyOpts struct {
	solution  string // plan to check; when empty both methods are compared
	noCache   bool
	maxRounds int
}

// verifyCommand creates the verify command.
func (c *CLI) verifyCommand() *cobra.Command {
	var opts verifyOpts

	cmd := &cobra.Command{
		Use:   "verify [file]",
		Short: "Compare plans with the exact optimum",
		Long: `Verify solves the problem exactly with a linear-programming solver and
reports how far the heuristic plans are from the optimum. With --solution it
checks a saved plan; otherwise it compares both initial methods, before and
after optimization.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVerify(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.solution, "solution", "", "saved plan to check")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&opts.maxRounds, "max-rounds", 0, "optimizer round limit (default 2·n·m)")

	return cmd
}

func (c *CLI) runVerify(ctx context.Context, path string, opts verifyOpts) error {
	_, p, err := loadProblem(path)
	if err != nil {
		return err
	}
	svc, err := c.newService(serviceOpts{noCache: opts.noCache, maxRounds: opts.maxRounds})
	if err != nil {
		return err
	}
	defer svc.Cache.Close()

	if opts.solution != "" {
		sol, err := tio.ImportSolution(opts.solution)
		if err != nil {
			return err
		}
		return c.reportVerify(ctx, svc, p, sol)
	}

	rows, err := compareMethods(ctx, svc, p)
	if err != nil {
		return err
	}
	fmt.Println(renderComparison(rows))
	return nil
}

// reportVerify checks sol against the exact optimum and prints the verdict.
func (c *CLI) reportVerify(ctx context.Context, svc *service.Service, p transport.Problem, sol *transport.Solution) error {
	sp := spin(ctx, "Solving exactly...")
	rep, err := svc.Verify(ctx, p, sol)
	if err != nil {
		sp.fail("Exact solve failed")
		return err
	}
	sp.stop()

	printKeyValue("Optimum", formatCost(rep.Optimum))
	if rep.Optimal {
		printSuccess("Plan is optimal (cost %s)", formatCost(rep.Cost))
	} else {
		printWarning("Plan costs %s more than the optimum", formatCost(rep.Gap))
	}
	return nil
}

// comparison is one line of the method comparison table.
type comparison struct {
	Method    transport.Method
	Initial   float64
	Optimized *transport.Solution
	Report    exact.Report
}

// compareMethods solves p with every method, optimizes each plan and checks
// it against the exact optimum.
func compareMethods(ctx context.Context, svc *service.Service, p transport.Problem) ([]comparison, error) {
	sp := spin(ctx, "Comparing methods...")
	defer sp.stop()

	var out []comparison
	for _, m := range []transport.Method{transport.MethodCorner, transport.MethodPenalty} {
		sp.update("Comparing methods: %s", m)
		initial, err := svc.Solve(ctx, p, m)
		if err != nil {
			return nil, err
		}
		opt, err := svc.Optimize(ctx, initial, p.Costs)
		if err != nil {
			return nil, err
		}
		rep, err := svc.Verify(ctx, p, opt)
		if err != nil {
			return nil, err
		}
		out = append(out, comparison{Method: m, Initial: initial.TotalCost, Optimized: opt, Report: rep})
	}
	return out, nil
}

func renderComparison(rows []comparison) string {
	data := make([][]string, len(rows))
	for i, r := range rows {
		verdict := iconSuccess
		if !r.Report.Optimal {
			verdict = fmt.Sprintf("+%s", formatCost(r.Report.Gap))
		}
		data[i] = []string{
			string(r.Method),
			formatCost(r.Initial),
			formatCost(r.Optimized.TotalCost),
			fmt.Sprintf("%d", r.Optimized.Rounds),
			formatCost(r.Report.Optimum),
			verdict,
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Method", "Initial", "Optimized", "Rounds", "Optimum", "Gap").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if col == 5 {
				if rows[row].Report.Optimal {
					return styleOptimal.Padding(0, 1)
				}
				return styleCapped.Padding(0, 1)
			}
			return styleCell
		}).
		Render()
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tafitantsu/Transport-cost/pkg/render"
)

const (
	formatSVG = "svg" // rendered with Graphviz
	formatDOT = "dot" // Graphviz source
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	method   string
	optimize bool
	format   string
	output   string // output file; DOT goes to stdout when empty
	noCache  bool
}

// renderCommand creates the render command for drawing basis graphs.
// Sources and destinations become nodes, basic cells become edges labeled
// with their quantity and unit cost.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: formatSVG}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw the basis of a plan as a graph",
		Example: `  transport render problem.json --optimize
  transport render problem.json -m penalty -f dot | dot -Tpng > basis.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.method, "method", "m", "", "initial method: corner (default), penalty")
	cmd.Flags().BoolVar(&opts.optimize, "optimize", false, "draw the optimized plan")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// validateFormat checks the --format flag.
func validateFormat(f string) error {
	switch f {
	case formatSVG, formatDOT:
		return nil
	}
	return fmt.Errorf("invalid format: %s (must be svg or dot)", f)
}

func (c *CLI) runRender(ctx context.Context, path string, opts renderOpts, w io.Writer) error {
	pf, p, err := loadProblem(path)
	if err != nil {
		return err
	}
	method, err := resolveMethod(opts.method, pf.Method)
	if err != nil {
		return err
	}

	svc, err := c.newService(serviceOpts{noCache: opts.noCache})
	if err != nil {
		return err
	}
	defer svc.Cache.Close()

	sol, err := svc.Solve(ctx, p, method)
	if err != nil {
		return err
	}
	if opts.optimize {
		if sol, err = svc.Optimize(ctx, sol, p.Costs); err != nil {
			return err
		}
	}

	dot := render.ToDOT(sol.Allocation, render.Options{Costs: &p.Costs})
	if opts.format == formatDOT {
		if opts.output == "" {
			_, err := io.WriteString(w, dot)
			return err
		}
		return writeOutput(opts.output, []byte(dot))
	}

	prog := newProgress(c.Logger)
	svg, err := render.RenderSVG(dot)
	if err != nil {
		return err
	}
	out := opts.output
	if out == "" {
		out = defaultOutputPath(path, formatSVG)
	}
	if err := writeOutput(out, svg); err != nil {
		return err
	}
	prog.done("Rendered basis", "method", method, "cost", formatCost(sol.TotalCost))
	printFile(out)
	return nil
}

// defaultOutputPath replaces the input's extension with the format's.
func defaultOutputPath(input, format string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return base + "." + format
}

func writeOutput(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

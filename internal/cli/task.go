package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	tio "github.com/Tafitantsu/Transport-cost/pkg/io"
	"github.com/Tafitantsu/Transport-cost/pkg/service"
	"github.com/Tafitantsu/Transport-cost/pkg/task"
	"github.com/Tafitantsu/Transport-cost/pkg/transport"
)

// taskCommand creates the task management command. Tasks are stored under
// the user's data directory and shared with "transport serve --store file".
func (c *CLI) taskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage stored transportation tasks",
	}

	cmd.AddCommand(c.taskCreateCommand())
	cmd.AddCommand(c.taskListCommand())
	cmd.AddCommand(c.taskRecentCommand())
	cmd.AddCommand(c.taskShowCommand())
	cmd.AddCommand(c.taskUpdateCommand())
	cmd.AddCommand(c.taskDeleteCommand())
	cmd.AddCommand(c.taskOptimizeCommand())

	return cmd
}

// withTasks opens the task service, runs fn and closes the backends.
func (c *CLI) withTasks(fn func(*service.Service) error) error {
	svc, err := c.newService(serviceOpts{tasks: true})
	if err != nil {
		return err
	}
	defer svc.Cache.Close()
	defer svc.Store.Close()
	return fn(svc)
}

func (c *CLI) taskCreateCommand() *cobra.Command {
	var name, method string
	cmd := &cobra.Command{
		Use:   "create [file]",
		Short: "Create a task from a problem file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withTasks(func(svc *service.Service) error {
				t, err := createTask(cmd.Context(), svc, args[0], name, method)
				if err != nil {
					return err
				}
				printSuccess("Created task %s", StyleHighlight.Render(t.ID))
				printTask(t)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "task name (default: from the file)")
	cmd.Flags().StringVarP(&method, "method", "m", "", "initial method: corner (default), penalty")
	return cmd
}

// createTask stores the problem at path as a new task.
func createTask(ctx context.Context, svc *service.Service, path, name, method string) (*task.Task, error) {
	pf, err := tio.ImportProblem(path)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = pf.Name
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if method == "" {
		method = pf.Method
	}
	if method == "" {
		method = defaultMethod
	}
	return svc.CreateTask(ctx, service.TaskInput{
		Name:   name,
		Supply: pf.Supply,
		Demand: pf.Demand,
		Costs:  pf.Costs,
		Method: method,
	})
}

func (c *CLI) taskListCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all tasks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withTasks(func(svc *service.Service) error {
				list, err := svc.ListTasks(cmd.Context())
				if err != nil {
					return err
				}
				return printSummaries(cmd.OutOrStdout(), list, asJSON)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func (c *CLI) taskRecentCommand() *cobra.Command {
	var (
		n      int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List the most recently modified tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withTasks(func(svc *service.Service) error {
				list, err := svc.RecentTasks(cmd.Context(), n)
				if err != nil {
					return err
				}
				return printSummaries(cmd.OutOrStdout(), list, asJSON)
			})
		},
	}
	cmd.Flags().IntVarP(&n, "limit", "n", task.DefaultRecent, "number of tasks")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func (c *CLI) taskShowCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a task and its current plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withTasks(func(svc *service.Service) error {
				t, err := svc.GetTask(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), t)
				}
				printTask(t)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func (c *CLI) taskUpdateCommand() *cobra.Command {
	var name, method, file string
	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Rename a task or replace its problem",
		Long: `Update changes a task's name, method or problem data. Changing the method
or the problem recomputes the initial plan and clears any optimized plan.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			upd, err := buildUpdate(cmd, name, method, file)
			if err != nil {
				return err
			}
			return c.withTasks(func(svc *service.Service) error {
				t, err := svc.UpdateTask(cmd.Context(), args[0], upd)
				if err != nil {
					return err
				}
				printSuccess("Updated task %s", StyleHighlight.Render(t.ID))
				printTask(t)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVarP(&method, "method", "m", "", "new initial method")
	cmd.Flags().StringVar(&file, "file", "", "problem file with the new supplies, demands and costs")
	return cmd
}

// buildUpdate turns the flags that were set into a partial update.
func buildUpdate(cmd *cobra.Command, name, method, file string) (service.TaskUpdate, error) {
	var upd service.TaskUpdate
	if cmd.Flags().Changed("name") {
		upd.Name = &name
	}
	if cmd.Flags().Changed("method") {
		upd.Method = &method
	}
	if file != "" {
		pf, err := tio.ImportProblem(file)
		if err != nil {
			return service.TaskUpdate{}, err
		}
		upd.Supply, upd.Demand, upd.Costs = pf.Supply, pf.Demand, pf.Costs
	}
	if upd.Name == nil && upd.Method == nil && upd.Supply == nil {
		return service.TaskUpdate{}, fmt.Errorf("nothing to update: set --name, --method or --file")
	}
	return upd, nil
}

func (c *CLI) taskDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withTasks(func(svc *service.Service) error {
				if err := svc.DeleteTask(cmd.Context(), args[0]); err != nil {
					return err
				}
				printSuccess("Deleted task %s", args[0])
				return nil
			})
		},
	}
}

func (c *CLI) taskOptimizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "optimize [id]",
		Short: "Optimize a task's initial plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withTasks(func(svc *service.Service) error {
				prog := newProgress(c.Logger)
				t, err := svc.OptimizeTask(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				prog.done("Optimized task", "id", t.ID)
				printTask(t)
				return nil
			})
		},
	}
}

// =============================================================================
// Output
// =============================================================================

func printTask(t *task.Task) {
	fmt.Println(StyleTitle.Render(t.Name))
	printKeyValue("ID", t.ID)
	printKeyValue("Method", t.Method)
	printKeyValue("Created", t.CreatedAt.Local().Format(time.DateTime))
	if t.UpdatedAt != nil {
		printKeyValue("Updated", t.UpdatedAt.Local().Format(time.DateTime))
	}
	if t.InitialResult != nil && t.IsOptimized {
		printKeyValue("Initial", formatCost(t.InitialResult.TotalCost))
	}
	if t.Result == nil || t.Result.Allocation == nil {
		printInfo("No plan computed")
		return
	}
	costs, err := transport.NewMatrix(t.Costs)
	if err != nil {
		printWarning("Stored costs are invalid: %v", err)
		return
	}
	sol := t.Result.Solution()
	fmt.Println(renderTableau(sol.Allocation, &costs, tableauMarks{}))
	printKeyValue("Total cost", StyleNumber.Render(formatCost(sol.TotalCost)))
	printStats(sol)
}

func printSummaries(w io.Writer, list []task.Summary, asJSON bool) error {
	if asJSON {
		return writeJSON(w, list)
	}
	if len(list) == 0 {
		printInfo("No tasks")
		return nil
	}

	rows := make([][]string, len(list))
	for i, s := range list {
		cost := "-"
		if s.TotalCost != nil {
			cost = formatCost(*s.TotalCost)
		}
		optimized := ""
		if s.IsOptimized {
			optimized = iconSuccess
		}
		rows[i] = []string{s.ID, s.Name, s.Method, cost, optimized, s.CreatedAt.Local().Format(time.DateTime)}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Method", "Cost", "Optimized", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if col == 0 {
				return styleEmpty
			}
			return styleCell
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

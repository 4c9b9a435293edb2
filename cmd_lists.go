package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gmllt/organizeu/internal/calendar"
	"github.com/gmllt/organizeu/internal/dashboard"
	"github.com/gmllt/organizeu/internal/tui"
	"github.com/spf13/cobra"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Print the calendar of the current month",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), tui.RenderCalendar(calendar.For(time.Now())))
		return err
	},
}

// withApp runs fn against a freshly loaded dashboard.
func withApp(fn func(ctx context.Context, app *dashboard.App, out io.Writer, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, closeStore, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()
		return fn(cmd.Context(), app, cmd.OutOrStdout(), args)
	}
}

// parseIndex turns a 1-based row number into a list index.
func parseIndex(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid row number %q", arg)
	}
	return n - 1, nil
}

func printRows(out io.Writer, rows []dashboard.Row) error {
	for _, row := range rows {
		mark := ""
		if row.Completed {
			mark = " [done]"
		}
		if _, err := fmt.Fprintf(out, "%d. %s%s\n", row.Index+1, row.Label, mark); err != nil {
			return err
		}
	}
	return nil
}

func printAdded(out io.Writer, row dashboard.Row, err error) error {
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "added %d. %s\n", row.Index+1, row.Label)
	return err
}

func removeRow(out io.Writer, arg string, remove func(int) error) error {
	index, err := parseIndex(arg)
	if err != nil {
		return err
	}
	if err := remove(index); err != nil {
		if errors.Is(err, dashboard.ErrNoSuchRow) {
			return fmt.Errorf("no row %s", arg)
		}
		return err
	}
	_, err = fmt.Fprintf(out, "removed %s\n", arg)
	return err
}

func listCommands() []*cobra.Command {
	modules := &cobra.Command{Use: "modules", Short: "Manage modules and courses"}
	modules.AddCommand(
		&cobra.Command{
			Use: "list", Short: "List modules", Args: cobra.NoArgs,
			RunE: withApp(func(ctx context.Context, app *dashboard.App, out io.Writer, args []string) error {
				return printRows(out, app.Modules.Rows())
			}),
		},
		&cobra.Command{
			Use: "add NAME", Short: "Add a module", Args: cobra.ExactArgs(1),
			RunE: withApp(func(ctx context.Context, app *dashboard.App, out io.Writer, args []string) error {
				row, err := app.Modules.Add(ctx, args[0])
				return printAdded(out, row, err)
			}),
		},
		&cobra.Command{
			Use: "rm ROW", Short: "Remove a module by row number", Args: cobra.ExactArgs(1),
			RunE: withApp(func(ctx context.Context, app *dashboard.App, out io.Writer, args []string) error {
				return removeRow(out, args[0], func(i int) error { _, err := app.Modules.Remove(ctx, i); return err })
			}),
		},
	)

	todos := &cobra.Command{Use: "todos", Short: "Manage the to-do list"}
	todos.AddCommand(
		&cobra.Command{
			Use: "list", Short: "List tasks", Args: cobra.NoArgs,
			RunE: withApp(func(ctx context.Context, app *dashboard.App, out io.Writer, args []string) error {
				return printRows(out, app.Todos.Rows())
			}),
		},
		&cobra.Command{
			Use: "add TEXT", Short: "Add a task", Args: cobra.ExactArgs(1),
			RunE: withApp(func(ctx context.Context, app *dashboard.App, out io.Writer, args []string) error {
				row, err := app.Todos.Add(ctx, args[0])
				return printAdded(out, row, err)
			}),
		},
		&cobra.Command{
			Use: "rm ROW", Short: "Remove a task by row number", Args: cobra.ExactArgs(1),
			RunE: withApp(func(ctx context.Context, app *dashboard.App, out io.Writer, args []string) error {
				return removeRow(out, args[0], func(i int) error { _, err := app.Todos.Remove(ctx, i); return err })
			}),
		},
		&cobra.Command{
			Use: "toggle ROW", Short: "Mark a task done or not done", Args: cobra.ExactArgs(1),
			RunE: withApp(func(ctx context.Context, app *dashboard.App, out io.Writer, args []string) error {
				index, err := parseIndex(args[0])
				if err != nil {
					return err
				}
				task, err := app.Todos.Toggle(ctx, index)
				if errors.Is(err, dashboard.ErrNoSuchRow) {
					return fmt.Errorf("no row %s", args[0])
				}
				if err != nil {
					return err
				}
				state := "not done"
				if task.Completed {
					state = "done"
				}
				_, err = fmt.Fprintf(out, "%s: %s\n", task.Text, state)
				return err
			}),
		},
	)

	credits := &cobra.Command{Use: "credits", Short: "Manage course credits"}
	credits.AddCommand(
		&cobra.Command{
			Use: "list", Short: "List credits and their total", Args: cobra.NoArgs,
			RunE: withApp(func(ctx context.Context, app *dashboard.App, out io.Writer, args []string) error {
				if err := printRows(out, app.Credits.Rows()); err != nil {
					return err
				}
				_, err := fmt.Fprintln(out, app.Credits.TotalLabel())
				return err
			}),
		},
		&cobra.Command{
			Use: "add N", Short: "Add a positive number of credits", Args: cobra.ExactArgs(1),
			RunE: withApp(func(ctx context.Context, app *dashboard.App, out io.Writer, args []string) error {
				row, err := app.Credits.Add(ctx, args[0])
				if err := printAdded(out, row, err); err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, app.Credits.TotalLabel())
				return err
			}),
		},
		&cobra.Command{
			Use: "rm ROW", Short: "Remove a credit entry by row number", Args: cobra.ExactArgs(1),
			RunE: withApp(func(ctx context.Context, app *dashboard.App, out io.Writer, args []string) error {
				err := removeRow(out, args[0], func(i int) error { _, err := app.Credits.Remove(ctx, i); return err })
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, app.Credits.TotalLabel())
				return err
			}),
		},
	)

	assignments := &cobra.Command{Use: "assignments", Short: "Manage assignment deadlines"}
	assignments.AddCommand(
		&cobra.Command{
			Use: "list", Short: "List assignments", Args: cobra.NoArgs,
			RunE: withApp(func(ctx context.Context, app *dashboard.App, out io.Writer, args []string) error {
				return printRows(out, app.Assignments.Rows())
			}),
		},
		&cobra.Command{
			Use: "add NAME DATE", Short: "Add an assignment due on DATE (YYYY-MM-DD)", Args: cobra.ExactArgs(2),
			RunE: withApp(func(ctx context.Context, app *dashboard.App, out io.Writer, args []string) error {
				row, err := app.Assignments.Add(ctx, args[0], args[1])
				return printAdded(out, row, err)
			}),
		},
		&cobra.Command{
			Use: "rm ROW", Short: "Remove an assignment by row number", Args: cobra.ExactArgs(1),
			RunE: withApp(func(ctx context.Context, app *dashboard.App, out io.Writer, args []string) error {
				return removeRow(out, args[0], func(i int) error { _, err := app.Assignments.Remove(ctx, i); return err })
			}),
		},
	)

	return []*cobra.Command{modules, todos, credits, assignments}
}

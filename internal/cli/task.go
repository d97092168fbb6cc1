package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/runoshun/taskcal/internal/app"
	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/usecase"
	"github.com/spf13/cobra"
)

// newAddCommand creates the add command for creating tasks.
func newAddCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Date     string
		At       string
		Duration time.Duration
		Urgent   bool
	}

	cmd := &cobra.Command{
		Use:   "add <title>...",
		Short: "Create a new task",
		Long: `Create a new task at the end of its day.

Dates accept today, YYYY-MM-DD, MM/DD/YYYY, a bare YYYY (same month and
day in that year) or a bare DD (day of the current month).

Examples:
  taskcal add Write report
  taskcal add --date 2025-06-12 --at 14:30 --duration 30m Dentist
  taskcal add --urgent Renew passport`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := c.Clock.Now()
			date, err := parseDate(c, opts.Date, now)
			if err != nil {
				return err
			}
			hour, minute, err := parseClock(opts.At)
			if err != nil {
				return err
			}

			out, err := c.NewTaskUseCase().Execute(cmd.Context(), usecase.NewTaskInput{
				Title:    strings.Join(args, " "),
				Start:    at(date, hour, minute),
				Duration: opts.Duration,
				Urgent:   opts.Urgent,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task %s on %s\n", shortID(out.Task.ID), out.Task.DayKey())
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "Date of the task (default today)")
	cmd.Flags().StringVar(&opts.At, "at", "09:00", "Start time (HH:MM)")
	cmd.Flags().DurationVar(&opts.Duration, "duration", domain.DefaultTaskDuration, "Task length")
	cmd.Flags().BoolVar(&opts.Urgent, "urgent", false, "Mark the task urgent")

	return cmd
}

// newListCommand creates the list command.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Date string
		From string
		To   string
	}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `List tasks grouped by day in display order.

Without flags every task is listed. --date lists a single day;
--from and --to bound the range (both inclusive).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in usecase.ListTasksInput
			now := c.Clock.Now()
			var err error

			if opts.Date != "" {
				if in.From, err = parseDate(c, opts.Date, now); err != nil {
					return err
				}
				in.To = in.From
			} else {
				if opts.From != "" {
					if in.From, err = parseDate(c, opts.From, now); err != nil {
						return err
					}
				}
				if opts.To != "" {
					if in.To, err = parseDate(c, opts.To, now); err != nil {
						return err
					}
				}
			}

			out, err := c.ListTasksUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			if len(out.Tasks) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No tasks")
				return nil
			}
			return printTaskTable(cmd.OutOrStdout(), out.Tasks)
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "List a single day")
	cmd.Flags().StringVar(&opts.From, "from", "", "First day included")
	cmd.Flags().StringVar(&opts.To, "to", "", "Last day included")

	return cmd
}

// newShowCommand creates the show command.
func newShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Long:  `Show a task with its subtasks and comment log. IDs may be abbreviated to any unique prefix.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}
			out, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: id})
			if err != nil {
				return err
			}
			printTask(cmd.OutOrStdout(), out.Task)
			return nil
		},
	}
}

// newMoveCommand creates the move command.
func newMoveCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <date>",
		Short: "Move a task to another day",
		Long: `Move a task to another day, keeping its time of day and duration.

The task goes to the end of the target day. Moving to the same day does nothing.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}
			task, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: id})
			if err != nil {
				return err
			}
			date, err := parseDate(c, args[1], task.Task.Date())
			if err != nil {
				return err
			}

			out, err := c.MoveTaskUseCase().Execute(cmd.Context(), usecase.MoveTaskInput{TaskID: id, Date: date})
			if err != nil {
				return err
			}
			if !out.Moved {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s is already on %s\n", shortID(id), out.Task.DayKey())
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Moved task %s to %s\n", shortID(id), out.Task.DayKey())
			return nil
		},
	}
}

// newOrderCommand creates the order command.
func newOrderCommand(c *app.Container) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "order <id> <position>",
		Short: "Change a task's position within a day",
		Long: `Place a task at a 1-based position among the tasks of a day.

With --date the task is moved to that day first; the gap it leaves
behind is closed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}
			position, err := strconv.Atoi(args[1])
			if err != nil || position < 1 {
				return fmt.Errorf("invalid position %q (want 1 or more)", args[1])
			}

			in := usecase.ReorderTaskInput{TaskID: id, Position: position - 1}
			if date != "" {
				if in.Date, err = parseDate(c, date, c.Clock.Now()); err != nil {
					return err
				}
			}

			out, err := c.ReorderTaskUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now #%d on %s\n", shortID(id), out.Task.Order+1, out.Task.DayKey())
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Target day (default the task's day)")

	return cmd
}

// newCpCommand creates the cp command.
func newCpCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "cp <id> [date]",
		Short: "Copy a task",
		Long: `Copy a task with its subtasks and comments, optionally to another day.

A copy on the same day is placed right after the original.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}
			src, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: id})
			if err != nil {
				return err
			}

			date := src.Task.Date()
			if len(args) == 2 {
				if date, err = parseDate(c, args[1], date); err != nil {
					return err
				}
			}

			out, err := c.CopyTaskUseCase().Execute(cmd.Context(), usecase.CopyTaskInput{TaskID: id, Date: date})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Copied task %s to %s on %s\n", shortID(id), shortID(out.Task.ID), out.Task.DayKey())
			return nil
		},
	}
}

// newRmCommand creates the rm command.
func newRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}
			out, err := c.DeleteTaskUseCase().Execute(cmd.Context(), usecase.DeleteTaskInput{TaskID: id})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s: %s\n", shortID(id), out.Task.Title)
			return nil
		},
	}
}

// newDoneCommand creates the done command.
func newDoneCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task's completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}
			out, err := c.ToggleCompleteUseCase().Execute(cmd.Context(), usecase.ToggleTaskInput{TaskID: id})
			if err != nil {
				return err
			}
			state := "open"
			if out.Task.Completed {
				state = "completed"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s marked %s\n", shortID(id), state)
			return nil
		},
	}
}

// newUrgentCommand creates the urgent command.
func newUrgentCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "urgent <id>",
		Short: "Toggle a task's urgent flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}
			out, err := c.ToggleUrgentUseCase().Execute(cmd.Context(), usecase.ToggleTaskInput{TaskID: id})
			if err != nil {
				return err
			}
			state := "not urgent"
			if out.Task.Urgent {
				state = "urgent"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s marked %s\n", shortID(id), state)
			return nil
		},
	}
}

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/runoshun/taskcal/internal/aggregate"
	"github.com/runoshun/taskcal/internal/app"
	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/usecase"
	"github.com/spf13/cobra"
)

const shellPrompt = "taskcal> "

const shellHelp = `Navigation:
  cal                   show the focused period
  goto <date>           focus a date (today, YYYY, MM/DD/YYYY, YYYY-MM-DD, DD)
  view <period>         week, month, quarter or year
  mode <mode>           schedule or activity
  next | prev           move one period forward or back
History:
  undo | redo           revert or reapply the last change
Tasks:
  add, list, show, move, order, cp, rm, done, urgent, comment, subtask, goal, stats
  (same arguments as the command line)
  help                  this text
  quit | exit           leave the shell
`

// newShellCommand creates the shell command.
func newShellCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Date   string
		Period string
	}

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive session with undo and calendar navigation",
		Long: `Start a line-oriented session over the same data.

Changes made in the session can be undone and redone until it ends.
Type 'help' inside the shell for the command list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			period, err := domain.ParsePeriodType(opts.Period)
			if err != nil {
				return err
			}
			focused, err := parseDate(c, opts.Date, c.Clock.Now())
			if err != nil {
				return err
			}

			s := &shell{
				c:       c,
				out:     cmd.OutOrStdout(),
				errOut:  cmd.ErrOrStderr(),
				focused: focused,
				period:  period,
				mode:    aggregate.ModeSchedule,
			}
			return s.run(cmd.Context(), cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "Initially focused date (default today)")
	cmd.Flags().StringVar(&opts.Period, "period", string(domain.PeriodMonth), "Initial period")

	return cmd
}

// errQuit ends the shell loop.
var errQuit = errors.New("quit")

// shell holds the navigation state of one interactive session.
type shell struct {
	focused time.Time
	c       *app.Container
	out     io.Writer
	errOut  io.Writer
	period  domain.PeriodType
	mode    aggregate.Mode
}

func (s *shell) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		_, _ = fmt.Fprint(s.out, shellPrompt)
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(s.out)
			return scanner.Err()
		}

		err := s.exec(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
		}
	}
}

// exec runs one input line.
func (s *shell) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "quit", "exit":
		return errQuit
	case "help", "?":
		_, _ = fmt.Fprint(s.out, shellHelp)
		return nil
	case "cal", "calendar":
		return s.showCalendar(ctx)
	case "goto":
		if len(args) != 1 {
			return errors.New("usage: goto <date>")
		}
		date, err := domain.ParseJumpDate(args[0], s.focused, s.c.Clock.Now())
		if err != nil {
			return err
		}
		s.focused = date
		return s.showCalendar(ctx)
	case "view":
		if len(args) != 1 {
			return errors.New("usage: view <week|month|quarter|year>")
		}
		period, err := domain.ParsePeriodType(args[0])
		if err != nil {
			return err
		}
		s.period = period
		return s.showCalendar(ctx)
	case "mode":
		if len(args) != 1 {
			return errors.New("usage: mode <schedule|activity>")
		}
		s.mode = aggregate.ParseMode(strings.ToLower(args[0]))
		return s.showCalendar(ctx)
	case "next":
		s.focused = s.shift(1)
		return s.showCalendar(ctx)
	case "prev":
		s.focused = s.shift(-1)
		return s.showCalendar(ctx)
	case "undo":
		return s.history(ctx, s.c.UndoUseCase().Execute, "Undid")
	case "redo":
		return s.history(ctx, s.c.RedoUseCase().Execute, "Redid")
	}

	return s.dispatch(ctx, fields)
}

// shift moves the focused date by n periods, clamping the day of month.
func (s *shell) shift(n int) time.Time {
	f := s.focused
	months := 0
	switch s.period {
	case domain.PeriodWeek:
		return f.AddDate(0, 0, 7*n)
	case domain.PeriodMonth:
		months = n
	case domain.PeriodQuarter:
		months = 3 * n
	case domain.PeriodYear:
		months = 12 * n
	}
	first := time.Date(f.Year(), f.Month()+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	day := min(f.Day(), domain.DaysIn(first.Year(), first.Month()))
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

func (s *shell) showCalendar(ctx context.Context) error {
	out, err := s.c.ShowCalendarUseCase().Execute(ctx, usecase.ShowCalendarInput{
		Date:   s.focused,
		Period: s.period,
		Mode:   s.mode,
	})
	if err != nil {
		return err
	}
	return renderCalendar(s.out, out, s.c.Clock.Now())
}

func (s *shell) history(ctx context.Context, run func(context.Context, usecase.HistoryInput) (*usecase.HistoryOutput, error), verb string) error {
	out, err := run(ctx, usecase.HistoryInput{})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "%s: %s\n", verb, out.Description)
	return nil
}

// dispatch runs a task command through a fresh command tree, so flag
// values never leak from one line to the next.
func (s *shell) dispatch(ctx context.Context, args []string) error {
	root := &cobra.Command{
		Use:           "taskcal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newAddCommand(s.c),
		newListCommand(s.c),
		newShowCommand(s.c),
		newMoveCommand(s.c),
		newOrderCommand(s.c),
		newCpCommand(s.c),
		newRmCommand(s.c),
		newDoneCommand(s.c),
		newUrgentCommand(s.c),
		newCommentCommand(s.c),
		newSubtaskCommand(s.c),
		newGoalCommand(s.c),
		newStatsCommand(s.c),
	)
	root.SetOut(s.out)
	root.SetErr(s.errOut)
	root.SetArgs(args)

	if sub, _, err := root.Find(args); err != nil || sub == root {
		return fmt.Errorf("unknown command %q (type 'help')", args[0])
	}
	return root.ExecuteContext(ctx)
}

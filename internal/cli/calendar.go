package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/runoshun/taskcal/internal/aggregate"
	"github.com/runoshun/taskcal/internal/app"
	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/usecase"
	"github.com/spf13/cobra"
)

// tierMarks are the heatmap suffixes of day cells, indexed by tier.
var tierMarks = [...]string{"", ".", ":", "+", "*", "#"}

// newCalendarCommand creates the calendar command.
func newCalendarCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Date   string
		Period string
		Mode   string
	}

	cmd := &cobra.Command{
		Use:     "calendar",
		Aliases: []string{"cal"},
		Short:   "Show a calendar period",
		Long: `Show the week, month, quarter or year containing --date as a
Sunday-first grid. Each day shows its task count and a heatmap mark
(. : + * #) relative to the busiest day in view.

--mode schedule counts every task; --mode activity counts completed ones.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			period, err := domain.ParsePeriodType(opts.Period)
			if err != nil {
				return err
			}
			date, err := parseDate(c, opts.Date, c.Clock.Now())
			if err != nil {
				return err
			}

			out, err := c.ShowCalendarUseCase().Execute(cmd.Context(), usecase.ShowCalendarInput{
				Date:   date,
				Period: period,
				Mode:   aggregate.ParseMode(opts.Mode),
			})
			if err != nil {
				return err
			}
			return renderCalendar(cmd.OutOrStdout(), out, c.Clock.Now())
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "Reference date (default today)")
	cmd.Flags().StringVar(&opts.Period, "period", string(domain.PeriodMonth), "week, month, quarter or year")
	cmd.Flags().StringVar(&opts.Mode, "mode", string(aggregate.ModeSchedule), "schedule or activity")

	return cmd
}

// renderCalendar writes the grid, then the week summaries.
// A week view also lists each day's tasks and goal.
func renderCalendar(w io.Writer, out *usecase.ShowCalendarOutput, now time.Time) error {
	grid := out.Grid
	_, _ = fmt.Fprintf(w, "%s  %s to %s  (%s, %d total)\n\n",
		grid.Period, domain.DayKey(grid.PeriodStart), domain.DayKey(grid.PeriodEnd), out.View.Mode, out.View.Total)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	_, _ = fmt.Fprintln(tw, "WEEK\tSun\tMon\tTue\tWed\tThu\tFri\tSat\t")
	today := domain.DayKey(now)
	for i, row := range out.View.Cells {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, dayCell(cell, today))
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t\n", grid.Weeks[i].Key(), strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(w)
	sw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(sw, "WEEK\tRANGE\tDONE\tGOAL")
	for _, s := range out.Weeks {
		key := s.Key
		if s.IsCurrent {
			key += " <"
		}
		goal := s.Goal
		if goal == "" {
			goal = "-"
		}
		_, _ = fmt.Fprintf(sw, "%s\t%s - %s\t%d/%d\t%s\n", key, s.StartLabel, s.EndLabel, s.CompletedCount, s.TaskCount, goal)
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	if grid.Period == domain.PeriodWeek {
		renderWeekDays(w, out.View)
	}
	return nil
}

// dayCell formats one grid day as "DD(n)mark", bracketing today.
// Days outside the requested period show their number in parentheses.
func dayCell(cell aggregate.DayCell, today string) string {
	s := fmt.Sprintf("%d", cell.Bucket.Date.Day())
	if cell.Bucket.InPeriod && cell.Count > 0 {
		s += fmt.Sprintf("(%d)%s", cell.Count, tierMarks[cell.Tier])
	}
	if !cell.Bucket.InPeriod {
		s = "(" + s + ")"
	}
	if cell.Bucket.Key() == today {
		s = "[" + s + "]"
	}
	return s
}

func renderWeekDays(w io.Writer, view *aggregate.View) {
	for _, row := range view.Cells {
		for _, cell := range row {
			_, _ = fmt.Fprintf(w, "\n%s", cell.Bucket.Date.Format("Mon Jan 2 2006"))
			if cell.Goal != "" {
				_, _ = fmt.Fprintf(w, "  goal: %s", cell.Goal)
			}
			_, _ = fmt.Fprintln(w)
			for _, t := range cell.Tasks {
				mark := checkMark(t.Completed)
				if t.Urgent {
					mark += "!"
				}
				_, _ = fmt.Fprintf(w, "  %s %s %s  (%s)\n", mark, t.Start.Format("15:04"), t.Title, shortID(t.ID))
			}
		}
	}
}

// newStatsCommand creates the stats command.
func newStatsCommand(c *app.Container) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show yearly completion statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowStatsUseCase().Execute(cmd.Context(), usecase.ShowStatsInput{Year: year})
			if err != nil {
				return err
			}
			s := out.Summary

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Year %d\n", s.Year)
			_, _ = fmt.Fprintf(w, "  Tasks:       %d\n", s.TotalTasks)
			_, _ = fmt.Fprintf(w, "  Completed:   %d (%.0f%%)\n", s.CompletedTasks, s.CompletionRate()*100)
			_, _ = fmt.Fprintf(w, "  Active days: %d\n", s.ActiveDays)
			_, _ = fmt.Fprintf(w, "  Best day:    %d completed\n\n", s.MaxDailyCount)

			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "MONTH\tTASKS\tCOMPLETED")
			for _, m := range s.Months {
				_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\n", m.Month.String()[:3], m.Tasks, m.Completed)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Calendar year (default this year)")

	return cmd
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/runoshun/taskcal/internal/app"
	"github.com/runoshun/taskcal/internal/domain"
)

// shortIDLen is how many ID characters tables show.
const shortIDLen = 8

// errAmbiguousID is returned when an ID prefix matches several tasks.
var errAmbiguousID = errors.New("ambiguous task id")

// resolveTaskID expands an ID prefix to the full ID of exactly one task.
func resolveTaskID(c *app.Container, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("%w: empty id", domain.ErrTaskNotFound)
	}
	tasks, err := c.Tasks.List()
	if err != nil {
		return "", fmt.Errorf("list tasks: %w", err)
	}

	var matches []string
	for _, t := range tasks {
		if t.ID == arg {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, arg) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", domain.ErrTaskNotFound, arg)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("%w: %s matches %d tasks", errAmbiguousID, arg, len(matches))
}

// parseDate resolves a date argument relative to focused. Empty means focused.
func parseDate(c *app.Container, input string, focused time.Time) (time.Time, error) {
	if strings.TrimSpace(input) == "" {
		return domain.DateOf(focused), nil
	}
	return domain.ParseJumpDate(input, focused, c.Clock.Now())
}

// parseClock parses an "HH:MM" time of day.
func parseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q (want HH:MM)", s)
	}
	return t.Hour(), t.Minute(), nil
}

// at combines a calendar date with a time of day in the local zone.
func at(date time.Time, hour, minute int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.Local)
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// formatDuration renders d as "1h", "1h30m" or "45m".
func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h, m := int(d.Hours()), int(d.Minutes())%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%dm", h, m)
}

func checkMark(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func flags(t *domain.Task) string {
	var f []string
	if t.Completed {
		f = append(f, "done")
	}
	if t.Urgent {
		f = append(f, "urgent")
	}
	if len(f) == 0 {
		return "-"
	}
	return strings.Join(f, ",")
}

// printTaskTable writes tasks as an aligned table.
func printTaskTable(w io.Writer, tasks []*domain.Task) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tDATE\tTIME\tDURATION\tFLAGS\tSUBTASKS\tTITLE")
	for _, t := range tasks {
		subtasks := "-"
		if len(t.Subtasks) > 0 {
			subtasks = fmt.Sprintf("%d/%d", t.CompletedSubtasks(), len(t.Subtasks))
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(t.ID),
			t.DayKey(),
			t.Start.Format("15:04"),
			formatDuration(t.Duration()),
			flags(t),
			subtasks,
			t.Title,
		)
	}
	return tw.Flush()
}

// printTask writes the detail view of one task.
func printTask(w io.Writer, t *domain.Task) {
	_, _ = fmt.Fprintf(w, "%s %s\n", checkMark(t.Completed), t.Title)
	_, _ = fmt.Fprintf(w, "  ID:       %s\n", t.ID)
	_, _ = fmt.Fprintf(w, "  When:     %s - %s\n", t.Start.Format("2006-01-02 15:04"), t.End.Format("15:04"))
	_, _ = fmt.Fprintf(w, "  Order:    %d\n", t.Order)
	if t.Urgent {
		_, _ = fmt.Fprintln(w, "  Urgent:   yes")
	}

	if len(t.Subtasks) > 0 {
		_, _ = fmt.Fprintf(w, "\nSubtasks (%d/%d):\n", t.CompletedSubtasks(), len(t.Subtasks))
		for _, s := range t.Subtasks {
			_, _ = fmt.Fprintf(w, "  %s %s  (%s)\n", checkMark(s.Completed), s.Title, shortID(s.ID))
		}
	}

	if len(t.Comments) > 0 {
		_, _ = fmt.Fprintln(w, "\nComments:")
		for _, cm := range t.Comments {
			_, _ = fmt.Fprintf(w, "  - %s\n", cm.Text)
		}
	}
}

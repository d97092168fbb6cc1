package aggregate

import (
	"time"

	"github.com/runoshun/taskcal/internal/calendar"
	"github.com/runoshun/taskcal/internal/domain"
)

// LabelLayout formats week boundary labels such as "Jan 2".
const LabelLayout = "Jan 2"

// WeekSummary describes one grid row.
type WeekSummary struct {
	Start          time.Time
	End            time.Time
	Key            string // ISO week key of Start
	StartLabel     string
	EndLabel       string
	Goal           string
	TaskCount      int
	CompletedCount int
	IsCurrent      bool
}

// WeekSummaries returns one summary per row of grid.
func WeekSummaries(tasks []*domain.Task, weekly domain.Goals, grid *calendar.Grid, now time.Time) []WeekSummary {
	return weekSummaries(IndexByDay(tasks), weekly, grid, now)
}

func weekSummaries(idx DayIndex, weekly domain.Goals, grid *calendar.Grid, now time.Time) []WeekSummary {
	current := domain.WeekKey(domain.WeekStart(now))
	out := make([]WeekSummary, 0, len(grid.Weeks))
	seen := make(map[time.Time]struct{}, len(grid.Weeks))

	for _, w := range grid.Weeks {
		if _, dup := seen[w.Start]; dup {
			continue
		}
		seen[w.Start] = struct{}{}

		s := WeekSummary{
			Start:      w.Start,
			End:        w.End(),
			Key:        w.Key(),
			StartLabel: w.Start.Format(LabelLayout),
			EndLabel:   w.End().Format(LabelLayout),
			Goal:       weekly.Get(w.Key()),
		}
		s.IsCurrent = s.Key == current
		for _, b := range w.Days {
			s.TaskCount += idx.Count(b.Date, ModeSchedule)
			s.CompletedCount += idx.Count(b.Date, ModeActivity)
		}
		out = append(out, s)
	}
	return out
}

// MonthCount holds the totals of one month.
type MonthCount struct {
	Month     time.Month
	Tasks     int
	Completed int
}

// YearSummary aggregates a calendar year.
type YearSummary struct {
	Months         [12]MonthCount
	Year           int
	TotalTasks     int
	CompletedTasks int
	ActiveDays     int // Days with at least one completed task
	MaxDailyCount  int // Highest completed count on a single day
}

// CompletionRate returns CompletedTasks/TotalTasks, or 0 for an empty year.
func (y YearSummary) CompletionRate() float64 {
	if y.TotalTasks == 0 {
		return 0
	}
	return float64(y.CompletedTasks) / float64(y.TotalTasks)
}

// Year summarizes the tasks starting in year.
func Year(tasks []*domain.Task, year int) YearSummary {
	s := YearSummary{Year: year}
	for i := range s.Months {
		s.Months[i].Month = time.Month(i + 1)
	}

	perDay := make(map[string]int)
	for _, t := range tasks {
		if t.Start.Year() != year {
			continue
		}
		m := &s.Months[t.Start.Month()-1]
		m.Tasks++
		s.TotalTasks++
		if t.Completed {
			m.Completed++
			s.CompletedTasks++
			perDay[t.DayKey()]++
		}
	}

	s.ActiveDays = len(perDay)
	for _, n := range perDay {
		s.MaxDailyCount = max(s.MaxDailyCount, n)
	}
	return s
}

// Package aggregate derives per-day, per-week and per-year statistics
// from task snapshots. Every function is pure; inputs are never mutated.
package aggregate

import (
	"slices"
	"time"

	"github.com/runoshun/taskcal/internal/calendar"
	"github.com/runoshun/taskcal/internal/domain"
)

// Mode selects which tasks a day count includes.
type Mode string

// Count modes.
const (
	ModeActivity Mode = "activity" // Completed tasks only
	ModeSchedule Mode = "schedule" // Every task
)

// ParseMode parses a mode name. Unknown names fall back to ModeSchedule.
func ParseMode(s string) Mode {
	if Mode(s) == ModeActivity {
		return ModeActivity
	}
	return ModeSchedule
}

// Counts reports whether task t is included under mode m.
func (m Mode) Counts(t *domain.Task) bool {
	if m == ModeActivity {
		return t.Completed
	}
	return true
}

// DayIndex maps a day key to the tasks starting that day in display order.
type DayIndex map[string][]*domain.Task

// IndexByDay groups tasks by start day. Each day is sorted by order,
// then start time, then ID.
func IndexByDay(tasks []*domain.Task) DayIndex {
	idx := make(DayIndex)
	for _, t := range tasks {
		key := t.DayKey()
		idx[key] = append(idx[key], t)
	}
	for _, day := range idx {
		slices.SortFunc(day, domain.CompareTasks)
	}
	return idx
}

// On returns the tasks of date.
func (idx DayIndex) On(date time.Time) []*domain.Task {
	return idx[domain.DayKey(date)]
}

// Count returns how many tasks of date mode includes.
func (idx DayIndex) Count(date time.Time, mode Mode) int {
	n := 0
	for _, t := range idx.On(date) {
		if mode.Counts(t) {
			n++
		}
	}
	return n
}

// DayCell is one annotated grid day.
type DayCell struct {
	Goal   string
	Tasks  []*domain.Task
	Bucket calendar.Bucket
	Count  int
	Tier   Tier
}

// View is a grid annotated with tasks, goals and statistics.
type View struct {
	Grid     *calendar.Grid
	Cells    [][]DayCell // One slice of seven cells per grid row
	Weeks    []WeekSummary
	Mode     Mode
	MaxCount int // Highest day count inside the grid
	Total    int // Sum of day counts inside the grid
}

// Cell returns the cell of date, if the grid contains it.
func (v *View) Cell(date time.Time) (DayCell, bool) {
	key := domain.DayKey(date)
	for _, row := range v.Cells {
		for _, c := range row {
			if c.Bucket.Key() == key {
				return c, true
			}
		}
	}
	return DayCell{}, false
}

// Annotate builds the view of grid over the task snapshot.
func Annotate(tasks []*domain.Task, weekly, daily domain.Goals, grid *calendar.Grid, mode Mode, now time.Time) *View {
	idx := IndexByDay(tasks)
	v := &View{
		Grid:  grid,
		Mode:  mode,
		Cells: make([][]DayCell, len(grid.Weeks)),
	}

	for i, w := range grid.Weeks {
		row := make([]DayCell, calendar.DaysPerWeek)
		for j, b := range w.Days {
			count := idx.Count(b.Date, mode)
			row[j] = DayCell{
				Bucket: b,
				Tasks:  idx.On(b.Date),
				Count:  count,
				Goal:   daily.Get(b.Key()),
			}
			v.Total += count
			v.MaxCount = max(v.MaxCount, count)
		}
		v.Cells[i] = row
	}

	for i := range v.Cells {
		for j := range v.Cells[i] {
			v.Cells[i][j].Tier = TierFor(v.Cells[i][j].Count, v.MaxCount)
		}
	}

	v.Weeks = weekSummaries(idx, weekly, grid, now)
	return v
}

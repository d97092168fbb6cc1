// Package calendar generates the day/week grids shared by every calendar view.
//
// Grids are laid out in Sunday-first rows of seven days. ISO weeks are not
// used for layout; they only name weeks through domain.WeekKey.
package calendar

import (
	"fmt"
	"time"

	"github.com/runoshun/taskcal/internal/domain"
)

// DaysPerWeek is the width of every grid row.
const DaysPerWeek = 7

// Bucket is one day cell of a grid.
type Bucket struct {
	Date         time.Time // Calendar date (midnight UTC)
	InFocusMonth bool      // Same month and year as the reference date
	InFocusYear  bool      // Same year as the reference date
	InPeriod     bool      // Inside the requested period
}

// Key returns the day period key of the bucket.
func (b Bucket) Key() string {
	return domain.DayKey(b.Date)
}

// Week is one grid row.
type Week struct {
	Start time.Time // Sunday
	Days  [DaysPerWeek]Bucket
}

// End returns the Saturday closing the row.
func (w Week) End() time.Time {
	return w.Days[DaysPerWeek-1].Date
}

// Key returns the ISO week key of the row's start.
func (w Week) Key() string {
	return domain.WeekKey(w.Start)
}

// Grid is an ordered sequence of week rows covering a period.
// Fields are ordered to minimize memory padding.
type Grid struct {
	Reference   time.Time         // Focused date
	PeriodStart time.Time         // First day of the requested period
	PeriodEnd   time.Time         // Last day of the requested period
	Period      domain.PeriodType // Requested period type
	Weeks       []Week
}

// Start returns the first date in the grid.
func (g *Grid) Start() time.Time {
	if len(g.Weeks) == 0 {
		return time.Time{}
	}
	return g.Weeks[0].Start
}

// End returns the last date in the grid.
func (g *Grid) End() time.Time {
	if len(g.Weeks) == 0 {
		return time.Time{}
	}
	return g.Weeks[len(g.Weeks)-1].End()
}

// Contains reports whether the calendar date of t lies in the grid.
func (g *Grid) Contains(t time.Time) bool {
	d := domain.DateOf(t)
	return !d.Before(g.Start()) && !d.After(g.End())
}

// Days returns every bucket in row order.
func (g *Grid) Days() []Bucket {
	days := make([]Bucket, 0, len(g.Weeks)*DaysPerWeek)
	for _, w := range g.Weeks {
		days = append(days, w.Days[:]...)
	}
	return days
}

// WeekStarts returns the start date of every row.
func (g *Grid) WeekStarts() []time.Time {
	starts := make([]time.Time, len(g.Weeks))
	for i, w := range g.Weeks {
		starts[i] = w.Start
	}
	return starts
}

// Generate builds the grid of period around reference.
//
//   - week: the row containing reference
//   - month: rows from the week of the 1st to the week of the last day
//   - quarter: rows whose start falls between the week of the quarter's
//     first day and the quarter's last day
//   - year: rows from the week of January 1 to the week of December 31
func Generate(reference time.Time, period domain.PeriodType) (*Grid, error) {
	ref := domain.DateOf(reference)

	var periodStart, periodEnd, lastRowStart time.Time
	switch period {
	case domain.PeriodWeek:
		periodStart, periodEnd = domain.WeekStart(ref), domain.WeekEnd(ref)
		lastRowStart = periodStart
	case domain.PeriodMonth:
		periodStart, periodEnd = domain.MonthStart(ref), domain.MonthEnd(ref)
		lastRowStart = domain.WeekStart(periodEnd)
	case domain.PeriodQuarter:
		periodStart, periodEnd = domain.QuarterStart(ref), domain.QuarterEnd(ref)
		lastRowStart = domain.WeekStart(periodEnd)
	case domain.PeriodYear:
		periodStart, periodEnd = domain.YearStart(ref), domain.YearEnd(ref)
		lastRowStart = domain.WeekStart(periodEnd)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPeriod, period)
	}

	g := &Grid{
		Reference:   ref,
		Period:      period,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
	}
	for start := domain.WeekStart(periodStart); !start.After(lastRowStart); start = start.AddDate(0, 0, DaysPerWeek) {
		g.Weeks = append(g.Weeks, g.buildWeek(start))
	}
	return g, nil
}

func (g *Grid) buildWeek(start time.Time) Week {
	w := Week{Start: start}
	for i := range DaysPerWeek {
		d := start.AddDate(0, 0, i)
		w.Days[i] = Bucket{
			Date:         d,
			InFocusMonth: d.Year() == g.Reference.Year() && d.Month() == g.Reference.Month(),
			InFocusYear:  d.Year() == g.Reference.Year(),
			InPeriod:     !d.Before(g.PeriodStart) && !d.After(g.PeriodEnd),
		}
	}
	return w
}

// MustGenerate is like Generate but panics on an invalid period.
// It is intended for callers holding a validated domain.PeriodType.
func MustGenerate(reference time.Time, period domain.PeriodType) *Grid {
	g, err := Generate(reference, period)
	if err != nil {
		panic(err)
	}
	return g
}

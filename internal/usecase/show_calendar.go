package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/taskcal/internal/aggregate"
	"github.com/runoshun/taskcal/internal/calendar"
	"github.com/runoshun/taskcal/internal/domain"
)

// ShowCalendarInput contains the parameters for rendering a calendar period.
type ShowCalendarInput struct {
	Date   time.Time         // Reference date (zero = today)
	Period domain.PeriodType // Week, month, quarter or year
	Mode   aggregate.Mode    // Count mode for heatmap tiers
}

// ShowCalendarOutput contains the annotated grid.
type ShowCalendarOutput struct {
	Grid  *calendar.Grid
	View  *aggregate.View
	Weeks []aggregate.WeekSummary
}

// ShowCalendar is the use case for building a calendar view.
type ShowCalendar struct {
	tasks domain.TaskRepository
	goals domain.GoalRepository
	clock domain.Clock
	cache *calendar.Cache
}

// NewShowCalendar creates a new ShowCalendar use case.
func NewShowCalendar(tasks domain.TaskRepository, goals domain.GoalRepository, clock domain.Clock) *ShowCalendar {
	return &ShowCalendar{tasks: tasks, goals: goals, clock: clock}
}

// WithCache memoizes grids in cache.
func (uc *ShowCalendar) WithCache(cache *calendar.Cache) *ShowCalendar {
	uc.cache = cache
	return uc
}

// Execute generates the grid of in.Period around in.Date and annotates it.
func (uc *ShowCalendar) Execute(_ context.Context, in ShowCalendarInput) (*ShowCalendarOutput, error) {
	now := uc.clock.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}

	grid, err := uc.grid(date, in.Period)
	if err != nil {
		return nil, err
	}

	tasks, err := uc.tasks.List()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	weekly, err := uc.goals.Goals(domain.GoalScopeWeek)
	if err != nil {
		return nil, fmt.Errorf("get weekly goals: %w", err)
	}
	daily, err := uc.goals.Goals(domain.GoalScopeDay)
	if err != nil {
		return nil, fmt.Errorf("get daily goals: %w", err)
	}

	view := aggregate.Annotate(tasks, weekly, daily, grid, in.Mode, now)
	return &ShowCalendarOutput{Grid: grid, View: view, Weeks: view.Weeks}, nil
}

func (uc *ShowCalendar) grid(date time.Time, period domain.PeriodType) (*calendar.Grid, error) {
	if uc.cache != nil {
		return uc.cache.Get(date, period)
	}
	return calendar.Generate(date, period)
}

package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskcal/internal/aggregate"
	"github.com/runoshun/taskcal/internal/calendar"
	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/testutil"
)

func calendarFixture() (*testutil.MockTaskRepository, *testutil.MockGoalRepository) {
	done := domain.NewTask("a", "Done", at(10, 8), 0)
	done.Completed = true
	open := domain.NewTask("b", "Open", at(10, 9), 0)
	open.Order = 1
	later := domain.NewTask("c", "Later", at(20, 9), 0)
	goals := testutil.NewMockGoalRepository()
	goals.Weekly.Set("2025-23", "Week goal")
	goals.Daily.Set("2025-06-10", "Day goal")
	return testutil.NewMockTaskRepository(done, open, later), goals
}

func TestShowCalendar_Execute_Month(t *testing.T) {
	tasks, goals := calendarFixture()
	clock := &testutil.MockClock{NowTime: june10}
	uc := NewShowCalendar(tasks, goals, clock)

	out, err := uc.Execute(context.Background(), ShowCalendarInput{Period: domain.PeriodMonth, Mode: aggregate.ModeSchedule})

	require.NoError(t, err)
	assert.Len(t, out.Grid.Weeks, 5)
	assert.Equal(t, 3, out.View.Total)

	cell, ok := out.View.Cell(at(10, 0))
	require.True(t, ok)
	assert.Equal(t, 2, cell.Count)
	assert.Equal(t, "Day goal", cell.Goal)
	assert.Equal(t, aggregate.Tier5, cell.Tier)

	require.Len(t, out.Weeks, 5)
	assert.Equal(t, "Week goal", out.Weeks[1].Goal)
	assert.True(t, out.Weeks[1].IsCurrent)
}

func TestShowCalendar_Execute_ActivityMode(t *testing.T) {
	tasks, goals := calendarFixture()
	uc := NewShowCalendar(tasks, goals, &testutil.MockClock{NowTime: june10})

	out, err := uc.Execute(context.Background(), ShowCalendarInput{Date: at(1, 0), Period: domain.PeriodMonth, Mode: aggregate.ModeActivity})

	require.NoError(t, err)
	assert.Equal(t, 1, out.View.Total)
	cell, _ := out.View.Cell(at(20, 0))
	assert.Equal(t, aggregate.TierNone, cell.Tier)
}

func TestShowCalendar_Execute_UsesCache(t *testing.T) {
	tasks, goals := calendarFixture()
	cache := calendar.NewCache()
	uc := NewShowCalendar(tasks, goals, &testutil.MockClock{NowTime: june10}).WithCache(cache)

	for range 3 {
		_, err := uc.Execute(context.Background(), ShowCalendarInput{Period: domain.PeriodWeek})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, cache.Len())
}

func TestShowCalendar_Execute_InvalidPeriod(t *testing.T) {
	tasks, goals := calendarFixture()
	uc := NewShowCalendar(tasks, goals, &testutil.MockClock{NowTime: june10})

	_, err := uc.Execute(context.Background(), ShowCalendarInput{Period: "fortnight"})

	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

package calendar

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskcal/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func requireWellFormed(t *testing.T, g *Grid) {
	t.Helper()
	require.NotEmpty(t, g.Weeks)
	for i, w := range g.Weeks {
		assert.Equal(t, time.Sunday, w.Start.Weekday(), "row %d", i)
		for j, b := range w.Days {
			assert.Equal(t, w.Start.AddDate(0, 0, j), b.Date, "row %d day %d", i, j)
		}
		if i > 0 {
			assert.Equal(t, g.Weeks[i-1].Start.AddDate(0, 0, DaysPerWeek), w.Start, "row %d is contiguous", i)
		}
	}
	assert.False(t, g.PeriodStart.Before(g.Start()), "grid covers period start")
	assert.False(t, g.PeriodEnd.After(g.End()), "grid covers period end")
}

func TestGenerate_Week(t *testing.T) {
	g, err := Generate(time.Date(2025, 6, 18, 15, 30, 0, 0, time.UTC), domain.PeriodWeek)
	require.NoError(t, err)
	requireWellFormed(t, g)

	require.Len(t, g.Weeks, 1)
	assert.Equal(t, date(2025, 6, 15), g.Start())
	assert.Equal(t, date(2025, 6, 21), g.End())
	for _, b := range g.Days() {
		assert.True(t, b.InPeriod)
	}
}

func TestGenerate_Month(t *testing.T) {
	g, err := Generate(date(2025, 6, 18), domain.PeriodMonth)
	require.NoError(t, err)
	requireWellFormed(t, g)

	assert.Len(t, g.Weeks, 5)
	assert.Equal(t, date(2025, 6, 1), g.Start())
	assert.Equal(t, date(2025, 7, 5), g.End())

	last := g.Weeks[4].Days[6]
	assert.Equal(t, date(2025, 7, 5), last.Date)
	assert.False(t, last.InFocusMonth)
	assert.False(t, last.InPeriod)
	assert.True(t, last.InFocusYear)

	first := g.Weeks[0].Days[0]
	assert.True(t, first.InFocusMonth)
	assert.True(t, first.InPeriod)
}

func TestGenerate_MonthExactlyFourRows(t *testing.T) {
	g, err := Generate(date(2026, 2, 10), domain.PeriodMonth)
	require.NoError(t, err)
	requireWellFormed(t, g)

	assert.Len(t, g.Weeks, 4)
	assert.Equal(t, date(2026, 2, 1), g.Start())
	assert.Equal(t, date(2026, 2, 28), g.End())
}

func TestGenerate_Quarter(t *testing.T) {
	g, err := Generate(date(2025, 5, 20), domain.PeriodQuarter)
	require.NoError(t, err)
	requireWellFormed(t, g)

	assert.Len(t, g.Weeks, 14)
	assert.Equal(t, date(2025, 3, 30), g.Start())
	assert.Equal(t, date(2025, 6, 29), g.Weeks[len(g.Weeks)-1].Start)
	assert.Equal(t, date(2025, 4, 1), g.PeriodStart)
	assert.Equal(t, date(2025, 6, 30), g.PeriodEnd)

	// Days of other months inside the quarter are in period but out of focus.
	apr := g.Weeks[1].Days[0]
	assert.Equal(t, date(2025, 4, 6), apr.Date)
	assert.True(t, apr.InPeriod)
	assert.False(t, apr.InFocusMonth)

	mar := g.Weeks[0].Days[0]
	assert.False(t, mar.InPeriod)
}

func TestGenerate_Year(t *testing.T) {
	g, err := Generate(date(2025, 8, 1), domain.PeriodYear)
	require.NoError(t, err)
	requireWellFormed(t, g)

	assert.Len(t, g.Weeks, 53)
	assert.Equal(t, date(2024, 12, 29), g.Start())
	assert.Equal(t, date(2026, 1, 3), g.End())
	assert.False(t, g.Weeks[0].Days[0].InFocusYear)
	assert.True(t, g.Weeks[0].Days[3].InFocusYear)
}

func TestGenerate_InvalidPeriod(t *testing.T) {
	_, err := Generate(date(2025, 1, 1), domain.PeriodType("decade"))
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

func TestGenerate_WeekKeyStableAcrossPeriods(t *testing.T) {
	ref := date(2025, 6, 18)
	var keys []string
	for _, p := range domain.AllPeriodTypes() {
		g, err := Generate(ref, p)
		require.NoError(t, err)

		found := false
		for _, w := range g.Weeks {
			if !ref.Before(w.Start) && !ref.After(w.End()) {
				keys = append(keys, w.Key())
				found = true
			}
		}
		require.True(t, found, "period %s contains reference", p)
	}

	for _, k := range keys {
		assert.Equal(t, "2025-24", k)
	}
}

func TestGrid_Contains(t *testing.T) {
	g := MustGenerate(date(2025, 6, 18), domain.PeriodMonth)

	assert.True(t, g.Contains(time.Date(2025, 7, 5, 23, 0, 0, 0, time.UTC)))
	assert.True(t, g.Contains(date(2025, 6, 1)))
	assert.False(t, g.Contains(date(2025, 5, 31)))
	assert.False(t, g.Contains(date(2025, 7, 6)))
}

func TestGrid_DaysAndWeekStarts(t *testing.T) {
	g := MustGenerate(date(2025, 6, 18), domain.PeriodMonth)

	assert.Len(t, g.Days(), 35)
	assert.Equal(t, []time.Time{
		date(2025, 6, 1), date(2025, 6, 8), date(2025, 6, 15), date(2025, 6, 22), date(2025, 6, 29),
	}, g.WeekStarts())
}

func TestCache_MemoizesByDateAndPeriod(t *testing.T) {
	c := NewCache()

	a, err := c.Get(time.Date(2025, 6, 18, 8, 0, 0, 0, time.UTC), domain.PeriodMonth)
	require.NoError(t, err)
	b, err := c.Get(time.Date(2025, 6, 18, 20, 0, 0, 0, time.UTC), domain.PeriodMonth)
	require.NoError(t, err)
	assert.Same(t, a, b)

	_, err = c.Get(date(2025, 6, 18), domain.PeriodWeek)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	_, err = c.Get(date(2025, 6, 18), domain.PeriodType("bad"))
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
	assert.Equal(t, 2, c.Len())
}

func TestCache_ConcurrentGet(t *testing.T) {
	c := NewCache()
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Get(date(2025, 1, 1+i%4), domain.PeriodYear)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 4, c.Len())
}

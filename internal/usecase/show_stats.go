package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskcal/internal/aggregate"
	"github.com/runoshun/taskcal/internal/domain"
)

// ShowStatsInput selects the year to summarize.
type ShowStatsInput struct {
	Year int // Calendar year (0 = current year)
}

// ShowStatsOutput contains the year summary.
type ShowStatsOutput struct {
	Summary aggregate.YearSummary
}

// ShowStats is the use case for yearly statistics.
type ShowStats struct {
	tasks domain.TaskRepository
	clock domain.Clock
}

// NewShowStats creates a new ShowStats use case.
func NewShowStats(tasks domain.TaskRepository, clock domain.Clock) *ShowStats {
	return &ShowStats{tasks: tasks, clock: clock}
}

// Execute summarizes in.Year.
func (uc *ShowStats) Execute(_ context.Context, in ShowStatsInput) (*ShowStatsOutput, error) {
	year := in.Year
	if year == 0 {
		year = uc.clock.Now().Year()
	}
	tasks, err := uc.tasks.List()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return &ShowStatsOutput{Summary: aggregate.Year(tasks, year)}, nil
}

package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/importer"
)

// ExportDataInput selects the export encoding.
type ExportDataInput struct {
	Format importer.Format // json or yaml
}

// ExportDataOutput contains the encoded bundle.
type ExportDataOutput struct {
	Data  []byte
	Tasks int // Number of exported tasks
}

// ExportData is the use case for exporting every collection.
type ExportData struct {
	tasks domain.TaskRepository
	goals domain.GoalRepository
	clock domain.Clock
}

// NewExportData creates a new ExportData use case.
func NewExportData(tasks domain.TaskRepository, goals domain.GoalRepository, clock domain.Clock) *ExportData {
	return &ExportData{tasks: tasks, goals: goals, clock: clock}
}

// Execute encodes tasks and both goal maps as one bundle.
func (uc *ExportData) Execute(_ context.Context, in ExportDataInput) (*ExportDataOutput, error) {
	if !in.Format.Structured() {
		return nil, fmt.Errorf("%w: export supports json and yaml, got %q", domain.ErrInvalidFormat, in.Format)
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

	data, err := importer.EncodeBundle(&importer.Bundle{
		ExportedAt:  uc.clock.Now().UTC(),
		WeeklyGoals: weekly,
		DailyGoals:  daily,
		Events:      tasks,
	}, in.Format)
	if err != nil {
		return nil, err
	}
	return &ExportDataOutput{Data: data, Tasks: len(tasks)}, nil
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/usecase/shared"
)

// ReorderTaskInput contains the parameters for placing a task at a position.
// Fields are ordered to minimize memory padding.
type ReorderTaskInput struct {
	Date     time.Time // Target date (zero = the task's current date)
	TaskID   string    // Task to place
	Position int       // 0-based position among the target day's tasks
}

// ReorderTaskOutput contains the result of reordering.
type ReorderTaskOutput struct {
	Task    *domain.Task   // The placed task
	Changed []*domain.Task // Every task whose date or order changed
}

// ReorderTask is the use case for dragging a task inside or between days.
type ReorderTask struct {
	tasks   domain.TaskRepository
	logger  domain.Logger
	history *domain.UndoStack
}

// NewReorderTask creates a new ReorderTask use case.
func NewReorderTask(tasks domain.TaskRepository, logger domain.Logger) *ReorderTask {
	return &ReorderTask{tasks: tasks, logger: logger}
}

// WithHistory records reorders on history.
func (uc *ReorderTask) WithHistory(history *domain.UndoStack) *ReorderTask {
	uc.history = history
	return uc
}

// Execute inserts the task at in.Position on in.Date and shifts the rest.
// When the date changes, the source day's gap is closed.
func (uc *ReorderTask) Execute(_ context.Context, in ReorderTaskInput) (*ReorderTaskOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	date := in.Date
	if date.IsZero() {
		date = task.Start
	}

	all, err := uc.tasks.List()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	original := shared.IndexByID(shared.CloneAll(all))
	others := shared.Without(all, task.ID)

	placed := task.MoveTo(date)
	changed := domain.InsertAt(others, placed, in.Position)
	if !task.OnDate(date) {
		changed = append(changed, domain.CloseGap(others, task.Start)...)
	}

	if err := uc.tasks.Save(changed...); err != nil {
		return nil, fmt.Errorf("save tasks: %w", err)
	}

	record(uc.history, domain.Operation{
		Kind:   domain.OpReorder,
		Title:  task.Title,
		Before: shared.Snapshot(original, changed),
		After:  changed,
	})
	uc.logger.Info("task", fmt.Sprintf("reordered %s: %s #%d", task.ID, placed.DayKey(), placed.Order))

	return &ReorderTaskOutput{Task: placed, Changed: changed}, nil
}

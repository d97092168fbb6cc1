package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/usecase/shared"
)

// MoveTaskInput contains the parameters for moving a task to another date.
type MoveTaskInput struct {
	Date   time.Time // Target calendar date; time of day is ignored
	TaskID string    // Task to move
}

// MoveTaskOutput contains the result of moving a task.
type MoveTaskOutput struct {
	Task  *domain.Task // The task after the move
	Moved bool         // False when the target was the current date
}

// MoveTask is the use case for the drop half of a drag gesture.
type MoveTask struct {
	tasks   domain.TaskRepository
	logger  domain.Logger
	history *domain.UndoStack
}

// NewMoveTask creates a new MoveTask use case.
func NewMoveTask(tasks domain.TaskRepository, logger domain.Logger) *MoveTask {
	return &MoveTask{tasks: tasks, logger: logger}
}

// WithHistory records moves on history.
func (uc *MoveTask) WithHistory(history *domain.UndoStack) *MoveTask {
	uc.history = history
	return uc
}

// Execute places the task on in.Date, keeping its time of day and duration.
// The task goes to the end of the target day and the source day's orders
// are renumbered. Moving to the current date writes nothing.
func (uc *MoveTask) Execute(_ context.Context, in MoveTaskInput) (*MoveTaskOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	if task.OnDate(in.Date) {
		return &MoveTaskOutput{Task: task}, nil
	}

	all, err := uc.tasks.List()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	original := shared.IndexByID(shared.CloneAll(all))
	others := shared.Without(all, task.ID)

	moved := task.MoveTo(in.Date)
	moved.Order = domain.NextOrder(others, in.Date)
	changed := append([]*domain.Task{moved}, domain.CloseGap(others, task.Start)...)

	if err := uc.tasks.Save(changed...); err != nil {
		return nil, fmt.Errorf("save tasks: %w", err)
	}

	record(uc.history, domain.Operation{
		Kind:   domain.OpMove,
		Title:  task.Title,
		Before: shared.Snapshot(original, changed),
		After:  changed,
	})
	uc.logger.Info("task", fmt.Sprintf("moved %s: %s -> %s", task.ID, task.DayKey(), moved.DayKey()))

	return &MoveTaskOutput{Task: moved, Moved: true}, nil
}

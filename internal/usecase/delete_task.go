package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/usecase/shared"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	TaskID string // Task ID to delete
}

// DeleteTaskOutput contains the result of deleting a task.
type DeleteTaskOutput struct {
	Task      *domain.Task // The deleted task
	Reordered int          // Tasks renumbered to close the gap
}

// DeleteTask is the use case for deleting a task.
type DeleteTask struct {
	tasks   domain.TaskRepository
	logger  domain.Logger
	history *domain.UndoStack
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(tasks domain.TaskRepository, logger domain.Logger) *DeleteTask {
	return &DeleteTask{tasks: tasks, logger: logger}
}

// WithHistory records deletions on history.
func (uc *DeleteTask) WithHistory(history *domain.UndoStack) *DeleteTask {
	uc.history = history
	return uc
}

// Execute deletes a task and closes the ordering gap on its day.
func (uc *DeleteTask) Execute(_ context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	op, err := removeTask(uc.tasks, task)
	if err != nil {
		return nil, err
	}
	record(uc.history, op)
	uc.logger.Info("task", fmt.Sprintf("deleted %s: %q", task.ID, task.Title))

	return &DeleteTaskOutput{Task: task, Reordered: len(op.After)}, nil
}

// removeTask deletes task, renumbers the rest of its day, and returns
// the operation describing the change.
func removeTask(repo domain.TaskRepository, task *domain.Task) (domain.Operation, error) {
	all, err := repo.List()
	if err != nil {
		return domain.Operation{}, fmt.Errorf("list tasks: %w", err)
	}
	original := shared.IndexByID(shared.CloneAll(all))

	if err := repo.Delete(task.ID); err != nil {
		return domain.Operation{}, fmt.Errorf("delete task: %w", err)
	}

	gap := domain.CloseGap(shared.Without(all, task.ID), task.Start)
	if len(gap) > 0 {
		if err := repo.Save(gap...); err != nil {
			return domain.Operation{}, fmt.Errorf("save tasks: %w", err)
		}
	}

	return domain.Operation{
		Kind:   domain.OpDelete,
		Title:  task.Title,
		Before: append([]*domain.Task{task.Clone()}, shared.Snapshot(original, gap)...),
		After:  gap,
	}, nil
}

package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/usecase/shared"
)

// ToggleTaskInput identifies the task to toggle.
type ToggleTaskInput struct {
	TaskID string
}

// ToggleTaskOutput contains the toggled task.
type ToggleTaskOutput struct {
	Task *domain.Task
}

// ToggleComplete is the use case for flipping a task's completed flag.
type ToggleComplete struct {
	tasks   domain.TaskRepository
	logger  domain.Logger
	history *domain.UndoStack
}

// NewToggleComplete creates a new ToggleComplete use case.
func NewToggleComplete(tasks domain.TaskRepository, logger domain.Logger) *ToggleComplete {
	return &ToggleComplete{tasks: tasks, logger: logger}
}

// WithHistory records toggles on history.
func (uc *ToggleComplete) WithHistory(history *domain.UndoStack) *ToggleComplete {
	uc.history = history
	return uc
}

// Execute flips Completed.
func (uc *ToggleComplete) Execute(_ context.Context, in ToggleTaskInput) (*ToggleTaskOutput, error) {
	task, err := editTask(uc.tasks, uc.history, in.TaskID, func(t *domain.Task) error {
		t.Completed = !t.Completed
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.logger.Info("task", fmt.Sprintf("%s completed=%t", task.ID, task.Completed))
	return &ToggleTaskOutput{Task: task}, nil
}

// ToggleUrgent is the use case for flipping a task's urgent flag.
type ToggleUrgent struct {
	tasks   domain.TaskRepository
	logger  domain.Logger
	history *domain.UndoStack
}

// NewToggleUrgent creates a new ToggleUrgent use case.
func NewToggleUrgent(tasks domain.TaskRepository, logger domain.Logger) *ToggleUrgent {
	return &ToggleUrgent{tasks: tasks, logger: logger}
}

// WithHistory records toggles on history.
func (uc *ToggleUrgent) WithHistory(history *domain.UndoStack) *ToggleUrgent {
	uc.history = history
	return uc
}

// Execute flips Urgent.
func (uc *ToggleUrgent) Execute(_ context.Context, in ToggleTaskInput) (*ToggleTaskOutput, error) {
	task, err := editTask(uc.tasks, uc.history, in.TaskID, func(t *domain.Task) error {
		t.Urgent = !t.Urgent
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.logger.Info("task", fmt.Sprintf("%s urgent=%t", task.ID, task.Urgent))
	return &ToggleTaskOutput{Task: task}, nil
}

// editTask loads a task, applies edit, saves it and records an edit operation.
func editTask(repo domain.TaskRepository, history *domain.UndoStack, id string, edit func(*domain.Task) error) (*domain.Task, error) {
	task, err := shared.GetTask(repo, id)
	if err != nil {
		return nil, err
	}
	before := task.Clone()
	if err := edit(task); err != nil {
		return nil, err
	}
	if err := repo.Save(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	record(history, domain.Operation{
		Kind:   domain.OpEdit,
		Title:  task.Title,
		Before: []*domain.Task{before},
		After:  []*domain.Task{task},
	})
	return task, nil
}

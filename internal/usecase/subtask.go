package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/taskcal/internal/domain"
)

// AddSubtaskInput contains the parameters for adding a subtask.
type AddSubtaskInput struct {
	TaskID string
	Title  string
}

// SubtaskOutput contains the parent task and the affected subtask.
type SubtaskOutput struct {
	Task    *domain.Task
	Subtask domain.Subtask
}

// AddSubtask is the use case for appending a checklist entry.
type AddSubtask struct {
	tasks   domain.TaskRepository
	ids     domain.IDGenerator
	history *domain.UndoStack
}

// NewAddSubtask creates a new AddSubtask use case.
func NewAddSubtask(tasks domain.TaskRepository, ids domain.IDGenerator) *AddSubtask {
	return &AddSubtask{tasks: tasks, ids: ids}
}

// WithHistory records subtask changes on history.
func (uc *AddSubtask) WithHistory(history *domain.UndoStack) *AddSubtask {
	uc.history = history
	return uc
}

// Execute appends an incomplete subtask.
func (uc *AddSubtask) Execute(_ context.Context, in AddSubtaskInput) (*SubtaskOutput, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.ErrEmptyTitle
	}
	var sub domain.Subtask
	task, err := editTask(uc.tasks, uc.history, in.TaskID, func(t *domain.Task) error {
		sub = t.AddSubtask(uc.ids.NewID(), in.Title)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &SubtaskOutput{Task: task, Subtask: sub}, nil
}

// ToggleSubtaskInput identifies the subtask to toggle.
type ToggleSubtaskInput struct {
	TaskID    string
	SubtaskID string
}

// ToggleSubtask is the use case for checking or unchecking a subtask.
type ToggleSubtask struct {
	tasks   domain.TaskRepository
	history *domain.UndoStack
}

// NewToggleSubtask creates a new ToggleSubtask use case.
func NewToggleSubtask(tasks domain.TaskRepository) *ToggleSubtask {
	return &ToggleSubtask{tasks: tasks}
}

// WithHistory records subtask changes on history.
func (uc *ToggleSubtask) WithHistory(history *domain.UndoStack) *ToggleSubtask {
	uc.history = history
	return uc
}

// Execute flips the subtask's completed flag.
func (uc *ToggleSubtask) Execute(_ context.Context, in ToggleSubtaskInput) (*SubtaskOutput, error) {
	var sub domain.Subtask
	task, err := editTask(uc.tasks, uc.history, in.TaskID, func(t *domain.Task) error {
		toggled, err := t.ToggleSubtask(in.SubtaskID)
		if err != nil {
			return fmt.Errorf("toggle %s: %w", in.SubtaskID, err)
		}
		sub = *toggled
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &SubtaskOutput{Task: task, Subtask: sub}, nil
}

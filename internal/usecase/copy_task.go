package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/usecase/shared"
)

// CopyTaskInput contains the parameters for copying a task.
type CopyTaskInput struct {
	Date   time.Time // Target date (zero = the source's date)
	TaskID string    // Source task ID to copy
}

// CopyTaskOutput contains the result of copying a task.
type CopyTaskOutput struct {
	Task *domain.Task // The new task
}

// CopyTask is the use case for pasting a copy of a task on a date.
type CopyTask struct {
	tasks   domain.TaskRepository
	ids     domain.IDGenerator
	history *domain.UndoStack
}

// NewCopyTask creates a new CopyTask use case.
func NewCopyTask(tasks domain.TaskRepository, ids domain.IDGenerator) *CopyTask {
	return &CopyTask{tasks: tasks, ids: ids}
}

// WithHistory records copies on history.
func (uc *CopyTask) WithHistory(history *domain.UndoStack) *CopyTask {
	uc.history = history
	return uc
}

// Execute copies a task onto a date.
// The copy keeps title, flags, time of day, duration, subtasks and comments,
// all under fresh IDs. On the source's own day it is placed right after the
// source; on any other day it is appended.
func (uc *CopyTask) Execute(_ context.Context, in CopyTaskInput) (*CopyTaskOutput, error) {
	source, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	date := in.Date
	if date.IsZero() {
		date = source.Start
	}

	all, err := uc.tasks.List()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	original := shared.IndexByID(shared.CloneAll(all))

	task := source.MoveTo(date)
	task.ID = uc.ids.NewID()
	for i := range task.Subtasks {
		task.Subtasks[i].ID = uc.ids.NewID()
	}
	for i := range task.Comments {
		task.Comments[i].ID = uc.ids.NewID()
	}

	var changed []*domain.Task
	if source.OnDate(date) {
		position := 0
		for i, t := range domain.TasksOnDate(all, date) {
			if t.ID == source.ID {
				position = i + 1
			}
		}
		changed = domain.InsertAt(all, task, position)
	} else {
		task.Order = domain.NextOrder(all, date)
		changed = []*domain.Task{task}
	}

	if err := uc.tasks.Save(changed...); err != nil {
		return nil, fmt.Errorf("save tasks: %w", err)
	}

	record(uc.history, domain.Operation{
		Kind:   domain.OpCreate,
		Title:  task.Title,
		Before: shared.Snapshot(original, changed),
		After:  changed,
	})

	return &CopyTaskOutput{Task: task}, nil
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/usecase/shared"
)

// ListTasksInput contains the parameters for listing tasks.
// A zero From or To leaves that side of the range open.
type ListTasksInput struct {
	From time.Time // First date included
	To   time.Time // Last date included
}

// ListTasksOutput contains the listed tasks in display order.
type ListTasksOutput struct {
	Tasks []*domain.Task
}

// ListTasks is the use case for listing tasks by date range.
type ListTasks struct {
	tasks domain.TaskRepository
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(tasks domain.TaskRepository) *ListTasks {
	return &ListTasks{tasks: tasks}
}

// Execute returns the tasks starting between in.From and in.To inclusive.
func (uc *ListTasks) Execute(_ context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	all, err := uc.tasks.List()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	out := make([]*domain.Task, 0, len(all))
	for _, t := range all {
		d := t.Date()
		if !in.From.IsZero() && d.Before(domain.DateOf(in.From)) {
			continue
		}
		if !in.To.IsZero() && d.After(domain.DateOf(in.To)) {
			continue
		}
		out = append(out, t)
	}
	return &ListTasksOutput{Tasks: out}, nil
}

// ShowTaskInput identifies the task to show.
type ShowTaskInput struct {
	TaskID string
}

// ShowTaskOutput contains the task.
type ShowTaskOutput struct {
	Task *domain.Task
}

// ShowTask is the use case for displaying one task.
type ShowTask struct {
	tasks domain.TaskRepository
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(tasks domain.TaskRepository) *ShowTask {
	return &ShowTask{tasks: tasks}
}

// Execute returns the task with in.TaskID.
func (uc *ShowTask) Execute(_ context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	return &ShowTaskOutput{Task: task}, nil
}

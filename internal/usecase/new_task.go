package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/taskcal/internal/domain"
)

// NewTaskInput contains the parameters for creating a new task.
// Fields are ordered to minimize memory padding.
type NewTaskInput struct {
	Start    time.Time     // Start instant (required)
	Title    string        // Task title (required)
	Duration time.Duration // Length of the task (0 = one hour)
	Urgent   bool          // Mark the task urgent
}

// NewTaskOutput contains the result of creating a new task.
type NewTaskOutput struct {
	Task *domain.Task // The created task
}

// NewTask is the use case for creating a new task.
type NewTask struct {
	tasks   domain.TaskRepository
	ids     domain.IDGenerator
	logger  domain.Logger
	history *domain.UndoStack
}

// NewNewTask creates a new NewTask use case.
func NewNewTask(tasks domain.TaskRepository, ids domain.IDGenerator, logger domain.Logger) *NewTask {
	return &NewTask{
		tasks:  tasks,
		ids:    ids,
		logger: logger,
	}
}

// WithHistory records created tasks on history.
func (uc *NewTask) WithHistory(history *domain.UndoStack) *NewTask {
	uc.history = history
	return uc
}

// Execute creates a task appended to the end of its day.
func (uc *NewTask) Execute(_ context.Context, in NewTaskInput) (*NewTaskOutput, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}
	if in.Start.IsZero() {
		return nil, fmt.Errorf("%w: start is required", domain.ErrInvalidDate)
	}

	existing, err := uc.tasks.List()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	task := domain.NewTask(uc.ids.NewID(), title, in.Start, in.Duration)
	task.Urgent = in.Urgent
	task.Order = domain.NextOrder(existing, in.Start)

	if err := uc.tasks.Save(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	record(uc.history, domain.Operation{Kind: domain.OpCreate, Title: task.Title, After: []*domain.Task{task}})
	uc.logger.Info("task", fmt.Sprintf("created %s: %q on %s", task.ID, task.Title, task.DayKey()))

	return &NewTaskOutput{Task: task}, nil
}

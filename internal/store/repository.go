package store

import (
	"fmt"

	"github.com/runoshun/taskcal/internal/domain"
)

// Ensure repositories implement their domain interfaces.
var (
	_ domain.TaskRepository = (*TaskRepo)(nil)
	_ domain.GoalRepository = (*GoalRepo)(nil)
)

// TaskRepo exposes a State as a domain.TaskRepository.
type TaskRepo struct {
	state *State
}

// NewTaskRepo creates a TaskRepo over state.
func NewTaskRepo(state *State) *TaskRepo {
	return &TaskRepo{state: state}
}

// Get retrieves a task by ID. Returns nil if not found.
func (r *TaskRepo) Get(id string) (*domain.Task, error) {
	return r.state.Task(id), nil
}

// List returns every task.
func (r *TaskRepo) List() ([]*domain.Task, error) {
	return r.state.Tasks(), nil
}

// Save validates and stores tasks in a single write.
func (r *TaskRepo) Save(tasks ...*domain.Task) error {
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("save task: %w", err)
		}
	}
	r.state.PutTask(tasks...)
	return nil
}

// Delete removes a task by ID.
func (r *TaskRepo) Delete(id string) error {
	if !r.state.DeleteTask(id) {
		return domain.ErrTaskNotFound
	}
	return nil
}

// Replace validates tasks and swaps the whole collection.
func (r *TaskRepo) Replace(tasks []*domain.Task) error {
	if err := domain.ValidateTasks(tasks); err != nil {
		return fmt.Errorf("replace tasks: %w", err)
	}
	r.state.ReplaceTasks(tasks)
	return nil
}

// GoalRepo exposes a State as a domain.GoalRepository.
type GoalRepo struct {
	state *State
}

// NewGoalRepo creates a GoalRepo over state.
func NewGoalRepo(state *State) *GoalRepo {
	return &GoalRepo{state: state}
}

// Goals returns a copy of the goal map for scope.
func (r *GoalRepo) Goals(scope domain.GoalScope) (domain.Goals, error) {
	switch scope {
	case domain.GoalScopeWeek:
		return r.state.WeeklyGoals(), nil
	case domain.GoalScopeDay:
		return r.state.DailyGoals(), nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrInvalidGoalScope, scope)
}

// SetGoal stores text under key. Empty text removes the goal.
func (r *GoalRepo) SetGoal(scope domain.GoalScope, key, text string) error {
	switch scope {
	case domain.GoalScopeWeek:
		r.state.SetWeeklyGoal(key, text)
	case domain.GoalScopeDay:
		r.state.SetDailyGoal(key, text)
	default:
		return fmt.Errorf("%w: %q", domain.ErrInvalidGoalScope, scope)
	}
	return nil
}

// ReplaceGoals discards both maps and stores the given ones.
func (r *GoalRepo) ReplaceGoals(weekly, daily domain.Goals) error {
	r.state.ReplaceGoals(weekly, daily)
	return nil
}

// Package shared holds helpers used by several use cases.
package shared

import (
	"fmt"

	"github.com/runoshun/taskcal/internal/domain"
)

// GetTask retrieves a task by ID and returns domain.ErrTaskNotFound if not found.
// This centralizes the common pattern of:
//
//	task, err := repo.Get(taskID)
//	if err != nil { return nil, fmt.Errorf("get task: %w", err) }
//	if task == nil { return nil, domain.ErrTaskNotFound }
func GetTask(repo domain.TaskRepository, taskID string) (*domain.Task, error) {
	task, err := repo.Get(taskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

// IndexByID returns the tasks keyed by ID.
func IndexByID(tasks []*domain.Task) map[string]*domain.Task {
	index := make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		index[t.ID] = t
	}
	return index
}

// Snapshot returns clones of the tasks in index matching the IDs of changed.
// IDs absent from index are skipped.
func Snapshot(index map[string]*domain.Task, changed []*domain.Task) []*domain.Task {
	var out []*domain.Task
	for _, t := range changed {
		if orig, ok := index[t.ID]; ok {
			out = append(out, orig.Clone())
		}
	}
	return out
}

// CloneAll deep-copies tasks.
func CloneAll(tasks []*domain.Task) []*domain.Task {
	out := make([]*domain.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// Without returns tasks minus the one with id. The slice is new, the tasks are shared.
func Without(tasks []*domain.Task, id string) []*domain.Task {
	out := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

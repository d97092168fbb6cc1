// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/usecase/shared"
)

// record pushes op onto history when one is attached.
func record(history *domain.UndoStack, op domain.Operation) {
	if history != nil {
		op.Before = shared.CloneAll(op.Before)
		op.After = shared.CloneAll(op.After)
		history.Push(op)
	}
}

// applyOperation moves the collection from op.Before to op.After.
// Tasks only in Before are deleted; every task in After is saved.
func applyOperation(repo domain.TaskRepository, op domain.Operation) error {
	keep := make(map[string]struct{}, len(op.After))
	for _, t := range op.After {
		keep[t.ID] = struct{}{}
	}
	for _, t := range op.Before {
		if _, ok := keep[t.ID]; ok {
			continue
		}
		existing, err := repo.Get(t.ID)
		if err != nil {
			return fmt.Errorf("get task: %w", err)
		}
		if existing == nil {
			continue
		}
		if err := repo.Delete(t.ID); err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
	}
	if len(op.After) == 0 {
		return nil
	}
	if err := repo.Save(shared.CloneAll(op.After)...); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// HistoryInput contains the parameters for Undo and Redo.
type HistoryInput struct{}

// HistoryOutput contains the result of Undo and Redo.
type HistoryOutput struct {
	Description string         // Label of the operation that was reverted or reapplied
	Operation   domain.Operation
}

// Undo is the use case for reverting the latest operation.
type Undo struct {
	tasks   domain.TaskRepository
	history *domain.UndoStack
	logger  domain.Logger
}

// NewUndo creates a new Undo use case.
func NewUndo(tasks domain.TaskRepository, history *domain.UndoStack, logger domain.Logger) *Undo {
	return &Undo{tasks: tasks, history: history, logger: logger}
}

// Execute reverts the latest recorded operation.
func (uc *Undo) Execute(_ context.Context, _ HistoryInput) (*HistoryOutput, error) {
	op, ok := uc.history.Undo()
	if !ok {
		return nil, domain.ErrNothingToUndo
	}
	if err := applyOperation(uc.tasks, op.Inverse()); err != nil {
		return nil, fmt.Errorf("undo: %w", err)
	}
	uc.logger.Info("history", "undo: "+op.Description())
	return &HistoryOutput{Description: op.Description(), Operation: op}, nil
}

// Redo is the use case for reapplying the latest undone operation.
type Redo struct {
	tasks   domain.TaskRepository
	history *domain.UndoStack
	logger  domain.Logger
}

// NewRedo creates a new Redo use case.
func NewRedo(tasks domain.TaskRepository, history *domain.UndoStack, logger domain.Logger) *Redo {
	return &Redo{tasks: tasks, history: history, logger: logger}
}

// Execute reapplies the latest undone operation.
func (uc *Redo) Execute(_ context.Context, _ HistoryInput) (*HistoryOutput, error) {
	op, ok := uc.history.Redo()
	if !ok {
		return nil, domain.ErrNothingToRedo
	}
	if err := applyOperation(uc.tasks, op); err != nil {
		return nil, fmt.Errorf("redo: %w", err)
	}
	uc.logger.Info("history", "redo: "+op.Description())
	return &HistoryOutput{Description: op.Description(), Operation: op}, nil
}

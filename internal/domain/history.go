package domain

import (
	"fmt"
	"sync"
)

// OperationKind classifies an undoable change.
type OperationKind string

// Operation kinds.
const (
	OpCreate  OperationKind = "create"
	OpEdit    OperationKind = "edit"
	OpDelete  OperationKind = "delete"
	OpMove    OperationKind = "move"
	OpReorder OperationKind = "reorder"
)

// Operation records the state of every task touched by one change.
// A task present in Before but not After was deleted; one present in
// After but not Before was created.
type Operation struct {
	Kind   OperationKind
	Title  string
	Before []*Task
	After  []*Task
}

// Description returns a short human-readable label.
func (o Operation) Description() string {
	switch o.Kind {
	case OpCreate:
		return fmt.Sprintf("Create '%s'", o.Title)
	case OpDelete:
		return fmt.Sprintf("Delete '%s'", o.Title)
	case OpMove:
		return fmt.Sprintf("Move '%s'", o.Title)
	case OpReorder:
		return fmt.Sprintf("Reorder '%s'", o.Title)
	default:
		return fmt.Sprintf("Edit '%s'", o.Title)
	}
}

// Inverse returns the operation that restores the state before o.
func (o Operation) Inverse() Operation {
	return Operation{Kind: o.Kind, Title: o.Title, Before: o.After, After: o.Before}
}

// UndoStack is a bounded undo/redo history. It is safe for concurrent use.
type UndoStack struct {
	undo  []Operation
	redo  []Operation
	limit int
	mu    sync.Mutex
}

// NewUndoStack creates a stack keeping at most limit operations.
// A non-positive limit uses DefaultHistoryLimit.
func NewUndoStack(limit int) *UndoStack {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &UndoStack{limit: limit}
}

// Push records op and clears the redo history.
func (s *UndoStack) Push(op Operation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undo = append(s.undo, op)
	s.redo = nil
	if len(s.undo) > s.limit {
		s.undo = s.undo[len(s.undo)-s.limit:]
	}
}

// Undo pops the latest operation and moves it to the redo history.
func (s *UndoStack) Undo() (Operation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.undo) == 0 {
		return Operation{}, false
	}
	op := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, op)
	return op, true
}

// Redo pops the latest undone operation and moves it back to the undo history.
func (s *UndoStack) Redo() (Operation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.redo) == 0 {
		return Operation{}, false
	}
	op := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, op)
	return op, true
}

// CanUndo reports whether Undo would return an operation.
func (s *UndoStack) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo) > 0
}

// CanRedo reports whether Redo would return an operation.
func (s *UndoStack) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.redo) > 0
}

// Len returns the number of operations in both histories.
func (s *UndoStack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo) + len(s.redo)
}

// Clear drops both histories.
func (s *UndoStack) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undo = nil
	s.redo = nil
}

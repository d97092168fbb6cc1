package domain

import "errors"

// Domain errors.
var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrSubtaskNotFound     = errors.New("subtask not found")
	ErrEmptyTitle          = errors.New("title cannot be empty")
	ErrEmptyComment        = errors.New("comment cannot be empty")
	ErrInvalidTask         = errors.New("invalid task")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidPeriod       = errors.New("invalid period type")
	ErrInvalidGoalScope    = errors.New("invalid goal scope")
	ErrInvalidFormat       = errors.New("invalid import format")
	ErrMissingColumn       = errors.New("required column missing")
	ErrEmptyFile           = errors.New("file is empty")
	ErrDocumentNotFound    = errors.New("document not found")
	ErrRevisionConflict    = errors.New("revision conflict")
	ErrNothingToUndo       = errors.New("nothing to undo")
	ErrNothingToRedo       = errors.New("nothing to redo")
	ErrNotInitialized      = errors.New("taskcal not initialized (run 'taskcal init' first)")
	ErrAlreadyInitialized  = errors.New("taskcal already initialized")
	ErrUnknownStoreBackend = errors.New("unknown store backend")
	ErrConfigExists        = errors.New("config file already exists")
)

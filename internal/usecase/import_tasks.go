package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/importer"
)

// ImportOptions configures how textual due dates are read.
type ImportOptions struct {
	Location *time.Location // Zone of textual due dates
	Layout   string         // Go time layout of textual due dates
}

// ImportTasksInput contains the content to import.
type ImportTasksInput struct {
	Format  importer.Format // Encoding of Content
	Content []byte
}

// ImportTasksOutput contains the import statistics.
// Fields are ordered to minimize memory padding.
type ImportTasksOutput struct {
	Diagnostics []importer.Diagnostic // Reasons rows were skipped (tabular only)
	Imported    int                   // Tasks added or restored
	TotalRows   int                   // Non-blank data rows seen
	ValidRows   int                   // Rows that produced a task
	Replaced    bool                  // A structured import replaced every collection
}

// ImportTasks is the use case for bulk import.
// Tabular content is appended; a structured bundle replaces everything.
type ImportTasks struct {
	tasks   domain.TaskRepository
	goals   domain.GoalRepository
	ids     domain.IDGenerator
	clock   domain.Clock
	logger  domain.Logger
	history *domain.UndoStack
	opts    ImportOptions
}

// NewImportTasks creates a new ImportTasks use case.
func NewImportTasks(tasks domain.TaskRepository, goals domain.GoalRepository, ids domain.IDGenerator, clock domain.Clock, logger domain.Logger, opts ImportOptions) *ImportTasks {
	return &ImportTasks{
		tasks:  tasks,
		goals:  goals,
		ids:    ids,
		clock:  clock,
		logger: logger,
		opts:   opts,
	}
}

// WithHistory records tabular imports on history and clears it on replacement.
func (uc *ImportTasks) WithHistory(history *domain.UndoStack) *ImportTasks {
	uc.history = history
	return uc
}

// Execute imports in.Content.
func (uc *ImportTasks) Execute(_ context.Context, in ImportTasksInput) (*ImportTasksOutput, error) {
	if in.Format.Structured() {
		return uc.replace(in)
	}
	return uc.appendRows(in)
}

func (uc *ImportTasks) appendRows(in ImportTasksInput) (*ImportTasksOutput, error) {
	res, err := importer.ParseTabular(string(in.Content), importer.TabularOptions{
		Now:       uc.clock.Now(),
		Location:  uc.opts.Location,
		IDs:       uc.ids,
		Layout:    uc.opts.Layout,
		Delimiter: in.Format.Delimiter(),
	})
	if err != nil {
		return nil, fmt.Errorf("parse import: %w", err)
	}

	out := &ImportTasksOutput{
		Diagnostics: res.Diagnostics,
		TotalRows:   res.TotalRows,
		ValidRows:   res.ValidRows,
	}
	for _, d := range res.Diagnostics {
		uc.logger.Debug("import", fmt.Sprintf("line %d skipped: %s", d.Line, d.Reason))
	}
	if len(res.Tasks) == 0 {
		return out, nil
	}

	existing, err := uc.tasks.List()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	// Imported orders start at 0 per day; shift them behind existing tasks.
	offsets := make(map[string]int)
	for _, t := range res.Tasks {
		key := t.DayKey()
		base, ok := offsets[key]
		if !ok {
			base = domain.NextOrder(existing, t.Start)
			offsets[key] = base
		}
		t.Order += base
	}

	if err := uc.tasks.Save(res.Tasks...); err != nil {
		return nil, fmt.Errorf("save imported tasks: %w", err)
	}
	out.Imported = len(res.Tasks)

	record(uc.history, domain.Operation{
		Kind:  domain.OpCreate,
		Title: fmt.Sprintf("%d imported tasks", out.Imported),
		After: res.Tasks,
	})
	uc.logger.Info("import", fmt.Sprintf("imported %d of %d rows", res.ValidRows, res.TotalRows))

	return out, nil
}

func (uc *ImportTasks) replace(in ImportTasksInput) (*ImportTasksOutput, error) {
	bundle, err := importer.DecodeBundle(in.Content, in.Format)
	if err != nil {
		return nil, fmt.Errorf("decode import: %w", err)
	}

	if err := uc.tasks.Replace(bundle.Events); err != nil {
		return nil, fmt.Errorf("replace tasks: %w", err)
	}
	if err := uc.goals.ReplaceGoals(bundle.WeeklyGoals, bundle.DailyGoals); err != nil {
		return nil, fmt.Errorf("replace goals: %w", err)
	}
	if uc.history != nil {
		uc.history.Clear()
	}

	n := len(bundle.Events)
	uc.logger.Info("import", fmt.Sprintf("replaced data set with %d tasks", n))
	return &ImportTasksOutput{Imported: n, TotalRows: n, ValidRows: n, Replaced: true}, nil
}

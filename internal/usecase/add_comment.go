package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/usecase/shared"
)

// AddCommentInput contains the parameters for adding a comment.
type AddCommentInput struct {
	TaskID string // Task ID (required)
	Text   string // Comment text (required)
}

// AddCommentOutput contains the result of adding a comment.
// Fields are ordered to minimize memory padding.
type AddCommentOutput struct {
	Task        *domain.Task   // The task after the command was applied
	Comment     domain.Comment // The appended comment; zero when the task was deleted
	Command     domain.Command // Command the text resolved to
	Deleted     bool           // The task no longer exists
	CloseDetail bool           // Callers showing the task should close it
}

// AddComment is the use case for appending a comment and applying its command.
type AddComment struct {
	tasks   domain.TaskRepository
	ids     domain.IDGenerator
	logger  domain.Logger
	history *domain.UndoStack
}

// NewAddComment creates a new AddComment use case.
func NewAddComment(tasks domain.TaskRepository, ids domain.IDGenerator, logger domain.Logger) *AddComment {
	return &AddComment{tasks: tasks, ids: ids, logger: logger}
}

// WithHistory records comment effects on history.
func (uc *AddComment) WithHistory(history *domain.UndoStack) *AddComment {
	uc.history = history
	return uc
}

// Execute appends the trimmed text to the comment log and applies the
// command it names. "delete" removes the task instead of logging.
func (uc *AddComment) Execute(_ context.Context, in AddCommentInput) (*AddCommentOutput, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, domain.ErrEmptyComment
	}

	task, err := shared.GetTask(uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	cmd := domain.ParseCommand(text)
	if !cmd.Logged() {
		op, err := removeTask(uc.tasks, task)
		if err != nil {
			return nil, err
		}
		record(uc.history, op)
		uc.logger.Info("task", fmt.Sprintf("deleted %s by comment", task.ID))
		return &AddCommentOutput{Task: task, Command: cmd, Deleted: true, CloseDetail: true}, nil
	}

	var comment domain.Comment
	task, err = editTask(uc.tasks, uc.history, task.ID, func(t *domain.Task) error {
		comment = t.AddComment(uc.ids.NewID(), text)
		t.Apply(cmd)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if cmd != domain.CommandNone {
		uc.logger.Info("task", fmt.Sprintf("%s: command %q", task.ID, cmd))
	}

	return &AddCommentOutput{Task: task, Comment: comment, Command: cmd}, nil
}

package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/testutil"
)

func TestAddSubtask_Execute(t *testing.T) {
	repo := testutil.NewMockTaskRepository(domain.NewTask("a", "Trip", june10, 0))
	uc := NewAddSubtask(repo, testutil.NewSequenceIDs("s"))

	out, err := uc.Execute(context.Background(), AddSubtaskInput{TaskID: "a", Title: " Pack bags "})

	require.NoError(t, err)
	assert.Equal(t, domain.Subtask{ID: "s-1", Title: "Pack bags"}, out.Subtask)
	assert.Len(t, repo.Task("a").Subtasks, 1)
}

func TestAddSubtask_Execute_EmptyTitle(t *testing.T) {
	repo := testutil.NewMockTaskRepository(domain.NewTask("a", "Trip", june10, 0))
	uc := NewAddSubtask(repo, testutil.NewSequenceIDs("s"))

	_, err := uc.Execute(context.Background(), AddSubtaskInput{TaskID: "a", Title: ""})

	assert.ErrorIs(t, err, domain.ErrEmptyTitle)
}

func TestToggleSubtask_Execute(t *testing.T) {
	task := domain.NewTask("a", "Trip", june10, 0)
	task.AddSubtask("s-1", "Pack")
	task.AddSubtask("s-2", "Book hotel")
	repo := testutil.NewMockTaskRepository(task)
	uc := NewToggleSubtask(repo)

	out, err := uc.Execute(context.Background(), ToggleSubtaskInput{TaskID: "a", SubtaskID: "s-2"})

	require.NoError(t, err)
	assert.True(t, out.Subtask.Completed)
	assert.Equal(t, 1, repo.Task("a").CompletedSubtasks())
	assert.False(t, repo.Task("a").Subtasks[0].Completed)
}

func TestToggleSubtask_Execute_NotFound(t *testing.T) {
	repo := testutil.NewMockTaskRepository(domain.NewTask("a", "Trip", june10, 0))
	uc := NewToggleSubtask(repo)

	_, err := uc.Execute(context.Background(), ToggleSubtaskInput{TaskID: "a", SubtaskID: "nope"})

	assert.ErrorIs(t, err, domain.ErrSubtaskNotFound)
	assert.Zero(t, repo.SaveCalls)
}

package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/testutil"
)

func TestToggleComplete_Execute(t *testing.T) {
	repo := testutil.NewMockTaskRepository(domain.NewTask("a", "A", june10, 0))
	uc := NewToggleComplete(repo, domain.NopLogger{})

	out, err := uc.Execute(context.Background(), ToggleTaskInput{TaskID: "a"})
	require.NoError(t, err)
	assert.True(t, out.Task.Completed)
	assert.True(t, repo.Task("a").Completed)

	out, err = uc.Execute(context.Background(), ToggleTaskInput{TaskID: "a"})
	require.NoError(t, err)
	assert.False(t, out.Task.Completed)
}

func TestToggleUrgent_Execute(t *testing.T) {
	repo := testutil.NewMockTaskRepository(domain.NewTask("a", "A", june10, 0))
	history := domain.NewUndoStack(0)
	uc := NewToggleUrgent(repo, domain.NopLogger{}).WithHistory(history)

	out, err := uc.Execute(context.Background(), ToggleTaskInput{TaskID: "a"})
	require.NoError(t, err)
	assert.True(t, out.Task.Urgent)
	assert.False(t, out.Task.Completed)

	_, err = NewUndo(repo, history, domain.NopLogger{}).Execute(context.Background(), HistoryInput{})
	require.NoError(t, err)
	assert.False(t, repo.Task("a").Urgent)
}

func TestToggleComplete_Execute_Errors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		uc := NewToggleComplete(testutil.NewMockTaskRepository(), domain.NopLogger{})
		_, err := uc.Execute(context.Background(), ToggleTaskInput{TaskID: "x"})
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})

	t.Run("save fails", func(t *testing.T) {
		repo := testutil.NewMockTaskRepository(domain.NewTask("a", "A", june10, 0))
		repo.SaveErr = errors.New("nope")
		uc := NewToggleComplete(repo, domain.NopLogger{})
		_, err := uc.Execute(context.Background(), ToggleTaskInput{TaskID: "a"})
		require.Error(t, err)
		assert.False(t, repo.Task("a").Completed)
	})
}

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

func TestListTasks_Execute_Range(t *testing.T) {
	repo := testutil.NewMockTaskRepository(
		domain.NewTask("a", "A", at(9, 23), 0),
		domain.NewTask("b", "B", at(10, 8), 0),
		domain.NewTask("c", "C", at(12, 8), 0),
		domain.NewTask("d", "D", at(13, 0), 0),
	)
	uc := NewListTasks(repo)

	out, err := uc.Execute(context.Background(), ListTasksInput{From: at(10, 15), To: at(12, 0)})

	require.NoError(t, err)
	ids := make([]string, len(out.Tasks))
	for i, task := range out.Tasks {
		ids[i] = task.ID
	}
	assert.Equal(t, []string{"b", "c"}, ids)
}

func TestListTasks_Execute_All(t *testing.T) {
	repo := testutil.NewMockTaskRepository(domain.NewTask("a", "A", at(9, 23), 0))

	out, err := NewListTasks(repo).Execute(context.Background(), ListTasksInput{})

	require.NoError(t, err)
	assert.Len(t, out.Tasks, 1)
}

func TestListTasks_Execute_Error(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.ListErr = errors.New("unreadable")

	_, err := NewListTasks(repo).Execute(context.Background(), ListTasksInput{})

	assert.Error(t, err)
}

func TestShowTask_Execute(t *testing.T) {
	repo := testutil.NewMockTaskRepository(domain.NewTask("a", "A", june10, 0))

	out, err := NewShowTask(repo).Execute(context.Background(), ShowTaskInput{TaskID: "a"})
	require.NoError(t, err)
	assert.Equal(t, "A", out.Task.Title)

	_, err = NewShowTask(repo).Execute(context.Background(), ShowTaskInput{TaskID: "b"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

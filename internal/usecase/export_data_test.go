package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/importer"
	"github.com/runoshun/taskcal/internal/testutil"
)

func TestExportData_RoundTripsThroughImport(t *testing.T) {
	for _, format := range []importer.Format{importer.FormatJSON, importer.FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			task := domain.NewTask("a", "Gym", at(10, 18), 0)
			task.AddComment("c", "leg day")
			task.AddSubtask("s", "Shoes")
			tasks := testutil.NewMockTaskRepository(task)
			goals := testutil.NewMockGoalRepository()
			goals.Weekly.Set("2025-24", "Move more")
			goals.Daily.Set("2025-06-10", "Rest")

			exported, err := NewExportData(tasks, goals, &testutil.MockClock{NowTime: june10}).Execute(context.Background(), ExportDataInput{Format: format})
			require.NoError(t, err)
			assert.Equal(t, 1, exported.Tasks)

			targetTasks := testutil.NewMockTaskRepository()
			targetGoals := testutil.NewMockGoalRepository()
			uc := NewImportTasks(targetTasks, targetGoals, testutil.NewSequenceIDs("x"), &testutil.MockClock{NowTime: june10}, domain.NopLogger{}, ImportOptions{})
			_, err = uc.Execute(context.Background(), ImportTasksInput{Format: format, Content: exported.Data})
			require.NoError(t, err)

			restored := targetTasks.Task("a")
			require.NotNil(t, restored)
			assert.True(t, restored.Start.Equal(task.Start))
			assert.Equal(t, task.Comments, restored.Comments)
			assert.Equal(t, task.Subtasks, restored.Subtasks)
			assert.Equal(t, goals.Weekly, targetGoals.Weekly)
			assert.Equal(t, goals.Daily, targetGoals.Daily)
		})
	}
}

func TestExportData_RejectsTabular(t *testing.T) {
	uc := NewExportData(testutil.NewMockTaskRepository(), testutil.NewMockGoalRepository(), &testutil.MockClock{NowTime: june10})

	_, err := uc.Execute(context.Background(), ExportDataInput{Format: importer.FormatCSV})

	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
}

package cli

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskcal/internal/app"
	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/infra/bundle"
	"github.com/runoshun/taskcal/internal/testutil"
)

const importCSV = `"Task Name","Task Content","Due Date Text"
Plan offsite,Agenda draft,2025-06-12 10:00

Old reminder,,1700000000000
Broken,,not a date
`

// newFileContainer returns a test container whose import and export files live in memory.
func newFileContainer(repo *testutil.MockTaskRepository) (*app.Container, afero.Fs) {
	fs := afero.NewMemMapFs()
	container := newTestContainer(repo)
	container.Files = bundle.New(fs)
	return container, fs
}

func TestImportCommand_CSV(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	container, fs := newFileContainer(repo)
	require.NoError(t, afero.WriteFile(fs, "/in/tasks.csv", []byte(importCSV), 0o600))

	out, err := execute(newImportCommand(container), "/in/tasks.csv")

	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 tasks (2 of 3 rows valid)")
	assert.Contains(t, out, "line 5:")
	assert.Len(t, repo.Tasks, 2)

	var plan *domain.Task
	for _, task := range repo.Tasks {
		if task.Title == "Plan offsite" {
			plan = task
		}
	}
	require.NotNil(t, plan)
	require.Len(t, plan.Comments, 1)
	assert.Equal(t, "Agenda draft", plan.Comments[0].Text)
	assert.False(t, plan.Completed, "due after now")
}

func TestImportCommand_StdinNeedsFormat(t *testing.T) {
	container, _ := newFileContainer(testutil.NewMockTaskRepository())

	_, err := execute(newImportCommand(container), "-")

	assert.ErrorIs(t, err, errFormatRequired)
}

func TestImportCommand_Stdin(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	container, _ := newFileContainer(repo)
	cmd := newImportCommand(container)
	cmd.SetIn(strings.NewReader("Task Name\tTask Content\tDue Date Text\nTabbed\t\t1700000000000\n"))

	out, err := execute(cmd, "--format", "tsv", "-")

	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 tasks (1 of 1 rows valid)")
	assert.Len(t, repo.Tasks, 1)
}

func TestImportCommand_MissingColumn(t *testing.T) {
	container, fs := newFileContainer(testutil.NewMockTaskRepository())
	require.NoError(t, afero.WriteFile(fs, "/in/tasks.csv", []byte("Name,Due\nx,1\n"), 0o600))

	_, err := execute(newImportCommand(container), "/in/tasks.csv")

	assert.ErrorIs(t, err, domain.ErrMissingColumn)
}

func TestImportCommand_UnknownExtension(t *testing.T) {
	container, fs := newFileContainer(testutil.NewMockTaskRepository())
	require.NoError(t, afero.WriteFile(fs, "/in/tasks.dat", []byte(importCSV), 0o600))

	_, err := execute(newImportCommand(container), "/in/tasks.dat")
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)

	out, err := execute(newImportCommand(container), "--format", "csv", "/in/tasks.dat")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 tasks")
}

func TestExportImport_RoundTrip(t *testing.T) {
	repo := testutil.NewMockTaskRepository(taskOn("a", "Keep me", 10, 9, 0))
	container, fs := newFileContainer(repo)
	_, err := execute(newGoalCommand(container), "set", "week", "Focus")
	require.NoError(t, err)

	out, err := execute(newExportCommand(container), "/out/backup.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 tasks to /out/backup.yaml")

	data, err := afero.ReadFile(fs, "/out/backup.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "events:")
	assert.Contains(t, string(data), "Keep me")

	// Wipe, then restore from the bundle
	_, err = execute(newRmCommand(container), "a")
	require.NoError(t, err)
	_, err = execute(newGoalCommand(container), "set", "week")
	require.NoError(t, err)

	out, err = execute(newImportCommand(container), "/out/backup.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "Replaced all data with 1 tasks")
	require.NotNil(t, repo.Task("a"))
	assert.Equal(t, "Keep me", repo.Task("a").Title)

	goals, err := container.Goals.Goals(domain.GoalScopeWeek)
	require.NoError(t, err)
	assert.Equal(t, "Focus", goals.Get("2025-23"))
	assert.False(t, container.History.CanUndo(), "replacement clears history")
}

func TestExportCommand_Stdout(t *testing.T) {
	container, _ := newFileContainer(testutil.NewMockTaskRepository(taskOn("a", "Keep me", 10, 9, 0)))

	out, err := execute(newExportCommand(container))

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{"), "json by default")
	assert.Contains(t, out, `"events"`)
	assert.Contains(t, out, "Keep me")
}

func TestExportCommand_TabularRejected(t *testing.T) {
	container, _ := newFileContainer(testutil.NewMockTaskRepository())

	_, err := execute(newExportCommand(container), "/out/tasks.csv")

	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
}

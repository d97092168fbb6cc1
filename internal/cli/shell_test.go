package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/testutil"
)

// runShell feeds lines to a shell session and returns its output.
func runShell(t *testing.T, repo *testutil.MockTaskRepository, lines ...string) string {
	t.Helper()
	container := newTestContainer(repo)
	cmd := newShellCommand(container)
	cmd.SetIn(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	out, err := execute(cmd)
	require.NoError(t, err)
	return out
}

func TestShell_AddUndoRedo(t *testing.T) {
	repo := testutil.NewMockTaskRepository()

	out := runShell(t, repo,
		"add Write report",
		"undo",
		"redo",
		"quit",
	)

	assert.Contains(t, out, "Created task task-1 on 2025-06-10")
	assert.Contains(t, out, "Undid:")
	assert.Contains(t, out, "Redid:")
	assert.NotNil(t, repo.Task("task-1"))
}

func TestShell_UndoRestoresDeletedTask(t *testing.T) {
	repo := testutil.NewMockTaskRepository(
		taskOn("a", "A", 10, 9, 0),
		taskOn("b", "B", 10, 10, 1),
	)

	runShell(t, repo, "rm a", "undo")

	require.NotNil(t, repo.Task("a"))
	assert.Equal(t, 0, repo.Task("a").Order)
	assert.Equal(t, 1, repo.Task("b").Order)
}

func TestShell_UndoNothing(t *testing.T) {
	out := runShell(t, testutil.NewMockTaskRepository(), "undo")

	assert.Contains(t, out, "Error: "+domain.ErrNothingToUndo.Error())
}

func TestShell_GotoAndView(t *testing.T) {
	out := runShell(t, testutil.NewMockTaskRepository(),
		"goto 2025-09-03",
		"view quarter",
		"goto 2024",
	)

	assert.Contains(t, out, "month  2025-09-01 to 2025-09-30")
	assert.Contains(t, out, "quarter  2025-07-01 to 2025-09-30")
	assert.Contains(t, out, "quarter  2024-07-01 to 2024-09-30")
}

func TestShell_InvalidInputKeepsRunning(t *testing.T) {
	out := runShell(t, testutil.NewMockTaskRepository(),
		"goto 31/31/2025",
		"view decade",
		"frobnicate",
		"add Still works",
	)

	assert.Contains(t, out, "Error: invalid date")
	assert.Contains(t, out, "Error: invalid period type")
	assert.Contains(t, out, `unknown command "frobnicate"`)
	assert.Contains(t, out, "Created task task-1")
}

func TestShell_FlagsDoNotLeak(t *testing.T) {
	repo := testutil.NewMockTaskRepository()

	runShell(t, repo,
		"add --urgent First",
		"add Second",
	)

	assert.True(t, repo.Task("task-1").Urgent)
	assert.False(t, repo.Task("task-2").Urgent)
}

func TestShell_Shift(t *testing.T) {
	s := &shell{focused: time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), period: domain.PeriodMonth}
	assert.Equal(t, "2025-02-28", domain.DayKey(s.shift(1)))
	assert.Equal(t, "2024-12-31", domain.DayKey(s.shift(-1)))

	s.period = domain.PeriodWeek
	assert.Equal(t, "2025-02-07", domain.DayKey(s.shift(1)))

	s.period = domain.PeriodQuarter
	assert.Equal(t, "2025-04-30", domain.DayKey(s.shift(1)))

	s.period = domain.PeriodYear
	assert.Equal(t, "2024-01-31", domain.DayKey(s.shift(-1)))
}

func TestShell_Help(t *testing.T) {
	out := runShell(t, testutil.NewMockTaskRepository(), "help")

	assert.Contains(t, out, "goto <date>")
	assert.Contains(t, out, shellPrompt)
}

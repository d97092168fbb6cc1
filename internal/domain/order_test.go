package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func dayTask(id string, d time.Time, order int) *Task {
	start := d.Add(9 * time.Hour)
	return &Task{ID: id, Title: id, Start: start, End: start.Add(time.Hour), Order: order}
}

func ids(tasks []*Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestTasksOnDate_SortedByOrder(t *testing.T) {
	d := date(2025, 6, 15)
	tasks := []*Task{
		dayTask("c", d, 2),
		dayTask("a", d, 0),
		dayTask("other", d.AddDate(0, 0, 1), 0),
		dayTask("b", d, 1),
	}

	assert.Equal(t, []string{"a", "b", "c"}, ids(TasksOnDate(tasks, d)))
	assert.Equal(t, 3, NextOrder(tasks, d))
	assert.Equal(t, 0, NextOrder(tasks, d.AddDate(0, 0, 2)))
}

func TestInsertAt_ShiftsFollowingTasks(t *testing.T) {
	d := date(2025, 6, 15)
	a, b, c := dayTask("a", d, 0), dayTask("b", d, 1), dayTask("c", d, 2)
	moved := dayTask("m", d, 0)

	changed := InsertAt([]*Task{a, b, c}, moved, 1)

	assert.Equal(t, 0, a.Order)
	assert.Equal(t, 1, moved.Order)
	assert.Equal(t, 2, b.Order)
	assert.Equal(t, 3, c.Order)
	assert.ElementsMatch(t, []string{"m", "b", "c"}, ids(changed))
}

func TestInsertAt_ClampsPosition(t *testing.T) {
	d := date(2025, 6, 15)
	a := dayTask("a", d, 0)
	moved := dayTask("m", d, 7)

	changed := InsertAt([]*Task{a}, moved, 99)

	assert.Equal(t, 1, moved.Order)
	assert.Equal(t, []string{"m"}, ids(changed))
}

func TestCloseGap(t *testing.T) {
	d := date(2025, 6, 15)
	a, c := dayTask("a", d, 0), dayTask("c", d, 2)

	changed := CloseGap([]*Task{a, c}, d)

	assert.Equal(t, 1, c.Order)
	assert.Equal(t, []string{"c"}, ids(changed))
}

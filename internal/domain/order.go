package domain

import (
	"cmp"
	"slices"
	"time"
)

// CompareTasks orders tasks by day order, then start time, then ID.
func CompareTasks(a, b *Task) int {
	if c := cmp.Compare(a.Order, b.Order); c != 0 {
		return c
	}
	if c := a.Start.Compare(b.Start); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// TasksOnDate returns the tasks starting on date in display order.
func TasksOnDate(tasks []*Task, date time.Time) []*Task {
	key := DayKey(date)
	var day []*Task
	for _, t := range tasks {
		if t.DayKey() == key {
			day = append(day, t)
		}
	}
	slices.SortFunc(day, CompareTasks)
	return day
}

// NextOrder returns the order that appends a task to the end of date.
func NextOrder(tasks []*Task, date time.Time) int {
	next := 0
	for _, t := range TasksOnDate(tasks, date) {
		if t.Order >= next {
			next = t.Order + 1
		}
	}
	return next
}

// InsertAt places task at position among the tasks of its start day.
// others must not contain task. Day orders are renumbered from 0 and
// every task whose order changed is returned, task included.
// Position is clamped to the valid range.
func InsertAt(others []*Task, task *Task, position int) []*Task {
	day := TasksOnDate(withoutID(others, task.ID), task.Start)
	position = max(0, min(position, len(day)))
	day = slices.Insert(day, position, task)
	changed := renumber(day)
	if !slices.Contains(changed, task) {
		changed = append(changed, task)
	}
	return changed
}

// CloseGap renumbers the orders of date's tasks from 0 and returns the
// tasks whose order changed.
func CloseGap(tasks []*Task, date time.Time) []*Task {
	return renumber(TasksOnDate(tasks, date))
}

func renumber(day []*Task) []*Task {
	var changed []*Task
	for i, t := range day {
		if t.Order != i {
			t.Order = i
			changed = append(changed, t)
		}
	}
	return changed
}

func withoutID(tasks []*Task, id string) []*Task {
	out := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// Package domain contains core business entities and interfaces.
package domain

import (
	"slices"
	"strings"
	"time"
)

// DefaultTaskDuration is the length given to tasks created without an end time.
const DefaultTaskDuration = time.Hour

// Task represents a unit of work placed on a calendar date.
// Fields are ordered to minimize memory padding.
type Task struct {
	Start     time.Time `json:"start" yaml:"start" validate:"required"`
	End       time.Time `json:"end" yaml:"end" validate:"required,gtefield=Start"`
	ID        string    `json:"id" yaml:"id" validate:"required"`
	Title     string    `json:"title" yaml:"title" validate:"required"`
	Subtasks  []Subtask `json:"subtasks,omitempty" yaml:"subtasks,omitempty" validate:"dive"`
	Comments  []Comment `json:"comments" yaml:"comments" validate:"dive"`
	Order     int       `json:"order" yaml:"order" validate:"gte=0"` // Position among tasks starting on the same day
	Completed bool      `json:"completed" yaml:"completed"`
	Urgent    bool      `json:"urgent,omitempty" yaml:"urgent,omitempty"`
}

// Subtask is a checklist entry attached to a task.
type Subtask struct {
	ID        string `json:"id" yaml:"id" validate:"required"`
	Title     string `json:"title" yaml:"title" validate:"required"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// Comment is a note in the task's comment log.
// Comments are only ever appended, never edited or reordered.
type Comment struct {
	ID   string `json:"id" yaml:"id" validate:"required"`
	Text string `json:"text" yaml:"text"`
}

// NewTask creates a task starting at start with the given duration.
// A non-positive duration falls back to DefaultTaskDuration.
func NewTask(id, title string, start time.Time, duration time.Duration) *Task {
	if duration <= 0 {
		duration = DefaultTaskDuration
	}
	return &Task{
		ID:       id,
		Title:    strings.TrimSpace(title),
		Start:    start,
		End:      start.Add(duration),
		Comments: []Comment{},
	}
}

// Duration returns End - Start.
func (t *Task) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

// Date returns the calendar date of the task's start.
func (t *Task) Date() time.Time {
	return DateOf(t.Start)
}

// DayKey returns the day period key of the task's start.
func (t *Task) DayKey() string {
	return DayKey(t.Start)
}

// OnDate reports whether the task starts on the given calendar date.
// Time of day is ignored.
func (t *Task) OnDate(date time.Time) bool {
	return t.DayKey() == DayKey(date)
}

// MoveTo returns a copy of the task placed on date.
// The original time of day and duration are kept; only the date changes.
// Moving to the current date returns an equal copy.
func (t *Task) MoveTo(date time.Time) *Task {
	moved := t.Clone()
	if t.OnDate(date) {
		return moved
	}
	loc := t.Start.Location()
	y, m, d := date.Date()
	start := time.Date(y, m, d, t.Start.Hour(), t.Start.Minute(), t.Start.Second(), t.Start.Nanosecond(), loc)
	moved.Start = start
	moved.End = start.Add(t.Duration())
	return moved
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	c.Subtasks = slices.Clone(t.Subtasks)
	c.Comments = slices.Clone(t.Comments)
	return &c
}

// AddComment appends a comment to the log.
func (t *Task) AddComment(id, text string) Comment {
	c := Comment{ID: id, Text: text}
	t.Comments = append(t.Comments, c)
	return c
}

// AddSubtask appends an incomplete subtask.
func (t *Task) AddSubtask(id, title string) Subtask {
	s := Subtask{ID: id, Title: strings.TrimSpace(title)}
	t.Subtasks = append(t.Subtasks, s)
	return s
}

// ToggleSubtask flips the completed flag of the subtask with the given ID.
func (t *Task) ToggleSubtask(subtaskID string) (*Subtask, error) {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == subtaskID {
			t.Subtasks[i].Completed = !t.Subtasks[i].Completed
			return &t.Subtasks[i], nil
		}
	}
	return nil, ErrSubtaskNotFound
}

// CompletedSubtasks returns how many subtasks are done.
func (t *Task) CompletedSubtasks() int {
	n := 0
	for _, s := range t.Subtasks {
		if s.Completed {
			n++
		}
	}
	return n
}

// Apply performs the side effect of a comment command on the task.
// CommandDelete and CommandNone leave the task unchanged; deletion is
// carried out by the caller because the task ceases to exist.
func (t *Task) Apply(cmd Command) {
	switch cmd {
	case CommandDone:
		t.Completed = true
	case CommandUndo:
		t.Completed = false
	case CommandUrgent:
		t.Urgent = true
	case CommandNotUrgent:
		t.Urgent = false
	case CommandNone, CommandDelete:
	}
}

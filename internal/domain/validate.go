package domain

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the task's invariants: non-empty ID and title,
// End not before Start, storable years, and well-formed subtasks and comments.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTask, ErrEmptyTitle)
	}
	if !IsStorable(t.Start) || !IsStorable(t.End) {
		return fmt.Errorf("%w %q: %w: year outside %d-%d", ErrInvalidTask, t.ID, ErrInvalidDate, MinStoredYear, MaxStoredYear)
	}
	if err := validatorInstance().Struct(t); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %w", ErrInvalidTask, err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %q", e.Namespace(), e.Tag()))
		}
		return fmt.Errorf("%w %q: %s", ErrInvalidTask, t.ID, strings.Join(msgs, "; "))
	}
	return nil
}

// ValidateTasks validates every task and rejects duplicate IDs.
func ValidateTasks(tasks []*Task) error {
	seen := make(map[string]struct{}, len(tasks))
	for i, t := range tasks {
		if t == nil {
			return fmt.Errorf("task %d: %w: nil", i+1, ErrInvalidTask)
		}
		if err := t.Validate(); err != nil {
			return fmt.Errorf("task %d: %w", i+1, err)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("task %d: %w: duplicate id %q", i+1, ErrInvalidTask, t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}

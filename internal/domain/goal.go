package domain

import (
	"fmt"
	"strings"
	"time"
)

// Goals maps a period key to its goal text.
// A missing key means no goal is set.
type Goals map[string]string

// Get returns the goal for key, or "" when none is set.
func (g Goals) Get(key string) string {
	return g[key]
}

// Set stores text under key. Empty text removes the goal.
func (g Goals) Set(key, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		delete(g, key)
		return
	}
	g[key] = text
}

// Clone returns a copy of the map. A nil map clones to an empty one.
func (g Goals) Clone() Goals {
	c := make(Goals, len(g))
	for k, v := range g {
		c[k] = v
	}
	return c
}

// GoalScope selects which goal map a goal belongs to.
type GoalScope string

// Goal scopes.
const (
	GoalScopeWeek GoalScope = "week"
	GoalScopeDay  GoalScope = "day"
)

// ParseGoalScope parses a goal scope name.
func ParseGoalScope(s string) (GoalScope, error) {
	switch scope := GoalScope(strings.ToLower(strings.TrimSpace(s))); scope {
	case GoalScopeWeek, GoalScopeDay:
		return scope, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidGoalScope, s)
}

// Key returns the period key of date for this scope.
func (s GoalScope) Key(date time.Time) string {
	if s == GoalScopeDay {
		return DayKey(date)
	}
	return WeekKey(date)
}

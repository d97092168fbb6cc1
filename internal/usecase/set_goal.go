package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/taskcal/internal/domain"
)

// SetGoalInput contains the parameters for setting a period goal.
type SetGoalInput struct {
	Date  time.Time        // Any date inside the period
	Scope domain.GoalScope // Week or day
	Text  string           // Goal text; empty removes the goal
}

// SetGoalOutput contains the result of setting a goal.
type SetGoalOutput struct {
	Key     string // Period key the goal is stored under
	Text    string // Stored text
	Removed bool   // The goal was cleared
}

// SetGoal is the use case for editing a weekly or daily goal.
type SetGoal struct {
	goals  domain.GoalRepository
	logger domain.Logger
}

// NewSetGoal creates a new SetGoal use case.
func NewSetGoal(goals domain.GoalRepository, logger domain.Logger) *SetGoal {
	return &SetGoal{goals: goals, logger: logger}
}

// Execute stores the goal under the period key of in.Date.
// For weeks the key is the ISO week of the Sunday starting the row.
func (uc *SetGoal) Execute(_ context.Context, in SetGoalInput) (*SetGoalOutput, error) {
	date := in.Date
	if in.Scope == domain.GoalScopeWeek {
		date = domain.WeekStart(date)
	}
	key := in.Scope.Key(date)
	text := strings.TrimSpace(in.Text)

	if err := uc.goals.SetGoal(in.Scope, key, text); err != nil {
		return nil, fmt.Errorf("set goal: %w", err)
	}
	uc.logger.Debug("goal", fmt.Sprintf("%s %s = %q", in.Scope, key, text))

	return &SetGoalOutput{Key: key, Text: text, Removed: text == ""}, nil
}

// ShowGoalsInput selects the goal map to list.
type ShowGoalsInput struct {
	Scope domain.GoalScope
}

// ShowGoalsOutput contains a copy of the goal map.
type ShowGoalsOutput struct {
	Goals domain.Goals
}

// ShowGoals is the use case for listing goals.
type ShowGoals struct {
	goals domain.GoalRepository
}

// NewShowGoals creates a new ShowGoals use case.
func NewShowGoals(goals domain.GoalRepository) *ShowGoals {
	return &ShowGoals{goals: goals}
}

// Execute returns the goals of in.Scope.
func (uc *ShowGoals) Execute(_ context.Context, in ShowGoalsInput) (*ShowGoalsOutput, error) {
	goals, err := uc.goals.Goals(in.Scope)
	if err != nil {
		return nil, fmt.Errorf("get goals: %w", err)
	}
	return &ShowGoalsOutput{Goals: goals}, nil
}

package cli

import (
	"fmt"
	"strings"

	"github.com/runoshun/taskcal/internal/app"
	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/usecase"
	"github.com/spf13/cobra"
)

// newCommentCommand creates the comment command.
func newCommentCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <id> <text>...",
		Short: "Add a comment to a task",
		Long: `Append a comment to a task's log.

Some comments are commands (case and extra spaces are ignored):
  done        mark the task completed
  undo        mark the task open again
  urgent      set the urgent flag
  not urgent  clear the urgent flag
  delete      delete the task (not logged)`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}
			out, err := c.AddCommentUseCase().Execute(cmd.Context(), usecase.AddCommentInput{
				TaskID: id,
				Text:   strings.Join(args[1:], " "),
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch {
			case out.Deleted:
				_, _ = fmt.Fprintf(w, "Deleted task %s: %s\n", shortID(id), out.Task.Title)
			case out.Command != domain.CommandNone:
				_, _ = fmt.Fprintf(w, "Added comment to task %s (%s)\n", shortID(id), out.Command)
			default:
				_, _ = fmt.Fprintf(w, "Added comment to task %s\n", shortID(id))
			}
			return nil
		},
	}
}

// newSubtaskCommand creates the subtask command.
func newSubtaskCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtask",
		Short: "Manage a task's checklist",
		// No RunE: shows subcommand list when called without arguments
	}

	cmd.AddCommand(newSubtaskAddCommand(c))
	cmd.AddCommand(newSubtaskToggleCommand(c))

	return cmd
}

// newSubtaskAddCommand creates the subtask add subcommand.
func newSubtaskAddCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "add <id> <title>...",
		Short: "Add a subtask",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}
			out, err := c.AddSubtaskUseCase().Execute(cmd.Context(), usecase.AddSubtaskInput{
				TaskID: id,
				Title:  strings.Join(args[1:], " "),
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added subtask %s to task %s\n", shortID(out.Subtask.ID), shortID(id))
			return nil
		},
	}
}

// newSubtaskToggleCommand creates the subtask toggle subcommand.
func newSubtaskToggleCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id> <subtask-id>",
		Short: "Check or uncheck a subtask",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}
			subID, err := resolveSubtaskID(c, id, args[1])
			if err != nil {
				return err
			}
			out, err := c.ToggleSubtaskUseCase().Execute(cmd.Context(), usecase.ToggleSubtaskInput{
				TaskID:    id,
				SubtaskID: subID,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", checkMark(out.Subtask.Completed), out.Subtask.Title)
			return nil
		},
	}
}

// resolveSubtaskID expands a subtask ID prefix within task id.
func resolveSubtaskID(c *app.Container, id, arg string) (string, error) {
	task, err := c.Tasks.Get(id)
	if err != nil {
		return "", err
	}
	if task == nil {
		return "", fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}

	var matches []string
	for _, s := range task.Subtasks {
		if s.ID == arg {
			return s.ID, nil
		}
		if strings.HasPrefix(s.ID, arg) {
			matches = append(matches, s.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", domain.ErrSubtaskNotFound, arg)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("%w: subtask %s matches %d entries", errAmbiguousID, arg, len(matches))
}

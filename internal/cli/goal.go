package cli

import (
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/runoshun/taskcal/internal/app"
	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/usecase"
	"github.com/spf13/cobra"
)

// newGoalCommand creates the goal command.
func newGoalCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage weekly and daily goals",
		// No RunE: shows subcommand list when called without arguments
	}

	cmd.AddCommand(newGoalSetCommand(c))
	cmd.AddCommand(newGoalShowCommand(c))

	return cmd
}

// newGoalSetCommand creates the goal set subcommand.
func newGoalSetCommand(c *app.Container) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "set <week|day> [text]...",
		Short: "Set or clear a goal",
		Long: `Set the goal of the week or day containing --date (default today).

A week runs Sunday to Saturday. Omitting the text clears the goal.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := domain.ParseGoalScope(args[0])
			if err != nil {
				return err
			}
			day, err := parseDate(c, date, c.Clock.Now())
			if err != nil {
				return err
			}

			out, err := c.SetGoalUseCase().Execute(cmd.Context(), usecase.SetGoalInput{
				Date:  day,
				Scope: scope,
				Text:  strings.Join(args[1:], " "),
			})
			if err != nil {
				return err
			}
			if out.Removed {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s goal %s\n", scope, out.Key)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s goal %s: %s\n", scope, out.Key, out.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any date inside the period (default today)")

	return cmd
}

// newGoalShowCommand creates the goal show subcommand.
func newGoalShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show <week|day>",
		Short: "List goals of a scope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := domain.ParseGoalScope(args[0])
			if err != nil {
				return err
			}
			out, err := c.ShowGoalsUseCase().Execute(cmd.Context(), usecase.ShowGoalsInput{Scope: scope})
			if err != nil {
				return err
			}
			if len(out.Goals) == 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No %s goals\n", scope)
				return nil
			}

			keys := make([]string, 0, len(out.Goals))
			for k := range out.Goals {
				keys = append(keys, k)
			}
			slices.Sort(keys)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "KEY\tGOAL")
			for _, k := range keys {
				_, _ = fmt.Fprintf(tw, "%s\t%s\n", k, out.Goals[k])
			}
			return tw.Flush()
		},
	}
}

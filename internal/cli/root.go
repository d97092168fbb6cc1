// Package cli provides the command-line interface for taskcal.
package cli

import (
	"fmt"

	"github.com/runoshun/taskcal/internal/app"
	"github.com/runoshun/taskcal/internal/domain"
	"github.com/spf13/cobra"
)

// Command group IDs.
const (
	groupSetup    = "setup"
	groupTask     = "task"
	groupCalendar = "calendar"
	groupData     = "data"
)

// DataDirFlag is the persistent flag selecting the data directory.
// main reads it before the container exists.
const DataDirFlag = "data-dir"

// annotationNoStore marks commands that run without an initialized store.
const annotationNoStore = "taskcal/no-store"

// NewRootCommand creates the root command for taskcal.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:   "taskcal",
		Short: "Personal task calendar",
		Long: `taskcal keeps dated tasks, weekly and daily goals, and derives
calendar views and completion statistics from them.

Data lives in --data-dir, $TASKCAL_HOME, or $XDG_DATA_HOME/taskcal.
Run 'taskcal init' once before adding tasks.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}

			if c.AppConfig != nil {
				for _, w := range c.AppConfig.Warnings {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
				}
			}

			if skipsStore(cmd) {
				return nil
			}
			if !c.StoreInitializer.IsInitialized() {
				return domain.ErrNotInitialized
			}
			c.Open(cmd.Context())
			return nil
		},
	}

	root.PersistentFlags().StringVar(&dataDir, DataDirFlag, "", "Data directory (default $TASKCAL_HOME or $XDG_DATA_HOME/taskcal)")

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupCalendar, Title: "Calendar & Goals:"},
		&cobra.Group{ID: groupData, Title: "Import & Export:"},
	)

	grouped := []struct {
		group string
		cmds  []*cobra.Command
	}{
		{groupSetup, []*cobra.Command{
			newInitCommand(c),
			newConfigCommand(c),
		}},
		{groupTask, []*cobra.Command{
			newAddCommand(c),
			newListCommand(c),
			newShowCommand(c),
			newMoveCommand(c),
			newOrderCommand(c),
			newCpCommand(c),
			newRmCommand(c),
			newDoneCommand(c),
			newUrgentCommand(c),
			newCommentCommand(c),
			newSubtaskCommand(c),
		}},
		{groupCalendar, []*cobra.Command{
			newGoalCommand(c),
			newCalendarCommand(c),
			newStatsCommand(c),
			newShellCommand(c),
		}},
		{groupData, []*cobra.Command{
			newImportCommand(c),
			newExportCommand(c),
		}},
	}
	for _, g := range grouped {
		for _, cmd := range g.cmds {
			cmd.GroupID = g.group
			root.AddCommand(cmd)
		}
	}

	return root
}

// skipsStore reports whether cmd or one of its parents is marked annotationNoStore.
// The root itself and cobra's help and completion commands never need the store.
func skipsStore(cmd *cobra.Command) bool {
	if !cmd.HasParent() {
		return true
	}
	for p := cmd; p != nil; p = p.Parent() {
		if _, ok := p.Annotations[annotationNoStore]; ok {
			return true
		}
		switch p.Name() {
		case "help", "completion":
			return true
		}
	}
	return false
}

// noStore is the annotation set of commands that skip the store check.
func noStore() map[string]string {
	return map[string]string{annotationNoStore: "true"}
}

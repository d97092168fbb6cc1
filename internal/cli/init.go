package cli

import (
	"fmt"

	"github.com/runoshun/taskcal/internal/app"
	"github.com/runoshun/taskcal/internal/usecase"
	"github.com/spf13/cobra"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	var writeConfig bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the data directory",
		Long: `Initialize the taskcal data directory.

This prepares the configured store backend:
- json: <data-dir>/store/ with one file per collection
- git:  <data-dir>/store.git, a bare repository holding documents as refs

With --config the effective configuration is also written to
<data-dir>/config.toml (an existing file is left untouched).

Running init again is harmless.`,
		Args:        cobra.NoArgs,
		Annotations: noStore(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.InitStoreUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InitStoreInput{WriteConfig: writeConfig})
			if err != nil {
				return err
			}

			// Create the empty documents now rather than on first write
			c.Open(cmd.Context())

			w := cmd.OutOrStdout()
			if out.AlreadyInitialized {
				_, _ = fmt.Fprintf(w, "taskcal already initialized in %s\n", c.Config.DataDir)
			} else {
				_, _ = fmt.Fprintf(w, "Initialized taskcal in %s\n", c.Config.DataDir)
			}
			if out.ConfigWritten {
				_, _ = fmt.Fprintf(w, "Wrote config to %s\n", out.ConfigPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&writeConfig, "config", false, "Also write config.toml to the data directory")

	return cmd
}

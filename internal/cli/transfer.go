package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/runoshun/taskcal/internal/app"
	"github.com/runoshun/taskcal/internal/importer"
	"github.com/runoshun/taskcal/internal/infra/bundle"
	"github.com/runoshun/taskcal/internal/usecase"
	"github.com/spf13/cobra"
)

// stdioPath selects stdin or stdout instead of a file.
const stdioPath = "-"

var errFormatRequired = errors.New("--format is required when reading stdin")

// newImportCommand creates the import command.
func newImportCommand(c *app.Container) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Import tasks from a file",
		Long: `Import tasks from a file. The format follows the extension unless --format is set.

Tabular files (.csv, .txt, .tsv) need a header with "Task Name",
"Task Content" and "Due Date Text" columns. Their rows are appended.
Due dates are millisecond epochs or dates in [import] date_layout and
timezone. Rows with missing or unreadable fields are skipped and reported.

Structured files (.json, .yaml) hold a previous export and REPLACE all
tasks and goals. Undo history is cleared.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, f, err := readInput(cmd, c.Files, args[0], format)
			if err != nil {
				return err
			}

			uc, err := c.ImportTasksUseCase()
			if err != nil {
				return err
			}
			out, err := uc.Execute(cmd.Context(), usecase.ImportTasksInput{Format: f, Content: data})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.Replaced {
				_, _ = fmt.Fprintf(w, "Replaced all data with %d tasks\n", out.Imported)
				return nil
			}
			_, _ = fmt.Fprintf(w, "Imported %d tasks (%d of %d rows valid)\n", out.Imported, out.ValidRows, out.TotalRows)
			for _, d := range out.Diagnostics {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "  line %d: %s\n", d.Line, d.Reason)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "json, yaml, csv or tsv (default from extension)")

	return cmd
}

func readInput(cmd *cobra.Command, files *bundle.Files, path, format string) ([]byte, importer.Format, error) {
	if path != stdioPath && format == "" {
		return files.ReadImport(path)
	}
	if format == "" {
		return nil, "", errFormatRequired
	}
	f, err := importer.ParseFormat(format)
	if err != nil {
		return nil, "", err
	}

	var data []byte
	if path == stdioPath {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = files.Read(path)
	}
	if err != nil {
		return nil, "", err
	}
	return data, f, nil
}

// newExportCommand creates the export command.
func newExportCommand(c *app.Container) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [file|-]",
		Short: "Export all tasks and goals",
		Long: `Export every task and goal as JSON or YAML.

Without a file (or with -) the bundle is written to stdout and --format
defaults to json. A file's format follows its extension unless --format is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := stdioPath
			if len(args) == 1 {
				path = args[0]
			}

			f, err := exportFormat(path, format)
			if err != nil {
				return err
			}

			out, err := c.ExportDataUseCase().Execute(cmd.Context(), usecase.ExportDataInput{Format: f})
			if err != nil {
				return err
			}

			if path == stdioPath {
				_, err := cmd.OutOrStdout().Write(out.Data)
				return err
			}
			if err := c.Files.WriteExport(path, out.Data); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks to %s\n", out.Tasks, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "json or yaml (default from extension)")

	return cmd
}

func exportFormat(path, format string) (importer.Format, error) {
	switch {
	case format != "":
		return importer.ParseFormat(format)
	case path == stdioPath:
		return importer.FormatJSON, nil
	}
	return bundle.FormatForPath(path)
}

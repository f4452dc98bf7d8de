package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskmaster/todo/internal/adapters/export"
)

// NewExportCommand creates the export command
func NewExportCommand(opts *Options) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the task board",
		Long:  "Export pending and completed tasks as " + strings.Join(export.Formats(), ", "),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			data, err := export.NewExporter(a.store, a.presenter, a.loc).Export(format)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d bytes)\n", output, len(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", export.FormatJSON, "Output format ("+strings.Join(export.Formats(), "|")+")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

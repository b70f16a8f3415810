package commands

import (
	"fmt"
	"os"

	"github.com/epeers/stocktracker/internal/importer"
	"github.com/spf13/cobra"
)

func newTemplateCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Print a sample import file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), importer.Template())
				return err
			}
			if err := os.WriteFile(out, []byte(importer.Template()), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "write to this file instead of stdout (e.g. "+importer.TemplateFilename+")")

	return cmd
}

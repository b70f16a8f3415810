package commands

import (
	"fmt"
	"os"

	"github.com/epeers/stocktracker/internal/importer"
	"github.com/epeers/stocktracker/internal/ledger"
	"github.com/spf13/cobra"
)

func newDetectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect FILE",
		Short: "Report the detected format and column mapping of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			im := importer.NewImporter(nil, ledger.Processor{}, nil, nil)
			detection, err := im.Detect(raw)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "format:  %s\nmapping: %s\n", detection.Format, detection.Mapping)
			return nil
		},
	}
}

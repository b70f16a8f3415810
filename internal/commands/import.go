package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/epeers/stocktracker/internal/importer"
	"github.com/epeers/stocktracker/internal/models"
	"github.com/spf13/cobra"
)

func newImportCommand(open Opener) *cobra.Command {
	var opts importer.Options

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import transactions from a CSV export",
		Long: "Detects the layout of FILE, applies every valid row in one database transaction\n" +
			"and prints the outcome. Row errors are reported without stopping the import.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			svc, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			outcome, err := svc.Import(cmd.Context(), raw, opts)
			printOutcome(cmd.OutOrStdout(), outcome, opts.DryRun)
			return err
		},
	}

	cmd.Flags().BoolVar(&opts.SkipDuplicates, "skip-duplicates", true, "skip rows repeating an earlier row of the file")
	cmd.Flags().BoolVar(&opts.CreateMissingStocks, "create-missing-stocks", true, "register unknown tickers instead of rejecting their rows")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "validate against the database and roll back")

	return cmd
}

func printOutcome(w io.Writer, outcome *models.ImportOutcome, dryRun bool) {
	if outcome == nil {
		return
	}
	verb := "Imported"
	if dryRun {
		verb = "Would import"
	}
	fmt.Fprintf(w, "%s %d transactions (%d errors, %d skipped)\n",
		verb, outcome.SuccessCount, outcome.ErrorCount, outcome.SkippedCount)
	if len(outcome.CreatedTickers) > 0 {
		fmt.Fprintf(w, "Created stocks: %s\n", strings.Join(outcome.CreatedTickers, ", "))
	}
	for _, msg := range outcome.Warnings {
		fmt.Fprintf(w, "warning: %s\n", msg)
	}
	for _, msg := range outcome.Errors {
		fmt.Fprintf(w, "error: %s\n", msg)
	}
}

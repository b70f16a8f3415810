// Package commands implements ledgerctl, the command line front end to the
// ledger and the file importer.
package commands

import (
	"context"
	"fmt"

	"github.com/epeers/stocktracker/config"
	"github.com/epeers/stocktracker/internal/database"
	"github.com/epeers/stocktracker/internal/ledger"
	"github.com/epeers/stocktracker/internal/repository"
	"github.com/epeers/stocktracker/internal/services"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Opener builds a ledger service for one command run. The returned func
// releases whatever the service holds.
type Opener func(ctx context.Context) (*services.LedgerService, func(), error)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(open Opener) *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Portfolio ledger maintenance: imports, format detection and position rebuilds",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		newImportCommand(open),
		newDetectCommand(),
		newTemplateCommand(),
		newRebuildCommand(open),
	)

	return rootCmd
}

// OpenPostgres wires a ledger service to the database named by the
// environment, the same way the API server does.
func OpenPostgres(ctx context.Context) (*services.LedgerService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil && log.GetLevel() < level {
		log.SetLevel(level)
	}
	policy, err := ledger.ParseClosePolicy(cfg.ClosePolicy)
	if err != nil {
		return nil, nil, err
	}

	db, err := database.New(ctx, cfg.PGURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("applying schema: %w", err)
	}

	svc := services.NewLedgerService(repository.NewLedgerRepository(db.Pool), ledger.Processor{Policy: policy}, nil)
	return svc, db.Close, nil
}

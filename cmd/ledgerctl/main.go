package main

import (
	"os"

	"github.com/epeers/stocktracker/internal/commands"
)

func main() {
	if err := commands.NewRootCommand(commands.OpenPostgres).Execute(); err != nil {
		os.Exit(1)
	}
}

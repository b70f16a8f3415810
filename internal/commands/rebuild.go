package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRebuildCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild TICKER",
		Short: "Recompute a position from its full transaction history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			pos, err := svc.RebuildPosition(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if pos == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: no transactions, position removed\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d shares at average %s\n",
				pos.Ticker, pos.Quantity, pos.AverageCost.String())
			return nil
		},
	}
}

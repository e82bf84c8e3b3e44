package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/rovshanmuradov/solana-sandbox/internal/output"
	"github.com/rovshanmuradov/solana-sandbox/internal/stake"
	"github.com/rovshanmuradov/solana-sandbox/internal/wallet"
)

func newStakesCmd(c *cli) *cobra.Command {
	var walletAddress string
	cmd := &cobra.Command{
		Use:   "stakes",
		Short: "List stake accounts where the wallet is the staker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.outputOptions()
			if err != nil {
				return err
			}
			app, err := c.app(cmd.Context())
			if err != nil {
				return err
			}

			target := app.Wallet
			if walletAddress != "" {
				w, err := wallet.FromBase58(walletAddress)
				if err != nil {
					return fmt.Errorf("invalid wallet %q: %w", walletAddress, err)
				}
				target = w.PublicKey
			}

			listing, err := app.Stakes.List(cmd.Context(), target)
			if err != nil {
				return err
			}
			if err := output.List(cmd.OutOrStdout(), stakeColumns, opts, listing.Accounts, listing); err != nil {
				return err
			}
			if listing.Truncated && (opts.Format == output.TableFormat || opts.Format == output.CSVFormat) {
				cmd.PrintErrf("result truncated to %d accounts\n", len(listing.Accounts))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&walletAddress, "wallet", "", "wallet address (defaults to the configured wallet)")
	return cmd
}

var stakeColumns = []output.Column[stake.Summary]{
	{
		ColumnConfig: table.ColumnConfig{Name: "Account"},
		Value:        func(s stake.Summary) string { return s.Address.String() },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "Lamports", Align: text.AlignRight},
		Value:        func(s stake.Summary) string { return strconv.FormatUint(s.Lamports, 10) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "State"},
		Value: func(s stake.Summary) string {
			if s.State == nil {
				return "-"
			}
			return string(s.State.Kind)
		},
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "Voter"},
		Value: func(s stake.Summary) string {
			if s.State == nil || s.State.Delegation == nil {
				return "-"
			}
			return s.State.Delegation.Voter.String()
		},
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "Delegated", Align: text.AlignRight},
		Value: func(s stake.Summary) string {
			if s.State == nil || s.State.Delegation == nil {
				return "-"
			}
			return strconv.FormatUint(s.State.Delegation.Stake, 10)
		},
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "Owner"},
		Value:        func(s stake.Summary) string { return s.Owner.String() },
	},
}

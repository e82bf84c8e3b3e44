package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/rovshanmuradov/solana-sandbox/internal/operations"
	"github.com/rovshanmuradov/solana-sandbox/internal/output"
)

func newAddressesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "addresses",
		Short: "Show the wallet, token account, vote and stake addresses used by the operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.outputOptions()
			if err != nil {
				return err
			}
			if err := c.setup(cmd.Context()); err != nil {
				return err
			}
			descriptors, err := operations.DescriptorsFromConfig(c.cfg)
			if err != nil {
				return err
			}
			entries := operations.NewRegistry(descriptors).KeyAddresses()
			return output.List(cmd.OutOrStdout(), addressColumns, opts, entries, entries)
		},
	}
}

var addressColumns = []output.Column[operations.AddressEntry]{
	{
		ColumnConfig: table.ColumnConfig{Name: "Label"},
		Value:        func(e operations.AddressEntry) string { return e.Label },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "Address"},
		Value:        func(e operations.AddressEntry) string { return e.Address.String() },
	},
}

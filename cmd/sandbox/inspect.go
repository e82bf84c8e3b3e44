package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/rovshanmuradov/solana-sandbox/internal/inspect"
	"github.com/rovshanmuradov/solana-sandbox/internal/output"
)

func newInspectCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [base64-transaction]",
		Short: "Decode an encoded transaction (reads stdin when no argument is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.outputOptions()
			if err != nil {
				return err
			}

			var encoded string
			if len(args) == 1 {
				encoded = args[0]
			} else {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				encoded = string(raw)
			}

			tx, err := inspect.Decode(encoded)
			if err != nil {
				return err
			}
			if opts.Format == output.JSONFormat || opts.Format == output.YAMLFormat {
				return output.NonTabular(cmd.OutOrStdout(), opts, tx)
			}

			limit := "-"
			if tx.ComputeUnitLimit != nil {
				limit = strconv.FormatUint(uint64(*tx.ComputeUnitLimit), 10)
			}
			cmd.Printf("version = %s\npayer = %s\nsize = %d bytes\ncompute unit limit = %s\n\n",
				tx.Version, tx.Payer, tx.Size, limit)
			return output.List(cmd.OutOrStdout(), instructionColumns, opts, tx.Instructions, tx.Instructions)
		},
	}
}

var instructionColumns = []output.Column[inspect.Instruction]{
	{
		ColumnConfig: table.ColumnConfig{Name: "#", Align: text.AlignRight},
		Value:        func(ix inspect.Instruction) string { return strconv.Itoa(ix.Index) },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "Program"},
		Value: func(ix inspect.Instruction) string {
			if ix.Program != "" {
				return ix.Program
			}
			return ix.ProgramID
		},
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "Accounts", WidthMax: 50, WidthMaxEnforcer: text.WrapHard},
		Value:        func(ix inspect.Instruction) string { return strings.Join(ix.Accounts, "\n") },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "Data (base58)", WidthMax: 40, WidthMaxEnforcer: text.WrapHard},
		Value:        func(ix inspect.Instruction) string { return ix.Data },
	},
}

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/rovshanmuradov/solana-sandbox/internal/operations"
	"github.com/rovshanmuradov/solana-sandbox/internal/output"
	"github.com/rovshanmuradov/solana-sandbox/internal/sandbox"
)

func newSimulateCmd(c *cli) *cobra.Command {
	var names []string
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate operations and report compute units and encoded transactions",
		Example: "  sandbox simulate\n" +
			"  sandbox simulate --op send-sol --op stake -o json",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.outputOptions()
			if err != nil {
				return err
			}
			app, err := c.app(cmd.Context())
			if err != nil {
				return err
			}
			app.LogAddresses()

			selected, err := app.Registry.Select(names)
			if err != nil {
				return err
			}

			var onDone func(sandbox.Outcome)
			if isatty.IsTerminal(os.Stderr.Fd()) {
				bar := progressbar.NewOptions(len(selected),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionSetDescription("simulating"),
					progressbar.OptionClearOnFinish())
				onDone = func(sandbox.Outcome) { _ = bar.Add(1) }
			}

			outcomes, err := app.Runner.Run(cmd.Context(), selected, onDone)
			if err != nil {
				return err
			}
			report := sandbox.Report(outcomes)
			if err := output.List(cmd.OutOrStdout(), simulateColumns, opts, report, report); err != nil {
				return err
			}
			if failed := sandbox.Errors(outcomes); failed != nil {
				return fmt.Errorf("some operations failed: %w", failed)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&names, "op", nil,
		fmt.Sprintf("operation to simulate (repeatable): %v", operations.Names()))
	return cmd
}

var simulateColumns = []output.Column[sandbox.ReportEntry]{
	{
		ColumnConfig: table.ColumnConfig{Name: "Operation"},
		Value:        func(e sandbox.ReportEntry) string { return e.Name },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "Compute Units", Align: text.AlignRight},
		Value: func(e sandbox.ReportEntry) string {
			if e.ComputeUnits == nil {
				return "-"
			}
			return strconv.FormatUint(*e.ComputeUnits, 10)
		},
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "Description", WidthMax: 60, WidthMaxEnforcer: text.WrapText},
		Value:        func(e sandbox.ReportEntry) string { return e.Description },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "Error", WidthMax: 60, WidthMaxEnforcer: text.WrapText},
		Value:        func(e sandbox.ReportEntry) string { return e.Error },
	},
	{
		ColumnConfig: table.ColumnConfig{Name: "Transaction (base64)", WidthMax: 48, WidthMaxEnforcer: text.Trim},
		Value:        func(e sandbox.ReportEntry) string { return e.EncodedTransaction },
	},
}

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Simplici0/printdesk/internal/format"
	"github.com/Simplici0/printdesk/internal/pricing"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		jobPath string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Compute the production cost of a finished print",
		Long: `history prices material and energy only, the way printing history
records are stored. Labor, tax and margin in the job file are ignored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := loadJob(jobPath)
			if err != nil {
				return err
			}

			cost := pricing.CalculateHistorical(
				job.Draft.FilamentConsumptions,
				job.Catalog.Filaments,
				job.printer(),
				job.Draft.PrintTimeHours,
				job.Draft.ElectricityCostPerKWh,
			)
			return writeHistory(cmd.OutOrStdout(), output, a.formatter(job), cost)
		},
	}

	cmd.Flags().StringVarP(&jobPath, "file", "f", "", "job file (YAML)")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format (text, json)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func writeHistory(w io.Writer, output string, f format.Formatter, cost pricing.HistoricalCost) error {
	switch output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cost)
	case outputText:
		fmt.Fprintf(w, "Filamento: %s (%s)\n", f.Money(cost.TotalFilamentCost), format.Grams(cost.TotalGramsUsed))
		fmt.Fprintf(w, "Energía: %s\n", f.Money(cost.TotalEnergyCost))
		fmt.Fprintf(w, "Costo total: %s\n", f.Money(cost.TotalCost))
		return nil
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}

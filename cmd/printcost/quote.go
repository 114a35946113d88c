package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/printdesk/internal/format"
	"github.com/Simplici0/printdesk/internal/pricing"
)

const (
	outputText = "text"
	outputJSON = "json"
)

type quoteResult struct {
	Breakdown    pricing.CostBreakdown   `json:"breakdown"`
	Margin       pricing.MarginSelection `json:"margin"`
	PricePerUnit float64                 `json:"price_per_unit"`
	Tiers        []pricing.TierPrice     `json:"tiers"`
}

func newQuoteCmd(a *app) *cobra.Command {
	var (
		jobPath string
		margin  string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a job with tax, margin and suggested tier prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := loadJob(jobPath)
			if err != nil {
				return err
			}
			selection, err := job.margin(margin, a.cfg.DefaultProfitMargin)
			if err != nil {
				return err
			}

			breakdown := pricing.Quote(job.Draft, job.Catalog, job.PrinterID, job.WorkPackageID, selection)
			a.logger.Debug("job priced",
				zap.String("job", jobPath),
				zap.String("margin_kind", string(selection.Kind)),
				zap.Float64("final_value", breakdown.FinalValue),
			)

			result := quoteResult{
				Breakdown:    breakdown,
				Margin:       selection,
				PricePerUnit: breakdown.PricePerUnit(),
				Tiers:        pricing.TierPrices(breakdown.TotalCost, breakdown.Quantity),
			}
			return writeQuote(cmd.OutOrStdout(), output, a.formatter(job), result)
		},
	}

	cmd.Flags().StringVarP(&jobPath, "file", "f", "", "job file (YAML)")
	cmd.Flags().StringVarP(&margin, "margin", "m", "", "margin override: tier:N, custom:N or default")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format (text, json)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (a *app) formatter(job jobFile) format.Formatter {
	if job.Currency != "" {
		return format.New(job.Currency)
	}
	return format.New(a.cfg.Currency)
}

func writeQuote(w io.Writer, output string, f format.Formatter, r quoteResult) error {
	switch output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case outputText:
		fmt.Fprintf(w, "Precio final: %s\n", f.Money(r.Breakdown.FinalValue))
		fmt.Fprintf(w, "Precio por unidad: %s (cantidad %d)\n\n", f.Money(r.PricePerUnit), r.Breakdown.Quantity)
		_, err := io.WriteString(w, f.BreakdownText(r.Breakdown))
		return err
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}

// Package pricing is the cost engine shared by the calculator, quotations,
// sale costing and printing history. Every function is pure: callers
// recompute from scratch on each input change and round only for display.
package pricing

// Calculate runs the full pipeline for a job whose rates are already resolved.
func Calculate(draft JobDraft, rates Rates, margin MarginSelection) CostBreakdown {
	c := Aggregate(draft, rates)
	t := ApplyTaxAndMargin(c, draft.Quantity, draft.TaxRatePercent, margin)

	return CostBreakdown{
		TotalFilamentCost: c.TotalFilamentCost,
		TotalEnergyCost:   c.TotalEnergyCost,
		TotalGramsUsed:    c.TotalGramsUsed,
		WorkPackageCost:   c.WorkPackageCost,
		PackagingCost:     c.PackagingCost,
		AdditionalCosts:   c.AdditionalCosts,
		TotalLaborCost:    c.TotalLaborCost,
		CostPerUnit:       t.CostPerUnit,
		SubtotalCost:      t.SubtotalCost,
		TaxRate:           finite(draft.TaxRatePercent),
		TaxAmount:         t.TaxAmount,
		TotalCost:         t.TotalCost,
		MarginPercent:     finite(margin.Percent),
		MarginAmount:      t.MarginAmount,
		FinalValue:        t.FinalValue,
		Quantity:          draft.Quantity,
	}
}

// Quote resolves rates from catalog and calculates draft in one step.
func Quote(draft JobDraft, catalog Catalog, printerID, workPackageID string, margin MarginSelection) CostBreakdown {
	rates := ResolveRates(draft.FilamentConsumptions, catalog, printerID, workPackageID)
	return Calculate(draft, rates, margin)
}

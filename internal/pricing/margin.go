package pricing

import "fmt"

// MarginKind tags how a margin percent was chosen.
type MarginKind string

const (
	// MarginTier is one of StandardTiers picked by the user.
	MarginTier MarginKind = "tier"
	// MarginCustom is a free percent typed by the user.
	MarginCustom MarginKind = "custom"
	// MarginDefault is the configured default profit margin.
	MarginDefault MarginKind = "default"
)

// StandardTiers are the margin percents offered next to every calculation.
var StandardTiers = []float64{25, 40, 60, 80}

// MarginSelection is the margin applied to the total cost of a job.
type MarginSelection struct {
	Kind    MarginKind `json:"kind" yaml:"kind"`
	Percent float64    `json:"percent" yaml:"percent"`
}

// TierMargin selects one of the standard tiers. Percents that are not a
// standard tier are rejected.
func TierMargin(percent float64) (MarginSelection, error) {
	for _, tier := range StandardTiers {
		if tier == percent {
			return MarginSelection{Kind: MarginTier, Percent: percent}, nil
		}
	}
	return MarginSelection{}, fmt.Errorf("margin tier %v is not one of %v", percent, StandardTiers)
}

// CustomMargin selects a free margin percent.
func CustomMargin(percent float64) MarginSelection {
	return MarginSelection{Kind: MarginCustom, Percent: percent}
}

// DefaultMargin selects the configured default profit margin.
func DefaultMargin(percent float64) MarginSelection {
	return MarginSelection{Kind: MarginDefault, Percent: percent}
}

// Totals is the outcome of applying tax and margin to cost components.
type Totals struct {
	CostPerUnit  float64 `json:"cost_per_unit"`
	SubtotalCost float64 `json:"subtotal_cost"`
	TaxAmount    float64 `json:"tax_amount"`
	TotalCost    float64 `json:"total_cost"`
	MarginAmount float64 `json:"margin_amount"`
	FinalValue   float64 `json:"final_value"`
}

// ApplyTaxAndMargin prices the components for quantity units. Material and
// energy scale with quantity; labor is charged once per job.
func ApplyTaxAndMargin(c CostComponents, quantity int, taxRatePercent float64, margin MarginSelection) Totals {
	costPerUnit := saturate(c.TotalFilamentCost + c.TotalEnergyCost)
	// Explicit float64 conversions keep the compiler from fusing the
	// multiply-add, so the identities below hold bit for bit. Every step
	// saturates so an overflow can never turn into Inf or NaN downstream.
	subtotal := saturate(saturate(float64(costPerUnit*float64(quantity))) + c.TotalLaborCost)
	taxAmount := saturate(float64(subtotal * (finite(taxRatePercent) / 100)))
	totalCost := saturate(subtotal + taxAmount)
	finalValue := withMargin(totalCost, margin.Percent)

	return Totals{
		CostPerUnit:  costPerUnit,
		SubtotalCost: subtotal,
		TaxAmount:    taxAmount,
		TotalCost:    totalCost,
		MarginAmount: saturate(finalValue - totalCost),
		FinalValue:   finalValue,
	}
}

// withMargin is the single markup formula shared by selected margins and
// tier projections.
func withMargin(totalCost, percent float64) float64 {
	return saturate(float64(totalCost * (1 + finite(percent)/100)))
}

// TierPrice is one standard tier projected from a total cost.
type TierPrice struct {
	Percent      float64 `json:"percent"`
	Price        float64 `json:"price"`
	PricePerUnit float64 `json:"price_per_unit"`
}

// TierPrices projects every standard tier from totalCost.
func TierPrices(totalCost float64, quantity int) []TierPrice {
	prices := make([]TierPrice, 0, len(StandardTiers))
	for _, tier := range StandardTiers {
		price := withMargin(totalCost, tier)
		prices = append(prices, TierPrice{
			Percent:      tier,
			Price:        price,
			PricePerUnit: PerUnit(price, float64(quantity)),
		})
	}
	return prices
}

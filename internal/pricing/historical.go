package pricing

// HistoricalCost is the production cost of a completed print: material and
// energy only, no labor, tax or margin.
type HistoricalCost struct {
	TotalGramsUsed    float64 `json:"total_grams_used"`
	TotalFilamentCost float64 `json:"total_filament_cost"`
	TotalEnergyCost   float64 `json:"total_energy_cost"`
	TotalCost         float64 `json:"total_cost"`
}

// CalculateHistorical records what a finished print cost to produce. It uses
// the same material and energy formulas as Aggregate so recorded history and
// live quotes never drift apart.
func CalculateHistorical(consumptions []FilamentConsumption, filaments []FilamentRate, printer *PrinterRate, printTimeHours, electricityCostPerKWh float64) HistoricalCost {
	var printerID string
	if printer != nil {
		printerID = printer.PrinterID
	}
	catalog := Catalog{Filaments: filaments}
	if printer != nil {
		catalog.Printers = []PrinterRate{*printer}
	}
	rates := ResolveRates(consumptions, catalog, printerID, "")

	filamentCost, grams := materialCost(consumptions, rates.FilamentCostPerGram)
	energy := energyCost(rates.PrinterKWh, electricityCostPerKWh, printTimeHours)

	return HistoricalCost{
		TotalGramsUsed:    grams,
		TotalFilamentCost: filamentCost,
		TotalEnergyCost:   energy,
		TotalCost:         saturate(filamentCost + energy),
	}
}

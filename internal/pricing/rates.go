package pricing

import "math"

// Rates are the numeric rates a job needs, extracted from a Catalog.
type Rates struct {
	FilamentCostPerGram map[string]float64
	PrinterKWh          float64
	WorkPackage         *WorkPackageRule
}

// ResolveRates looks up the filaments referenced by consumptions, the printer
// and the work package in catalog. Ids that are empty or not in the catalog
// resolve to a missing rate: no map entry, zero kWh or a nil rule.
func ResolveRates(consumptions []FilamentConsumption, catalog Catalog, printerID, workPackageID string) Rates {
	rates := Rates{FilamentCostPerGram: make(map[string]float64, len(consumptions))}

	wanted := make(map[string]struct{}, len(consumptions))
	for _, c := range consumptions {
		if c.FilamentID != "" {
			wanted[c.FilamentID] = struct{}{}
		}
	}
	for _, f := range catalog.Filaments {
		if _, ok := wanted[f.FilamentID]; !ok {
			continue
		}
		// First catalog entry wins on duplicate ids.
		if _, seen := rates.FilamentCostPerGram[f.FilamentID]; seen {
			continue
		}
		rates.FilamentCostPerGram[f.FilamentID] = finite(f.CostPerGram)
	}

	if printerID != "" {
		for _, p := range catalog.Printers {
			if p.PrinterID == printerID {
				rates.PrinterKWh = finite(p.KWhPerHour)
				break
			}
		}
	}

	if workPackageID != "" && workPackageID != "none" {
		for _, wp := range catalog.WorkPackages {
			if wp.ID == workPackageID {
				rule := wp
				rates.WorkPackage = &rule
				break
			}
		}
	}

	return rates
}

// finite maps NaN and ±Inf to zero so blank or unparseable form fields never
// poison a calculation.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// saturate clamps an overflowed result to the largest finite float so
// derived values stay finite and keep their sign. NaN becomes zero.
func saturate(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	}
	return v
}

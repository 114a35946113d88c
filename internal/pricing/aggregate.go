package pricing

// CostComponents holds the job-level costs before tax and margin.
type CostComponents struct {
	TotalFilamentCost float64 `json:"total_filament_cost"`
	TotalGramsUsed    float64 `json:"total_grams_used"`
	TotalEnergyCost   float64 `json:"total_energy_cost"`
	WorkPackageCost   float64 `json:"work_package_cost"`
	PackagingCost     float64 `json:"packaging_cost"`
	AdditionalCosts   float64 `json:"additional_costs"`
	TotalLaborCost    float64 `json:"total_labor_cost"`
}

// Aggregate combines material, energy and labor costs for draft.
func Aggregate(draft JobDraft, rates Rates) CostComponents {
	filamentCost, grams := materialCost(draft.FilamentConsumptions, rates.FilamentCostPerGram)
	energy := energyCost(rates.PrinterKWh, draft.ElectricityCostPerKWh, draft.PrintTimeHours)
	workPackage := workPackageCost(rates.WorkPackage, draft.WorkPackageHours)

	packaging := finite(draft.PackagingCost)
	additional := finite(draft.AdditionalCosts)

	return CostComponents{
		TotalFilamentCost: filamentCost,
		TotalGramsUsed:    grams,
		TotalEnergyCost:   energy,
		WorkPackageCost:   workPackage,
		PackagingCost:     packaging,
		AdditionalCosts:   additional,
		TotalLaborCost:    saturate(saturate(workPackage+packaging) + additional),
	}
}

// materialCost sums grams × cost per gram over complete rows. Rows without
// grams or without a resolved filament count toward neither total.
func materialCost(consumptions []FilamentConsumption, costPerGram map[string]float64) (cost, grams float64) {
	for _, c := range consumptions {
		if c.FilamentID == "" || c.GramsUsed == nil {
			continue
		}
		rate, ok := costPerGram[c.FilamentID]
		if !ok {
			continue
		}
		g := finite(*c.GramsUsed)
		cost = saturate(cost + saturate(g*finite(rate)))
		grams = saturate(grams + g)
	}
	return cost, grams
}

func energyCost(kwhPerHour, electricityCostPerKWh, printTimeHours float64) float64 {
	return saturate(saturate(finite(kwhPerHour)*finite(electricityCostPerKWh)) * finite(printTimeHours))
}

func workPackageCost(rule *WorkPackageRule, hours float64) float64 {
	if rule == nil {
		return 0
	}
	switch rule.CalculationType {
	case CalculationFixed:
		return finite(rule.Value)
	case CalculationMultiply:
		return saturate(finite(rule.Value) * finite(hours))
	default:
		return 0
	}
}

package pricing

// CalculationType selects how a work package turns hours into labor cost.
type CalculationType string

const (
	// CalculationFixed charges the package value once per job.
	CalculationFixed CalculationType = "Fixed"
	// CalculationMultiply charges the package value per work hour.
	CalculationMultiply CalculationType = "Multiply"
)

// FilamentRate is the per-gram cost of one filament.
type FilamentRate struct {
	FilamentID  string  `json:"filament_id" yaml:"filament_id"`
	CostPerGram float64 `json:"cost_per_gram" yaml:"cost_per_gram"`
}

// FilamentConsumption is a filament and the grams a job uses of it.
// A nil GramsUsed means the row has not been filled in yet.
type FilamentConsumption struct {
	FilamentID string   `json:"filament_id" yaml:"filament_id"`
	GramsUsed  *float64 `json:"grams_used" yaml:"grams_used"`
}

// PrinterRate is the energy draw of one printer.
type PrinterRate struct {
	PrinterID  string  `json:"printer_id" yaml:"printer_id"`
	KWhPerHour float64 `json:"kwh_per_hour" yaml:"kwh_per_hour"`
}

// WorkPackageRule is a priced labor rule.
type WorkPackageRule struct {
	ID              string          `json:"id" yaml:"id"`
	CalculationType CalculationType `json:"calculation_type" yaml:"calculation_type"`
	Value           float64         `json:"value" yaml:"value"`
}

// Catalog groups the reference records the rate resolver looks ids up in.
type Catalog struct {
	Filaments    []FilamentRate    `json:"filaments" yaml:"filaments"`
	Printers     []PrinterRate     `json:"printers" yaml:"printers"`
	WorkPackages []WorkPackageRule `json:"work_packages" yaml:"work_packages"`
}

// JobDraft describes a print job as typed into a form.
type JobDraft struct {
	FilamentConsumptions  []FilamentConsumption `json:"filament_consumptions" yaml:"filament_consumptions"`
	PrintTimeHours        float64               `json:"print_time_hours" yaml:"print_time_hours"`
	WorkPackageHours      float64               `json:"work_package_hours" yaml:"work_package_hours"`
	Quantity              int                   `json:"quantity" yaml:"quantity"`
	TaxRatePercent        float64               `json:"tax_rate_percent" yaml:"tax_rate_percent"`
	PackagingCost         float64               `json:"packaging_cost" yaml:"packaging_cost"`
	AdditionalCosts       float64               `json:"additional_costs" yaml:"additional_costs"`
	ElectricityCostPerKWh float64               `json:"electricity_cost_per_kwh" yaml:"electricity_cost_per_kwh"`
}

// CostBreakdown is the full result of pricing one job. All values are raw and
// unrounded.
type CostBreakdown struct {
	TotalFilamentCost float64 `json:"total_filament_cost"`
	TotalEnergyCost   float64 `json:"total_energy_cost"`
	TotalGramsUsed    float64 `json:"total_grams_used"`
	WorkPackageCost   float64 `json:"work_package_cost"`
	PackagingCost     float64 `json:"packaging_cost"`
	AdditionalCosts   float64 `json:"additional_costs"`
	TotalLaborCost    float64 `json:"total_labor_cost"`
	CostPerUnit       float64 `json:"cost_per_unit"`
	SubtotalCost      float64 `json:"subtotal_cost"`
	TaxRate           float64 `json:"tax_rate"`
	TaxAmount         float64 `json:"tax_amount"`
	TotalCost         float64 `json:"total_cost"`
	MarginPercent     float64 `json:"margin_percent"`
	MarginAmount      float64 `json:"margin_amount"`
	FinalValue        float64 `json:"final_value"`
	Quantity          int     `json:"quantity"`
}

// PricePerUnit is the customer price of a single unit.
func (b CostBreakdown) PricePerUnit() float64 {
	return PerUnit(b.FinalValue, float64(b.Quantity))
}

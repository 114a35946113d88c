package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Simplici0/printdesk/internal/pricing"
)

// fieldNumber decodes JSON numbers and the raw strings form inputs send.
// null, blank and unparseable values decode as unset so a half-filled form
// still prices.
type fieldNumber struct {
	value float64
	set   bool
}

func (n *fieldNumber) UnmarshalJSON(data []byte) error {
	*n = fieldNumber{}
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	}
	if raw == "" {
		return nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*n = fieldNumber{value: v, set: true}
	return nil
}

func (n fieldNumber) float() float64 {
	if !n.set {
		return 0
	}
	return n.value
}

func (n fieldNumber) or(fallback float64) float64 {
	if !n.set {
		return fallback
	}
	return n.value
}

func (n fieldNumber) ptr() *float64 {
	if !n.set {
		return nil
	}
	v := n.value
	return &v
}

type consumptionRequest struct {
	FilamentID string      `json:"filament_id"`
	GramsUsed  fieldNumber `json:"grams_used"`
}

func toConsumptions(in []consumptionRequest) []pricing.FilamentConsumption {
	out := make([]pricing.FilamentConsumption, 0, len(in))
	for _, c := range in {
		out = append(out, pricing.FilamentConsumption{
			FilamentID: strings.TrimSpace(c.FilamentID),
			GramsUsed:  c.GramsUsed.ptr(),
		})
	}
	return out
}

type marginRequest struct {
	Kind    pricing.MarginKind `json:"kind"`
	Percent fieldNumber        `json:"percent"`
}

// jobRequest is the calculator form. Electricity and tax fall back to the
// stored settings when left blank.
type jobRequest struct {
	FilamentConsumptions  []consumptionRequest `json:"filament_consumptions"`
	PrinterID             string               `json:"printer_id"`
	WorkPackageID         string               `json:"work_package_id"`
	PrintTimeHours        fieldNumber          `json:"print_time_hours"`
	WorkPackageHours      fieldNumber          `json:"work_package_hours"`
	Quantity              fieldNumber          `json:"quantity"`
	TaxRatePercent        fieldNumber          `json:"tax_rate_percent"`
	PackagingCost         fieldNumber          `json:"packaging_cost"`
	AdditionalCosts       fieldNumber          `json:"additional_costs"`
	ElectricityCostPerKWh fieldNumber          `json:"electricity_cost_per_kwh"`
	Margin                *marginRequest       `json:"margin"`
}

func (j jobRequest) draft(d pricingDefaults) pricing.JobDraft {
	return pricing.JobDraft{
		FilamentConsumptions:  toConsumptions(j.FilamentConsumptions),
		PrintTimeHours:        j.PrintTimeHours.float(),
		WorkPackageHours:      j.WorkPackageHours.float(),
		Quantity:              int(math.Trunc(j.Quantity.float())),
		TaxRatePercent:        j.TaxRatePercent.or(d.TaxPercent),
		PackagingCost:         j.PackagingCost.float(),
		AdditionalCosts:       j.AdditionalCosts.float(),
		ElectricityCostPerKWh: j.ElectricityCostPerKWh.or(d.ElectricityCostPerKWh),
	}
}

// margin turns the requested margin into a selection. No margin means the
// configured default profit margin.
func (j jobRequest) margin(d pricingDefaults) (pricing.MarginSelection, error) {
	if j.Margin == nil || j.Margin.Kind == "" || j.Margin.Kind == pricing.MarginDefault {
		return pricing.DefaultMargin(d.ProfitMargin), nil
	}
	switch j.Margin.Kind {
	case pricing.MarginTier:
		return pricing.TierMargin(j.Margin.Percent.float())
	case pricing.MarginCustom:
		return pricing.CustomMargin(j.Margin.Percent.float()), nil
	default:
		return pricing.MarginSelection{}, fmt.Errorf("tipo de margen desconocido: %q", j.Margin.Kind)
	}
}

type quotationRequest struct {
	jobRequest
	Title      string `json:"title"`
	ClientName string `json:"client_name"`
	Notes      string `json:"notes"`
}

type printHistoryRequest struct {
	ProductName           string               `json:"product_name"`
	PrinterID             string               `json:"printer_id"`
	PrintTimeHours        fieldNumber          `json:"print_time_hours"`
	ElectricityCostPerKWh fieldNumber          `json:"electricity_cost_per_kwh"`
	FilamentConsumptions  []consumptionRequest `json:"filament_consumptions"`
}

package main

import (
	"encoding/json"
	"testing"

	"github.com/Simplici0/printdesk/internal/pricing"
)

func TestFieldNumber_Decode(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantSet bool
	}{
		{raw: `12.5`, want: 12.5, wantSet: true},
		{raw: `"12.5"`, want: 12.5, wantSet: true},
		{raw: `"12,5"`, want: 12.5, wantSet: true},
		{raw: `" 3 "`, want: 3, wantSet: true},
		{raw: `""`},
		{raw: `null`},
		{raw: `"abc"`},
		{raw: `"NaN"`},
		{raw: `"Inf"`},
	}

	for _, tt := range tests {
		var n fieldNumber
		if err := json.Unmarshal([]byte(tt.raw), &n); err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.raw, err)
		}
		if n.set != tt.wantSet || n.float() != tt.want {
			t.Fatalf("%s: got (%v, %v), want (%v, %v)", tt.raw, n.float(), n.set, tt.want, tt.wantSet)
		}
	}
}

func TestJobRequest_DraftFallbacks(t *testing.T) {
	var req jobRequest
	body := `{"quantity": "2.9", "tax_rate_percent": "", "packaging_cost": 4,
		"filament_consumptions": [{"filament_id": " pla ", "grams_used": ""}]}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	draft := req.draft(pricingDefaults{TaxPercent: 19, ElectricityCostPerKWh: 0.8})
	if draft.Quantity != 2 {
		t.Fatalf("expected quantity truncated to 2, got %d", draft.Quantity)
	}
	if draft.TaxRatePercent != 19 || draft.ElectricityCostPerKWh != 0.8 {
		t.Fatalf("expected defaults, got tax=%v electricity=%v", draft.TaxRatePercent, draft.ElectricityCostPerKWh)
	}
	if draft.PackagingCost != 4 {
		t.Fatalf("expected packaging 4, got %v", draft.PackagingCost)
	}
	if len(draft.FilamentConsumptions) != 1 || draft.FilamentConsumptions[0].FilamentID != "pla" || draft.FilamentConsumptions[0].GramsUsed != nil {
		t.Fatalf("unexpected consumptions: %+v", draft.FilamentConsumptions)
	}
}

func TestJobRequest_Margin(t *testing.T) {
	d := pricingDefaults{ProfitMargin: 30}

	tests := []struct {
		name    string
		margin  *marginRequest
		want    pricing.MarginSelection
		wantErr bool
	}{
		{name: "absent", want: pricing.DefaultMargin(30)},
		{name: "default kind", margin: &marginRequest{Kind: pricing.MarginDefault}, want: pricing.DefaultMargin(30)},
		{name: "tier", margin: &marginRequest{Kind: pricing.MarginTier, Percent: fieldNumber{value: 60, set: true}}, want: pricing.MarginSelection{Kind: pricing.MarginTier, Percent: 60}},
		{name: "custom", margin: &marginRequest{Kind: pricing.MarginCustom, Percent: fieldNumber{value: 35, set: true}}, want: pricing.CustomMargin(35)},
		{name: "custom blank", margin: &marginRequest{Kind: pricing.MarginCustom}, want: pricing.CustomMargin(0)},
		{name: "off-tier", margin: &marginRequest{Kind: pricing.MarginTier, Percent: fieldNumber{value: 33, set: true}}, wantErr: true},
		{name: "unknown", margin: &marginRequest{Kind: "surge"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := jobRequest{Margin: tt.margin}.margin(d)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

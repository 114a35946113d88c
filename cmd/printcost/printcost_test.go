package main

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Simplici0/printdesk/internal/pricing"
)

const scenarioJob = `currency: COP
catalog:
  filaments:
    - filament_id: pla-black
      cost_per_gram: 0.05
  printers:
    - printer_id: mk4
      kwh_per_hour: 0.2
  work_packages:
    - id: finishing
      calculation_type: Fixed
      value: 10
printer_id: mk4
margin:
  kind: tier
  percent: 40
draft:
  filament_consumptions:
    - filament_id: pla-black
      grams_used: 100
  print_time_hours: 5
  quantity: 1
  electricity_cost_per_kwh: 0.15
`

func writeJob(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write job file: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DEFAULT_PROFIT_MARGIN", "40")
	t.Setenv("LOG_LEVEL", "error")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	configPath := filepath.Join(t.TempDir(), "missing.yaml")
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestQuote_TextOutput(t *testing.T) {
	out, err := runCLI(t, "quote", "-f", writeJob(t, scenarioJob))
	if err != nil {
		t.Fatalf("quote: %v\n%s", err, out)
	}
	for _, want := range []string{"Precio final: 7.21 COP", "Precio por unidad: 7.21 COP (cantidad 1)", "- Costo total: 5.15 COP", "Precios sugeridos:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestQuote_MarginFlagOverridesFile(t *testing.T) {
	out, err := runCLI(t, "quote", "-f", writeJob(t, scenarioJob), "--margin", "custom:0", "-o", "json")
	if err != nil {
		t.Fatalf("quote: %v\n%s", err, out)
	}

	var result quoteResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if result.Margin != pricing.CustomMargin(0) {
		t.Fatalf("unexpected margin: %+v", result.Margin)
	}
	if result.Breakdown.FinalValue != result.Breakdown.TotalCost {
		t.Fatalf("expected zero margin, got final %v total %v", result.Breakdown.FinalValue, result.Breakdown.TotalCost)
	}
	if len(result.Tiers) != len(pricing.StandardTiers) {
		t.Fatalf("expected %d tiers, got %d", len(pricing.StandardTiers), len(result.Tiers))
	}
}

func TestQuote_RejectsUnknownField(t *testing.T) {
	_, err := runCLI(t, "quote", "-f", writeJob(t, scenarioJob+"surprise: true\n"))
	if err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
}

func TestHistory_TextOutput(t *testing.T) {
	out, err := runCLI(t, "history", "-f", writeJob(t, scenarioJob))
	if err != nil {
		t.Fatalf("history: %v\n%s", err, out)
	}
	for _, want := range []string{"Filamento: 5.00 COP (100 g)", "Energía: 0.15 COP", "Costo total: 5.15 COP"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "printcost version ") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestParseMarginFlag(t *testing.T) {
	tests := []struct {
		raw     string
		want    pricing.MarginSelection
		wantErr bool
	}{
		{raw: "tier:40", want: pricing.MarginSelection{Kind: pricing.MarginTier, Percent: 40}},
		{raw: "custom:35", want: pricing.CustomMargin(35)},
		{raw: "custom: 12.5", want: pricing.CustomMargin(12.5)},
		{raw: "default", want: pricing.DefaultMargin(40)},
		{raw: "tier:33", wantErr: true},
		{raw: "custom", wantErr: true},
		{raw: "custom:abc", wantErr: true},
		{raw: "surge:10", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseMarginFlag(tt.raw, 40)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%s: expected error, got %+v", tt.raw, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("%s: got %+v, want %+v", tt.raw, got, tt.want)
		}
	}
}

func TestQuote_OverflowStaysFinite(t *testing.T) {
	job := strings.Replace(scenarioJob, "grams_used: 100", "grams_used: 1e308", 1)
	job = strings.Replace(job, "quantity: 1", "quantity: 1000", 1)

	out, err := runCLI(t, "quote", "-f", writeJob(t, job), "--margin", "custom:40", "-o", "json")
	if err != nil {
		t.Fatalf("quote: %v\n%s", err, out)
	}

	var result quoteResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	b := result.Breakdown
	for name, v := range map[string]float64{
		"subtotalCost": b.SubtotalCost,
		"totalCost":    b.TotalCost,
		"marginAmount": b.MarginAmount,
		"finalValue":   b.FinalValue,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("%s = %v, want finite and non-negative", name, v)
		}
	}
}

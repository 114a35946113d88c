package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Simplici0/printdesk/internal/db"
	"github.com/Simplici0/printdesk/internal/migrations"
	"github.com/Simplici0/printdesk/internal/pricing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "store-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if _, err := migrations.Up(ctx, database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return New(database)
}

func grams(v float64) *float64 { return &v }

func TestCatalog_OnlyActiveRecords(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	mustSave := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	_, err := s.SaveFilament(ctx, Filament{ID: "pla", Name: "PLA", CostPerGram: 0.05, Active: true})
	mustSave(err)
	_, err = s.SaveFilament(ctx, Filament{ID: "petg", Name: "PETG", CostPerGram: 0.08, Active: false})
	mustSave(err)
	_, err = s.SavePrinter(ctx, Printer{ID: "mk4", Name: "MK4", KWhPerHour: 0.2, Active: true})
	mustSave(err)
	_, err = s.SaveWorkPackage(ctx, WorkPackage{ID: "post", Name: "Post-process", CalculationType: pricing.CalculationMultiply, Value: 8, Active: true})
	mustSave(err)

	catalog, err := s.Catalog(ctx)
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if len(catalog.Filaments) != 1 || catalog.Filaments[0].FilamentID != "pla" || catalog.Filaments[0].CostPerGram != 0.05 {
		t.Fatalf("unexpected filaments: %+v", catalog.Filaments)
	}
	if len(catalog.Printers) != 1 || catalog.Printers[0].KWhPerHour != 0.2 {
		t.Fatalf("unexpected printers: %+v", catalog.Printers)
	}
	if len(catalog.WorkPackages) != 1 || catalog.WorkPackages[0].CalculationType != pricing.CalculationMultiply {
		t.Fatalf("unexpected work packages: %+v", catalog.WorkPackages)
	}
}

func TestSaveFilament_UpsertsAndGeneratesID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	created, err := s.SaveFilament(ctx, Filament{Name: "ABS", CostPerGram: 0.04, Active: true})
	if err != nil {
		t.Fatalf("SaveFilament: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}

	created.CostPerGram = 0.06
	if _, err := s.SaveFilament(ctx, created); err != nil {
		t.Fatalf("SaveFilament update: %v", err)
	}

	filaments, err := s.ListFilaments(ctx)
	if err != nil {
		t.Fatalf("ListFilaments: %v", err)
	}
	if len(filaments) != 1 || filaments[0].CostPerGram != 0.06 {
		t.Fatalf("expected single updated filament, got %+v", filaments)
	}
}

func TestSaveWorkPackage_RejectsUnknownCalculationType(t *testing.T) {
	s := newTestStore(t)

	_, err := s.SaveWorkPackage(context.Background(), WorkPackage{ID: "x", Name: "X", CalculationType: "Hourly", Value: 1})
	if err == nil {
		t.Fatalf("expected check constraint error")
	}
}

func TestFloatSetting_FallbackAndParse(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	got, err := s.FloatSetting(ctx, SettingDefaultProfitMargin, 40)
	if err != nil || got != 40 {
		t.Fatalf("FloatSetting fallback = (%v, %v), want (40, nil)", got, err)
	}

	if err := s.SetSetting(ctx, SettingDefaultProfitMargin, "35.5"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	got, err = s.FloatSetting(ctx, SettingDefaultProfitMargin, 40)
	if err != nil || got != 35.5 {
		t.Fatalf("FloatSetting = (%v, %v), want (35.5, nil)", got, err)
	}

	if err := s.SetSetting(ctx, SettingElectricityCostPerKWh, "cheap"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if _, err := s.FloatSetting(ctx, SettingElectricityCostPerKWh, 0); err == nil {
		t.Fatalf("expected parse error")
	}

	for _, raw := range []string{"NaN", "+Inf", "-Inf"} {
		if err := s.SetSetting(ctx, SettingDefaultTaxPercent, raw); err != nil {
			t.Fatalf("SetSetting: %v", err)
		}
		got, err = s.FloatSetting(ctx, SettingDefaultTaxPercent, 19)
		if err != nil || got != 19 {
			t.Fatalf("FloatSetting(%q) = (%v, %v), want fallback (19, nil)", raw, got, err)
		}
	}

	settings, err := s.Settings(ctx)
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if len(settings) != 3 {
		t.Fatalf("expected 3 settings, got %v", settings)
	}
}

func TestSaveQuotation_SnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	draft := pricing.JobDraft{
		FilamentConsumptions:  []pricing.FilamentConsumption{{FilamentID: "pla", GramsUsed: grams(100)}, {FilamentID: "pla"}},
		PrintTimeHours:        5,
		Quantity:              1,
		ElectricityCostPerKWh: 0.15,
	}
	breakdown := pricing.CostBreakdown{TotalCost: 5.15, MarginPercent: 40, FinalValue: 7.21, Quantity: 1}

	saved, err := s.SaveQuotation(ctx, QuotationInput{
		Title:      "Llaveros",
		ClientName: "Ana",
		Draft:      draft,
		Margin:     pricing.MarginSelection{Kind: pricing.MarginTier, Percent: 40},
		Breakdown:  breakdown,
	})
	if err != nil {
		t.Fatalf("SaveQuotation: %v", err)
	}
	if saved.Reference == "" || saved.CreatedAt == "" {
		t.Fatalf("expected reference and created_at, got %+v", saved)
	}

	got, err := s.GetQuotation(ctx, saved.Reference)
	if err != nil {
		t.Fatalf("GetQuotation: %v", err)
	}
	if got.Breakdown != breakdown {
		t.Fatalf("breakdown = %+v, want %+v", got.Breakdown, breakdown)
	}
	if got.Margin.Kind != pricing.MarginTier || got.Margin.Percent != 40 {
		t.Fatalf("unexpected margin: %+v", got.Margin)
	}
	if len(got.Draft.FilamentConsumptions) != 2 || got.Draft.FilamentConsumptions[1].GramsUsed != nil {
		t.Fatalf("unset grams should survive the snapshot: %+v", got.Draft.FilamentConsumptions)
	}

	if _, err := s.GetQuotation(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListQuotations_NewestFirstAndFiltered(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, in := range []QuotationInput{
		{Title: "Casa", Notes: "impresión roja", Breakdown: pricing.CostBreakdown{FinalValue: 80}},
		{Title: "Llaveros", ClientName: "cliente vip", Breakdown: pricing.CostBreakdown{FinalValue: 120}},
		{Title: "Prototipo", Notes: "urgente para casa", Breakdown: pricing.CostBreakdown{FinalValue: 160}},
	} {
		in.Margin = pricing.CustomMargin(0)
		if _, err := s.SaveQuotation(ctx, in); err != nil {
			t.Fatalf("SaveQuotation: %v", err)
		}
	}

	all, err := s.ListQuotations(ctx, "")
	if err != nil {
		t.Fatalf("ListQuotations: %v", err)
	}
	if len(all) != 3 || all[0].Title != "Prototipo" || all[2].Title != "Casa" {
		t.Fatalf("quotations are not newest first: %+v", all)
	}
	if all[0].FinalValue != 160 {
		t.Fatalf("unexpected final value: %+v", all[0])
	}

	byClient, err := s.ListQuotations(ctx, "vip")
	if err != nil {
		t.Fatalf("ListQuotations vip: %v", err)
	}
	if len(byClient) != 1 || byClient[0].Title != "Llaveros" {
		t.Fatalf("expected 1 quotation filtered by client, got %+v", byClient)
	}

	byNotes, err := s.ListQuotations(ctx, "casa")
	if err != nil {
		t.Fatalf("ListQuotations casa: %v", err)
	}
	if len(byNotes) != 2 {
		t.Fatalf("expected 2 quotations filtered by title/notes, got %+v", byNotes)
	}
}

func TestListQuotations_WildcardsMatchLiterally(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, title := range []string{"Descuento 50% mayoristas", "500 piezas", "pieza_base", "piezaXbase", `ruta C:\piezas`} {
		if _, err := s.SaveQuotation(ctx, QuotationInput{Title: title, Margin: pricing.CustomMargin(0)}); err != nil {
			t.Fatalf("SaveQuotation: %v", err)
		}
	}

	tests := []struct {
		query string
		want  string
	}{
		{query: "50%", want: "Descuento 50% mayoristas"},
		{query: "_base", want: "pieza_base"},
		{query: `C:\`, want: `ruta C:\piezas`},
	}
	for _, tt := range tests {
		got, err := s.ListQuotations(ctx, tt.query)
		if err != nil {
			t.Fatalf("ListQuotations(%q): %v", tt.query, err)
		}
		if len(got) != 1 || got[0].Title != tt.want {
			t.Fatalf("ListQuotations(%q) = %+v, want only %q", tt.query, got, tt.want)
		}
	}
}

func TestRecordPrint_HistoryAndAverage(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	consumptions := []pricing.FilamentConsumption{{FilamentID: "pla", GramsUsed: grams(100)}}
	for _, cost := range []float64{5, 7} {
		_, err := s.RecordPrint(ctx, PrintRecordInput{
			ProductName:    "Maceta",
			PrinterID:      "mk4",
			PrintTimeHours: 5,
			Consumptions:   consumptions,
			Cost:           pricing.HistoricalCost{TotalGramsUsed: 100, TotalFilamentCost: cost, TotalCost: cost},
		})
		if err != nil {
			t.Fatalf("RecordPrint: %v", err)
		}
	}
	if _, err := s.RecordPrint(ctx, PrintRecordInput{ProductName: "Jarrón", Cost: pricing.HistoricalCost{TotalCost: 50}}); err != nil {
		t.Fatalf("RecordPrint: %v", err)
	}

	history, err := s.ListPrintHistory(ctx, "Maceta")
	if err != nil {
		t.Fatalf("ListPrintHistory: %v", err)
	}
	if len(history) != 2 || history[0].Cost.TotalCost != 7 {
		t.Fatalf("unexpected history: %+v", history)
	}
	if len(history[0].Consumptions) != 1 || *history[0].Consumptions[0].GramsUsed != 100 {
		t.Fatalf("consumptions not restored: %+v", history[0].Consumptions)
	}

	summary, err := s.ProductAverageCost(ctx, "Maceta")
	if err != nil {
		t.Fatalf("ProductAverageCost: %v", err)
	}
	if summary.Prints != 2 || summary.AverageCost != 6 || summary.LastCost != 7 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	if _, err := s.ProductAverageCost(ctx, "Nada"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

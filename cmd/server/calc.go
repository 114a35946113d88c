package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Simplici0/printdesk/internal/metrics"
	"github.com/Simplici0/printdesk/internal/pricing"
	"github.com/Simplici0/printdesk/internal/store"
)

// pricingDefaults are the values used when a form leaves a field blank.
type pricingDefaults struct {
	ProfitMargin          float64
	ElectricityCostPerKWh float64
	TaxPercent            float64
}

type calculationResponse struct {
	Breakdown    pricing.CostBreakdown   `json:"breakdown"`
	Margin       pricing.MarginSelection `json:"margin"`
	PricePerUnit float64                 `json:"price_per_unit"`
	Tiers        []pricing.TierPrice     `json:"tiers"`
}

func newCalculationResponse(b pricing.CostBreakdown, margin pricing.MarginSelection) calculationResponse {
	return calculationResponse{
		Breakdown:    b,
		Margin:       margin,
		PricePerUnit: b.PricePerUnit(),
		Tiers:        pricing.TierPrices(b.TotalCost, b.Quantity),
	}
}

// defaults reads the pricing settings, falling back to the configured values.
func (s *server) defaults(ctx context.Context) (pricingDefaults, error) {
	d := s.fallback
	var err error
	if d.ProfitMargin, err = s.store.FloatSetting(ctx, store.SettingDefaultProfitMargin, d.ProfitMargin); err != nil {
		return pricingDefaults{}, err
	}
	if d.ElectricityCostPerKWh, err = s.store.FloatSetting(ctx, store.SettingElectricityCostPerKWh, d.ElectricityCostPerKWh); err != nil {
		return pricingDefaults{}, err
	}
	if d.TaxPercent, err = s.store.FloatSetting(ctx, store.SettingDefaultTaxPercent, d.TaxPercent); err != nil {
		return pricingDefaults{}, err
	}
	return d, nil
}

// quoteJob prices req against the current catalog.
func (s *server) quoteJob(ctx context.Context, req jobRequest, forceDefaultMargin bool) (pricing.JobDraft, pricing.MarginSelection, pricing.CostBreakdown, error) {
	d, err := s.defaults(ctx)
	if err != nil {
		return pricing.JobDraft{}, pricing.MarginSelection{}, pricing.CostBreakdown{}, fmt.Errorf("load pricing defaults: %w", err)
	}

	margin := pricing.DefaultMargin(d.ProfitMargin)
	if !forceDefaultMargin {
		if margin, err = req.margin(d); err != nil {
			return pricing.JobDraft{}, pricing.MarginSelection{}, pricing.CostBreakdown{}, validationError{err}
		}
	}

	catalog, err := s.catalog.Catalog(ctx)
	if err != nil {
		return pricing.JobDraft{}, pricing.MarginSelection{}, pricing.CostBreakdown{}, fmt.Errorf("load catalog: %w", err)
	}

	draft := req.draft(d)
	breakdown := pricing.Quote(draft, catalog, strings.TrimSpace(req.PrinterID), strings.TrimSpace(req.WorkPackageID), margin)
	return draft, margin, breakdown, nil
}

func (s *server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	s.calculate(w, r, metrics.KindQuote, false)
}

// handleSaleCost prices a sale with the configured default profit margin.
func (s *server) handleSaleCost(w http.ResponseWriter, r *http.Request) {
	s.calculate(w, r, metrics.KindSale, true)
}

func (s *server) calculate(w http.ResponseWriter, r *http.Request, kind string, forceDefaultMargin bool) {
	var req jobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, margin, breakdown, err := s.quoteJob(r.Context(), req, forceDefaultMargin)
	if err != nil {
		s.respondQuoteError(w, r, err)
		return
	}

	metrics.CalculationsTotal.WithLabelValues(kind).Inc()
	s.writeJSON(w, http.StatusOK, newCalculationResponse(breakdown, margin))
}

func (s *server) respondQuoteError(w http.ResponseWriter, r *http.Request, err error) {
	var v validationError
	if errors.As(err, &v) {
		s.writeError(w, http.StatusBadRequest, v.Error())
		return
	}
	s.internalError(w, r, "failed to calculate cost", err)
}

type validationError struct{ err error }

func (v validationError) Error() string { return v.err.Error() }

func (s *server) historicalCost(ctx context.Context, req printHistoryRequest) ([]pricing.FilamentConsumption, float64, pricing.HistoricalCost, error) {
	d, err := s.defaults(ctx)
	if err != nil {
		return nil, 0, pricing.HistoricalCost{}, fmt.Errorf("load pricing defaults: %w", err)
	}
	catalog, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, 0, pricing.HistoricalCost{}, fmt.Errorf("load catalog: %w", err)
	}

	var printer *pricing.PrinterRate
	printerID := strings.TrimSpace(req.PrinterID)
	for i := range catalog.Printers {
		if catalog.Printers[i].PrinterID == printerID {
			printer = &catalog.Printers[i]
			break
		}
	}

	consumptions := toConsumptions(req.FilamentConsumptions)
	electricity := req.ElectricityCostPerKWh.or(d.ElectricityCostPerKWh)
	cost := pricing.CalculateHistorical(consumptions, catalog.Filaments, printer, req.PrintTimeHours.float(), electricity)
	return consumptions, electricity, cost, nil
}

func (s *server) handlePrintHistoryCalculate(w http.ResponseWriter, r *http.Request) {
	var req printHistoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, _, cost, err := s.historicalCost(r.Context(), req)
	if err != nil {
		s.internalError(w, r, "failed to calculate print cost", err)
		return
	}

	metrics.CalculationsTotal.WithLabelValues(metrics.KindHistorical).Inc()
	s.writeJSON(w, http.StatusOK, cost)
}

func (s *server) handlePrintHistoryCreate(w http.ResponseWriter, r *http.Request) {
	var req printHistoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.ProductName = strings.TrimSpace(req.ProductName)
	if req.ProductName == "" {
		s.writeError(w, http.StatusBadRequest, "product_name es requerido")
		return
	}

	consumptions, electricity, cost, err := s.historicalCost(r.Context(), req)
	if err != nil {
		s.internalError(w, r, "failed to calculate print cost", err)
		return
	}

	record, err := s.store.RecordPrint(r.Context(), store.PrintRecordInput{
		ProductName:           req.ProductName,
		PrinterID:             strings.TrimSpace(req.PrinterID),
		PrintTimeHours:        req.PrintTimeHours.float(),
		ElectricityCostPerKWh: electricity,
		Consumptions:          consumptions,
		Cost:                  cost,
	})
	if err != nil {
		s.internalError(w, r, "failed to record print", err)
		return
	}

	metrics.CalculationsTotal.WithLabelValues(metrics.KindHistorical).Inc()
	metrics.PrintRecords.Inc()
	s.logger.Info("print recorded",
		zap.String("product", record.ProductName),
		zap.Float64("total_cost", record.Cost.TotalCost),
	)
	s.writeJSON(w, http.StatusCreated, record)
}

type printHistoryResponse struct {
	Records []store.PrintRecord `json:"records"`
	Summary *store.ProductCost  `json:"summary,omitempty"`
}

func (s *server) handlePrintHistoryList(w http.ResponseWriter, r *http.Request) {
	product := strings.TrimSpace(r.URL.Query().Get("product"))
	records, err := s.store.ListPrintHistory(r.Context(), product)
	if err != nil {
		s.internalError(w, r, "failed to load printing history", err)
		return
	}

	resp := printHistoryResponse{Records: records}
	if product != "" && len(records) > 0 {
		summary, err := s.store.ProductAverageCost(r.Context(), product)
		if err != nil {
			s.internalError(w, r, "failed to summarize printing history", err)
			return
		}
		resp.Summary = &summary
	}
	s.writeJSON(w, http.StatusOK, resp)
}

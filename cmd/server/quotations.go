package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Simplici0/printdesk/internal/metrics"
	"github.com/Simplici0/printdesk/internal/store"
)

func (s *server) handleQuotationCreate(w http.ResponseWriter, r *http.Request) {
	var req quotationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		s.writeError(w, http.StatusBadRequest, "title es requerido")
		return
	}
	if req.Quantity.float() < 1 {
		s.writeError(w, http.StatusBadRequest, "quantity debe ser mayor o igual a 1")
		return
	}

	draft, margin, breakdown, err := s.quoteJob(r.Context(), req.jobRequest, false)
	if err != nil {
		s.respondQuoteError(w, r, err)
		return
	}

	quotation, err := s.store.SaveQuotation(r.Context(), store.QuotationInput{
		Title:         req.Title,
		ClientName:    strings.TrimSpace(req.ClientName),
		Notes:         strings.TrimSpace(req.Notes),
		PrinterID:     strings.TrimSpace(req.PrinterID),
		WorkPackageID: strings.TrimSpace(req.WorkPackageID),
		Draft:         draft,
		Margin:        margin,
		Breakdown:     breakdown,
	})
	if err != nil {
		s.internalError(w, r, "failed to save quotation", err)
		return
	}

	metrics.CalculationsTotal.WithLabelValues(metrics.KindQuote).Inc()
	metrics.QuotationsSaved.Inc()
	s.logger.Info("quotation saved",
		zap.String("reference", quotation.Reference),
		zap.Float64("final_value", quotation.Breakdown.FinalValue),
	)
	s.writeJSON(w, http.StatusCreated, quotation)
}

func (s *server) handleQuotationList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	quotations, err := s.store.ListQuotations(r.Context(), query)
	if err != nil {
		s.internalError(w, r, "failed to load quotations", err)
		return
	}
	s.writeJSON(w, http.StatusOK, quotations)
}

func (s *server) handleQuotationDetail(w http.ResponseWriter, r *http.Request) {
	quotation, ok := s.loadQuotation(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, quotation)
}

func (s *server) handleQuotationText(w http.ResponseWriter, r *http.Request) {
	quotation, ok := s.loadQuotation(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(s.format.QuotationText(quotation)))
}

func (s *server) loadQuotation(w http.ResponseWriter, r *http.Request) (store.Quotation, bool) {
	reference := chi.URLParam(r, "ref")
	quotation, err := s.store.GetQuotation(r.Context(), reference)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "cotización no encontrada")
		return store.Quotation{}, false
	}
	if err != nil {
		s.internalError(w, r, "failed to load quotation", err)
		return store.Quotation{}, false
	}
	return quotation, true
}

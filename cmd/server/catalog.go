package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Simplici0/printdesk/internal/pricing"
	"github.com/Simplici0/printdesk/internal/store"
)

func (s *server) handleFilamentList(w http.ResponseWriter, r *http.Request) {
	filaments, err := s.store.ListFilaments(r.Context())
	if err != nil {
		s.internalError(w, r, "failed to load filaments", err)
		return
	}
	s.writeJSON(w, http.StatusOK, filaments)
}

func (s *server) handleFilamentSave(w http.ResponseWriter, r *http.Request) {
	var f store.Filament
	if err := decodeJSON(w, r, &f); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		s.writeError(w, http.StatusBadRequest, "name es requerido")
		return
	}
	if f.CostPerGram < 0 {
		s.writeError(w, http.StatusBadRequest, "cost_per_gram debe ser mayor o igual a 0")
		return
	}

	saved, err := s.store.SaveFilament(r.Context(), f)
	if err != nil {
		s.internalError(w, r, "failed to save filament", err)
		return
	}
	s.catalog.Invalidate()
	s.writeJSON(w, http.StatusOK, saved)
}

func (s *server) handlePrinterList(w http.ResponseWriter, r *http.Request) {
	printers, err := s.store.ListPrinters(r.Context())
	if err != nil {
		s.internalError(w, r, "failed to load printers", err)
		return
	}
	s.writeJSON(w, http.StatusOK, printers)
}

func (s *server) handlePrinterSave(w http.ResponseWriter, r *http.Request) {
	var p store.Printer
	if err := decodeJSON(w, r, &p); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		s.writeError(w, http.StatusBadRequest, "name es requerido")
		return
	}
	if p.KWhPerHour < 0 {
		s.writeError(w, http.StatusBadRequest, "kwh_per_hour debe ser mayor o igual a 0")
		return
	}

	saved, err := s.store.SavePrinter(r.Context(), p)
	if err != nil {
		s.internalError(w, r, "failed to save printer", err)
		return
	}
	s.catalog.Invalidate()
	s.writeJSON(w, http.StatusOK, saved)
}

func (s *server) handleWorkPackageList(w http.ResponseWriter, r *http.Request) {
	packages, err := s.store.ListWorkPackages(r.Context())
	if err != nil {
		s.internalError(w, r, "failed to load work packages", err)
		return
	}
	s.writeJSON(w, http.StatusOK, packages)
}

func (s *server) handleWorkPackageSave(w http.ResponseWriter, r *http.Request) {
	var wp store.WorkPackage
	if err := decodeJSON(w, r, &wp); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateWorkPackage(&wp); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := s.store.SaveWorkPackage(r.Context(), wp)
	if err != nil {
		s.internalError(w, r, "failed to save work package", err)
		return
	}
	s.catalog.Invalidate()
	s.writeJSON(w, http.StatusOK, saved)
}

func validateWorkPackage(wp *store.WorkPackage) error {
	wp.Name = strings.TrimSpace(wp.Name)
	if wp.Name == "" {
		return fmt.Errorf("name es requerido")
	}
	if strings.TrimSpace(wp.ID) == "none" {
		return fmt.Errorf("id none está reservado")
	}
	if wp.CalculationType != pricing.CalculationFixed && wp.CalculationType != pricing.CalculationMultiply {
		return fmt.Errorf("calculation_type debe ser Fixed o Multiply")
	}
	if wp.Value < 0 {
		return fmt.Errorf("value debe ser mayor o igual a 0")
	}
	return nil
}

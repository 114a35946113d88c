package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Simplici0/printdesk/internal/pricing"
)

// Filament is a spool type offered by the shop.
type Filament struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Material    string  `json:"material"`
	Color       string  `json:"color"`
	CostPerGram float64 `json:"cost_per_gram"`
	Active      bool    `json:"active"`
}

// Printer is a machine and its energy draw.
type Printer struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	KWhPerHour float64 `json:"kwh_per_hour"`
	Active     bool    `json:"active"`
}

// WorkPackage is a named labor rule.
type WorkPackage struct {
	ID              string                  `json:"id"`
	Name            string                  `json:"name"`
	CalculationType pricing.CalculationType `json:"calculation_type"`
	Value           float64                 `json:"value"`
	Active          bool                    `json:"active"`
}

func ensureID(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.NewString()
}

// SaveFilament creates or replaces a filament. An empty ID gets a new uuid.
func (s *Store) SaveFilament(ctx context.Context, f Filament) (Filament, error) {
	f.ID = ensureID(f.ID)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO filaments (id, name, material, color, cost_per_gram, active)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			material = excluded.material,
			color = excluded.color,
			cost_per_gram = excluded.cost_per_gram,
			active = excluded.active,
			updated_at = CURRENT_TIMESTAMP
	`, f.ID, f.Name, f.Material, f.Color, f.CostPerGram, f.Active)
	if err != nil {
		return Filament{}, fmt.Errorf("save filament: %w", err)
	}
	return f, nil
}

// ListFilaments returns every filament, newest first.
func (s *Store) ListFilaments(ctx context.Context) ([]Filament, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, material, color, cost_per_gram, active
		FROM filaments
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query filaments: %w", err)
	}
	defer rows.Close()

	filaments := make([]Filament, 0)
	for rows.Next() {
		var f Filament
		if err := rows.Scan(&f.ID, &f.Name, &f.Material, &f.Color, &f.CostPerGram, &f.Active); err != nil {
			return nil, fmt.Errorf("scan filament: %w", err)
		}
		filaments = append(filaments, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate filaments: %w", err)
	}
	return filaments, nil
}

// SavePrinter creates or replaces a printer. An empty ID gets a new uuid.
func (s *Store) SavePrinter(ctx context.Context, p Printer) (Printer, error) {
	p.ID = ensureID(p.ID)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO printers (id, name, kwh_per_hour, active)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			kwh_per_hour = excluded.kwh_per_hour,
			active = excluded.active,
			updated_at = CURRENT_TIMESTAMP
	`, p.ID, p.Name, p.KWhPerHour, p.Active)
	if err != nil {
		return Printer{}, fmt.Errorf("save printer: %w", err)
	}
	return p, nil
}

// ListPrinters returns every printer, newest first.
func (s *Store) ListPrinters(ctx context.Context) ([]Printer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, kwh_per_hour, active
		FROM printers
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query printers: %w", err)
	}
	defer rows.Close()

	printers := make([]Printer, 0)
	for rows.Next() {
		var p Printer
		if err := rows.Scan(&p.ID, &p.Name, &p.KWhPerHour, &p.Active); err != nil {
			return nil, fmt.Errorf("scan printer: %w", err)
		}
		printers = append(printers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate printers: %w", err)
	}
	return printers, nil
}

// SaveWorkPackage creates or replaces a work package. An empty ID gets a new uuid.
func (s *Store) SaveWorkPackage(ctx context.Context, wp WorkPackage) (WorkPackage, error) {
	wp.ID = ensureID(wp.ID)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO work_packages (id, name, calculation_type, value, active)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			calculation_type = excluded.calculation_type,
			value = excluded.value,
			active = excluded.active,
			updated_at = CURRENT_TIMESTAMP
	`, wp.ID, wp.Name, string(wp.CalculationType), wp.Value, wp.Active)
	if err != nil {
		return WorkPackage{}, fmt.Errorf("save work package: %w", err)
	}
	return wp, nil
}

// ListWorkPackages returns every work package, newest first.
func (s *Store) ListWorkPackages(ctx context.Context) ([]WorkPackage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, calculation_type, value, active
		FROM work_packages
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query work packages: %w", err)
	}
	defer rows.Close()

	packages := make([]WorkPackage, 0)
	for rows.Next() {
		var wp WorkPackage
		var calcType string
		if err := rows.Scan(&wp.ID, &wp.Name, &calcType, &wp.Value, &wp.Active); err != nil {
			return nil, fmt.Errorf("scan work package: %w", err)
		}
		wp.CalculationType = pricing.CalculationType(calcType)
		packages = append(packages, wp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate work packages: %w", err)
	}
	return packages, nil
}

// Catalog returns the active filaments, printers and work packages as
// engine rates.
func (s *Store) Catalog(ctx context.Context) (pricing.Catalog, error) {
	var catalog pricing.Catalog

	filaments, err := s.ListFilaments(ctx)
	if err != nil {
		return pricing.Catalog{}, err
	}
	for _, f := range filaments {
		if f.Active {
			catalog.Filaments = append(catalog.Filaments, pricing.FilamentRate{FilamentID: f.ID, CostPerGram: f.CostPerGram})
		}
	}

	printers, err := s.ListPrinters(ctx)
	if err != nil {
		return pricing.Catalog{}, err
	}
	for _, p := range printers {
		if p.Active {
			catalog.Printers = append(catalog.Printers, pricing.PrinterRate{PrinterID: p.ID, KWhPerHour: p.KWhPerHour})
		}
	}

	packages, err := s.ListWorkPackages(ctx)
	if err != nil {
		return pricing.Catalog{}, err
	}
	for _, wp := range packages {
		if wp.Active {
			catalog.WorkPackages = append(catalog.WorkPackages, pricing.WorkPackageRule{
				ID:              wp.ID,
				CalculationType: wp.CalculationType,
				Value:           wp.Value,
			})
		}
	}

	return catalog, nil
}

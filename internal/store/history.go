package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Simplici0/printdesk/internal/pricing"
)

// PrintRecordInput describes a completed print and its production cost.
type PrintRecordInput struct {
	ProductName           string
	PrinterID             string
	PrintTimeHours        float64
	ElectricityCostPerKWh float64
	Consumptions          []pricing.FilamentConsumption
	Cost                  pricing.HistoricalCost
}

// PrintRecord is a stored printing-history row.
type PrintRecord struct {
	ID                    int64                         `json:"id"`
	CreatedAt             string                        `json:"created_at"`
	ProductName           string                        `json:"product_name"`
	PrinterID             string                        `json:"printer_id"`
	PrintTimeHours        float64                       `json:"print_time_hours"`
	ElectricityCostPerKWh float64                       `json:"electricity_cost_per_kwh"`
	Consumptions          []pricing.FilamentConsumption `json:"consumptions"`
	Cost                  pricing.HistoricalCost        `json:"cost"`
}

// ProductCost summarizes the recorded production cost of one product.
type ProductCost struct {
	ProductName string  `json:"product_name"`
	Prints      int     `json:"prints"`
	AverageCost float64 `json:"average_cost"`
	LastCost    float64 `json:"last_cost"`
}

// RecordPrint stores a printing-history row.
func (s *Store) RecordPrint(ctx context.Context, in PrintRecordInput) (PrintRecord, error) {
	consumptionsJSON, err := json.Marshal(in.Consumptions)
	if err != nil {
		return PrintRecord{}, fmt.Errorf("encode consumptions: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO printing_history (
			product_name, printer_id, print_time_hours, electricity_cost_per_kwh, consumptions_json,
			total_grams_used, total_filament_cost, total_energy_cost, total_cost
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		in.ProductName, in.PrinterID, in.PrintTimeHours, in.ElectricityCostPerKWh, string(consumptionsJSON),
		in.Cost.TotalGramsUsed, in.Cost.TotalFilamentCost, in.Cost.TotalEnergyCost, in.Cost.TotalCost,
	)
	if err != nil {
		return PrintRecord{}, fmt.Errorf("insert print record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return PrintRecord{}, fmt.Errorf("read print record id: %w", err)
	}

	records, err := s.listPrintRecords(ctx, `WHERE id = ?`, id)
	if err != nil {
		return PrintRecord{}, err
	}
	if len(records) == 0 {
		return PrintRecord{}, ErrNotFound
	}
	return records[0], nil
}

// ListPrintHistory returns recorded prints newest first, optionally limited
// to one product.
func (s *Store) ListPrintHistory(ctx context.Context, productName string) ([]PrintRecord, error) {
	return s.listPrintRecords(ctx, `WHERE (? = '' OR product_name = ?)`, productName, productName)
}

// ProductAverageCost summarizes the recorded cost of productName.
func (s *Store) ProductAverageCost(ctx context.Context, productName string) (ProductCost, error) {
	records, err := s.ListPrintHistory(ctx, productName)
	if err != nil {
		return ProductCost{}, err
	}
	if len(records) == 0 {
		return ProductCost{}, ErrNotFound
	}

	summary := ProductCost{
		ProductName: productName,
		Prints:      len(records),
		LastCost:    records[0].Cost.TotalCost,
	}
	var total float64
	for _, r := range records {
		total += r.Cost.TotalCost
	}
	summary.AverageCost = pricing.PerUnit(total, float64(len(records)))
	return summary, nil
}

func (s *Store) listPrintRecords(ctx context.Context, where string, args ...any) ([]PrintRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, product_name, printer_id, print_time_hours, electricity_cost_per_kwh,
			consumptions_json, total_grams_used, total_filament_cost, total_energy_cost, total_cost
		FROM printing_history
		`+where+`
		ORDER BY datetime(created_at) DESC, id DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query printing history: %w", err)
	}
	defer rows.Close()

	records := make([]PrintRecord, 0)
	for rows.Next() {
		var r PrintRecord
		var consumptionsJSON string
		if err := rows.Scan(
			&r.ID, &r.CreatedAt, &r.ProductName, &r.PrinterID, &r.PrintTimeHours, &r.ElectricityCostPerKWh,
			&consumptionsJSON, &r.Cost.TotalGramsUsed, &r.Cost.TotalFilamentCost, &r.Cost.TotalEnergyCost, &r.Cost.TotalCost,
		); err != nil {
			return nil, fmt.Errorf("scan print record: %w", err)
		}
		if err := json.Unmarshal([]byte(consumptionsJSON), &r.Consumptions); err != nil {
			return nil, fmt.Errorf("decode consumptions: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate printing history: %w", err)
	}
	return records, nil
}

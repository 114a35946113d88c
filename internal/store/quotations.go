package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Simplici0/printdesk/internal/pricing"
)

// QuotationInput is everything needed to persist a priced job.
type QuotationInput struct {
	Title         string
	ClientName    string
	Notes         string
	PrinterID     string
	WorkPackageID string
	Draft         pricing.JobDraft
	Margin        pricing.MarginSelection
	Breakdown     pricing.CostBreakdown
}

// Quotation is a stored pricing snapshot. It is never recalculated.
type Quotation struct {
	ID            int64                   `json:"-"`
	Reference     string                  `json:"reference"`
	CreatedAt     string                  `json:"created_at"`
	Title         string                  `json:"title"`
	ClientName    string                  `json:"client_name"`
	Notes         string                  `json:"notes"`
	PrinterID     string                  `json:"printer_id"`
	WorkPackageID string                  `json:"work_package_id"`
	Margin        pricing.MarginSelection `json:"margin"`
	Draft         pricing.JobDraft        `json:"draft"`
	Breakdown     pricing.CostBreakdown   `json:"breakdown"`
}

// QuotationSummary is a row of the quotation list.
type QuotationSummary struct {
	Reference  string  `json:"reference"`
	CreatedAt  string  `json:"created_at"`
	Title      string  `json:"title"`
	ClientName string  `json:"client_name"`
	FinalValue float64 `json:"final_value"`
}

// SaveQuotation stores a snapshot of in and returns it with its reference.
func (s *Store) SaveQuotation(ctx context.Context, in QuotationInput) (Quotation, error) {
	draftJSON, err := json.Marshal(in.Draft)
	if err != nil {
		return Quotation{}, fmt.Errorf("encode quotation draft: %w", err)
	}
	breakdownJSON, err := json.Marshal(in.Breakdown)
	if err != nil {
		return Quotation{}, fmt.Errorf("encode quotation breakdown: %w", err)
	}

	reference := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quotations (
			reference, title, client_name, notes, printer_id, work_package_id,
			margin_kind, margin_percent, final_value, draft_json, breakdown_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		reference, in.Title, in.ClientName, in.Notes, in.PrinterID, in.WorkPackageID,
		string(in.Margin.Kind), in.Margin.Percent, in.Breakdown.FinalValue,
		string(draftJSON), string(breakdownJSON),
	)
	if err != nil {
		return Quotation{}, fmt.Errorf("insert quotation: %w", err)
	}

	return s.GetQuotation(ctx, reference)
}

// GetQuotation reads a stored snapshot by reference.
func (s *Store) GetQuotation(ctx context.Context, reference string) (Quotation, error) {
	var (
		q             Quotation
		marginKind    string
		draftJSON     string
		breakdownJSON string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, reference, created_at, title, client_name, notes, printer_id, work_package_id,
			margin_kind, margin_percent, draft_json, breakdown_json
		FROM quotations
		WHERE reference = ?
	`, reference).Scan(
		&q.ID, &q.Reference, &q.CreatedAt, &q.Title, &q.ClientName, &q.Notes, &q.PrinterID, &q.WorkPackageID,
		&marginKind, &q.Margin.Percent, &draftJSON, &breakdownJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Quotation{}, ErrNotFound
	}
	if err != nil {
		return Quotation{}, fmt.Errorf("query quotation: %w", err)
	}
	q.Margin.Kind = pricing.MarginKind(marginKind)

	if err := json.Unmarshal([]byte(draftJSON), &q.Draft); err != nil {
		return Quotation{}, fmt.Errorf("decode quotation draft: %w", err)
	}
	if err := json.Unmarshal([]byte(breakdownJSON), &q.Breakdown); err != nil {
		return Quotation{}, fmt.Errorf("decode quotation breakdown: %w", err)
	}
	return q, nil
}

// likeEscaper makes %, _ and the escape character itself match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListQuotations returns quotations newest first. A non-empty query filters
// by title, client name or notes.
func (s *Store) ListQuotations(ctx context.Context, query string) ([]QuotationSummary, error) {
	search := "%" + likeEscaper.Replace(query) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT reference, created_at, title, client_name, final_value
		FROM quotations
		WHERE (? = '' OR title LIKE ? ESCAPE '\' OR client_name LIKE ? ESCAPE '\' OR notes LIKE ? ESCAPE '\')
		ORDER BY datetime(created_at) DESC, id DESC
	`, query, search, search, search)
	if err != nil {
		return nil, fmt.Errorf("query quotations: %w", err)
	}
	defer rows.Close()

	quotations := make([]QuotationSummary, 0)
	for rows.Next() {
		var q QuotationSummary
		if err := rows.Scan(&q.Reference, &q.CreatedAt, &q.Title, &q.ClientName, &q.FinalValue); err != nil {
			return nil, fmt.Errorf("scan quotation: %w", err)
		}
		quotations = append(quotations, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotations: %w", err)
	}
	return quotations, nil
}

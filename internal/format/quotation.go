package format

import (
	"fmt"
	"strings"

	"github.com/Simplici0/printdesk/internal/pricing"
	"github.com/Simplici0/printdesk/internal/store"
)

// QuotationText renders a stored quotation as plain text for sharing with a
// customer. It reads the snapshot only; nothing is recalculated except the
// per-unit projections.
func (f Formatter) QuotationText(q store.Quotation) string {
	var b strings.Builder
	bd := q.Breakdown

	fmt.Fprintf(&b, "Cotización: %s\n", q.Title)
	fmt.Fprintf(&b, "Referencia: %s\n", q.Reference)
	if q.ClientName != "" {
		fmt.Fprintf(&b, "Cliente: %s\n", q.ClientName)
	}
	fmt.Fprintf(&b, "Fecha: %s\n\n", q.CreatedAt)

	fmt.Fprintf(&b, "Total: %s\n", f.Money(bd.FinalValue))
	fmt.Fprintf(&b, "Precio por unidad: %s (cantidad %d)\n\n", f.Money(bd.PricePerUnit()), bd.Quantity)

	b.WriteString(f.BreakdownText(bd))

	b.WriteString("\nSupuestos:\n")
	fmt.Fprintf(&b, "- Horas de impresión: %s\n", Quantity(q.Draft.PrintTimeHours))
	fmt.Fprintf(&b, "- Horas de trabajo: %s\n", Quantity(q.Draft.WorkPackageHours))
	fmt.Fprintf(&b, "- Energía: %s por kWh\n", f.Money(q.Draft.ElectricityCostPerKWh))
	fmt.Fprintf(&b, "- Margen: %s (%s)\n", Percent(q.Margin.Percent), q.Margin.Kind)

	b.WriteString("\nDatos del item:\n")
	if q.PrinterID != "" {
		fmt.Fprintf(&b, "- Impresora: %s\n", q.PrinterID)
	}
	if q.WorkPackageID != "" {
		fmt.Fprintf(&b, "- Paquete de trabajo: %s\n", q.WorkPackageID)
	}
	for _, c := range q.Draft.FilamentConsumptions {
		if c.FilamentID == "" || c.GramsUsed == nil {
			continue
		}
		fmt.Fprintf(&b, "- Material: %s (%s)\n", c.FilamentID, Grams(*c.GramsUsed))
	}
	if q.Notes != "" {
		fmt.Fprintf(&b, "\nNotas: %s\n", q.Notes)
	}

	return b.String()
}

// BreakdownText renders the cost lines and suggested tier prices.
func (f Formatter) BreakdownText(bd pricing.CostBreakdown) string {
	var b strings.Builder

	b.WriteString("Desglose:\n")
	fmt.Fprintf(&b, "- Filamento: %s (%s)\n", f.Money(bd.TotalFilamentCost), Grams(bd.TotalGramsUsed))
	fmt.Fprintf(&b, "- Energía: %s\n", f.Money(bd.TotalEnergyCost))
	fmt.Fprintf(&b, "- Costo por unidad: %s\n", f.Money(bd.CostPerUnit))
	fmt.Fprintf(&b, "- Paquete de trabajo: %s\n", f.Money(bd.WorkPackageCost))
	fmt.Fprintf(&b, "- Empaque: %s\n", f.Money(bd.PackagingCost))
	fmt.Fprintf(&b, "- Costos adicionales: %s\n", f.Money(bd.AdditionalCosts))
	fmt.Fprintf(&b, "- Subtotal: %s\n", f.Money(bd.SubtotalCost))
	fmt.Fprintf(&b, "- Impuesto (%s): %s\n", Percent(bd.TaxRate), f.Money(bd.TaxAmount))
	fmt.Fprintf(&b, "- Costo total: %s\n", f.Money(bd.TotalCost))
	fmt.Fprintf(&b, "- Margen (%s): %s\n", Percent(bd.MarginPercent), f.Money(bd.MarginAmount))

	b.WriteString("\nPrecios sugeridos:\n")
	for _, tier := range pricing.TierPrices(bd.TotalCost, bd.Quantity) {
		fmt.Fprintf(&b, "- %s: %s (%s por unidad)\n", Percent(tier.Percent), f.Money(tier.Price), f.Money(tier.PricePerUnit))
	}

	return b.String()
}

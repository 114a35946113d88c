// Package format renders engine values for people. Rounding happens here and
// nowhere else.
package format

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const defaultPattern = "#,###.##"

// Formatter renders money in one currency.
type Formatter struct {
	Currency string
	// Pattern is a go-humanize FormatFloat pattern; empty means "#,###.##".
	Pattern string
}

// New returns a Formatter for currency with the default pattern.
func New(currency string) Formatter {
	return Formatter{Currency: currency}
}

// Round rounds v half away from zero to two decimals. NaN and ±Inf render
// as zero.
func Round(v float64) float64 {
	return toDecimal(v).Round(2).InexactFloat64()
}

func toDecimal(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// Amount renders v rounded to two decimals with thousands separators.
func (f Formatter) Amount(v float64) string {
	pattern := f.Pattern
	if pattern == "" {
		pattern = defaultPattern
	}
	return humanize.FormatFloat(pattern, Round(v))
}

// Money renders v followed by the currency code.
func (f Formatter) Money(v float64) string {
	if f.Currency == "" {
		return f.Amount(v)
	}
	return f.Amount(v) + " " + f.Currency
}

// Percent renders a percentage with up to two decimals.
func Percent(v float64) string {
	return toDecimal(v).Round(2).String() + "%"
}

// Quantity renders a plain number without trailing zeros.
func Quantity(v float64) string {
	return toDecimal(v).Round(2).String()
}

// Grams renders a weight in grams.
func Grams(v float64) string {
	return fmt.Sprintf("%s g", Quantity(v))
}

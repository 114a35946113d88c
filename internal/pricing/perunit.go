package pricing

// PerUnit divides a job-level value by quantity. A zero, negative or
// non-finite quantity yields 0 instead of Inf or NaN.
func PerUnit(value, quantity float64) float64 {
	quantity = finite(quantity)
	if quantity <= 0 {
		return 0
	}
	return saturate(finite(value) / quantity)
}

// Total is the inverse of PerUnit.
func Total(perUnit, quantity float64) float64 {
	quantity = finite(quantity)
	if quantity <= 0 {
		return 0
	}
	return saturate(finite(perUnit) * quantity)
}

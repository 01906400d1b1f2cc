package schedule

import "math"

// Price computes the cost of a single window at an hourly rate, rounded
// half-up to the currency's minor unit.
func Price(w Window, ratePerHour float64) float64 {
	return roundToCents(w.Hours() * ratePerHour)
}

// PriceBatch sums per-window prices. Rounding is applied per window, not on
// the total, so each booking row carries an auditable amount.
func PriceBatch(windows []Window, ratePerHour float64) float64 {
	var total float64
	for _, w := range windows {
		total += Price(w, ratePerHour)
	}
	return roundToCents(total)
}

func roundToCents(v float64) float64 {
	return math.Round(v*100) / 100
}

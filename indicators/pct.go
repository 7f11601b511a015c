package indicators

import "fmt"

// PctChange returns (last - prev) / prev as a fraction.
func PctChange(closes []float64) (float64, error) {
	if len(closes) < 2 {
		return 0, fmt.Errorf("pct change: need 2 closes, got %d: %w", len(closes), ErrInsufficientData)
	}
	prev := closes[len(closes)-2]
	if prev == 0 {
		return 0, fmt.Errorf("pct change: previous close is zero: %w", ErrDegenerate)
	}
	return (closes[len(closes)-1] - prev) / prev, nil
}

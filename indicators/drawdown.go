package indicators

import "fmt"

// Drawdown returns (current - max) / max over the trailing window closes,
// or over all closes when fewer are available. The current close is part
// of the window, so the result is never positive.
func Drawdown(closes []float64, window int) (float64, error) {
	if window <= 0 {
		return 0, fmt.Errorf("window must be positive, got %d", window)
	}
	if len(closes) == 0 {
		return 0, fmt.Errorf("drawdown: empty series: %w", ErrInsufficientData)
	}

	start := len(closes) - window
	if start < 0 {
		start = 0
	}
	high := closes[start]
	for _, c := range closes[start+1:] {
		if c > high {
			high = c
		}
	}
	if high <= 0 {
		return 0, fmt.Errorf("drawdown: non-positive high %v: %w", high, ErrDegenerate)
	}

	cur := closes[len(closes)-1]
	if cur == high {
		return 0, nil
	}
	return (cur - high) / high, nil
}

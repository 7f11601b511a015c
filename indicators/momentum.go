package indicators

import "fmt"

// Momentum is an RSI-style oscillator in [0, 100].
//
// Gains and losses are averaged with a simple mean over the trailing period
// differences rather than Wilder smoothing, so the reading only depends on
// the last period+1 closes. A window with losses but no gains reads 0, one
// with gains but no losses reads 100, and a flat window reads 50.
func Momentum(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(closes) < period+1 {
		return 0, fmt.Errorf("momentum: need %d closes, got %d: %w", period+1, len(closes), ErrInsufficientData)
	}

	gains := make([]float64, 0, period)
	losses := make([]float64, 0, period)
	for i := len(closes) - period; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		gains = append(gains, max(d, 0))
		losses = append(losses, max(-d, 0))
	}
	avgGain, err := MA(gains, period)
	if err != nil {
		return 0, err
	}
	avgLoss, err := MA(losses, period)
	if err != nil {
		return 0, err
	}

	switch {
	case avgLoss == 0 && avgGain == 0:
		return 50, nil
	case avgLoss == 0:
		return 100, nil
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), nil
}

package risk

import (
	"errors"
	"fmt"
)

// Policy holds every threshold the decision engine compares against.
// Momentum values are on the 0..100 oscillator scale; drawdowns are in
// percent and therefore negative.
type Policy struct {
	// Primary momentum rules
	MadnessMomentum float64 `json:"madness_momentum" yaml:"madness_momentum" default:"80"` // 80
	WarningMomentum float64 `json:"warning_momentum" yaml:"warning_momentum" default:"75"` // 75

	// Primary drawdown rules
	TotalWarDrawdown  float64 `json:"total_war_drawdown" yaml:"total_war_drawdown" default:"-50"`   // -50
	CrisisLv2Drawdown float64 `json:"crisis_lv2_drawdown" yaml:"crisis_lv2_drawdown" default:"-30"` // -30
	CrisisLv1Drawdown float64 `json:"crisis_lv1_drawdown" yaml:"crisis_lv1_drawdown" default:"-20"` // -20

	// Benchmark classifications (display only)
	OverboughtMomentum float64 `json:"overbought_momentum" yaml:"overbought_momentum" default:"75"`   // 75
	OversoldMomentum   float64 `json:"oversold_momentum" yaml:"oversold_momentum" default:"30"`       // 30
	BearMarketDrawdown float64 `json:"bear_market_drawdown" yaml:"bear_market_drawdown" default:"-20"` // -20
	CorrectionDrawdown float64 `json:"correction_drawdown" yaml:"correction_drawdown" default:"-10"`  // -10

	// RequireBenchmarkOverbought makes MADNESS also require the benchmark's
	// momentum to be at or above OverboughtMomentum. Off by default.
	RequireBenchmarkOverbought bool `json:"require_benchmark_overbought" yaml:"require_benchmark_overbought"`
}

func DefaultPolicy() Policy {
	return Policy{
		MadnessMomentum:    80,
		WarningMomentum:    75,
		TotalWarDrawdown:   -50,
		CrisisLv2Drawdown:  -30,
		CrisisLv1Drawdown:  -20,
		OverboughtMomentum: 75,
		OversoldMomentum:   30,
		BearMarketDrawdown: -20,
		CorrectionDrawdown: -10,
	}
}

var ErrPolicy = errors.New("invalid policy")

// Validate checks that thresholds are in range and ordered so that every
// rule in the table can match.
func (p Policy) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrPolicy}, args...)...))
	}

	for name, v := range map[string]float64{
		"madness_momentum":    p.MadnessMomentum,
		"warning_momentum":    p.WarningMomentum,
		"overbought_momentum": p.OverboughtMomentum,
		"oversold_momentum":   p.OversoldMomentum,
	} {
		if v < 0 || v > 100 {
			bad("%s %.2f must be within [0, 100]", name, v)
		}
	}
	for name, v := range map[string]float64{
		"total_war_drawdown":   p.TotalWarDrawdown,
		"crisis_lv2_drawdown":  p.CrisisLv2Drawdown,
		"crisis_lv1_drawdown":  p.CrisisLv1Drawdown,
		"bear_market_drawdown": p.BearMarketDrawdown,
		"correction_drawdown":  p.CorrectionDrawdown,
	} {
		if v >= 0 || v < -100 {
			bad("%s %.2f must be within [-100, 0)", name, v)
		}
	}

	if p.WarningMomentum > p.MadnessMomentum {
		bad("warning_momentum %.2f above madness_momentum %.2f", p.WarningMomentum, p.MadnessMomentum)
	}
	if p.OversoldMomentum >= p.OverboughtMomentum {
		bad("oversold_momentum %.2f not below overbought_momentum %.2f", p.OversoldMomentum, p.OverboughtMomentum)
	}
	if !(p.TotalWarDrawdown < p.CrisisLv2Drawdown && p.CrisisLv2Drawdown < p.CrisisLv1Drawdown) {
		bad("drawdown rules must satisfy total_war < crisis_lv2 < crisis_lv1, got %.2f, %.2f, %.2f",
			p.TotalWarDrawdown, p.CrisisLv2Drawdown, p.CrisisLv1Drawdown)
	}
	if p.BearMarketDrawdown >= p.CorrectionDrawdown {
		bad("bear_market_drawdown %.2f not below correction_drawdown %.2f", p.BearMarketDrawdown, p.CorrectionDrawdown)
	}

	return errors.Join(errs...)
}

package risk

import "github.com/rustyeddy/globalfire/indicators"

// Label is a display classification for a single indicator reading.
type Label string

const (
	LabelUndefined Label = "N/A"

	// benchmark momentum
	Overbought     Label = "OVERBOUGHT"
	Oversold       Label = "OVERSOLD"
	MomentumNormal Label = "NORMAL"

	// benchmark drawdown
	BearMarket Label = "BEAR_MARKET"
	Correction Label = "CORRECTION"
	Stable     Label = "STABLE"

	// primary momentum
	MomentumMadness Label = "MADNESS"
	MomentumWarning Label = "WARNING"

	// primary drawdown
	DrawdownTotalWar Label = "TOTAL WAR"
	DrawdownCrisis   Label = "CRISIS"
)

// BenchmarkView holds the informational classifications of the benchmark.
type BenchmarkView struct {
	Momentum Label `json:"momentum"`
	Drawdown Label `json:"drawdown"`
}

func ClassifyBenchmark(p Policy, s indicators.Snapshot) BenchmarkView {
	return BenchmarkView{
		Momentum: ClassifyBenchmarkMomentum(p, s.Momentum),
		Drawdown: ClassifyBenchmarkDrawdown(p, s.DrawdownPct),
	}
}

func ClassifyBenchmarkMomentum(p Policy, v indicators.Value) Label {
	switch {
	case !v.OK:
		return LabelUndefined
	case v.V >= p.OverboughtMomentum:
		return Overbought
	case v.V <= p.OversoldMomentum:
		return Oversold
	}
	return MomentumNormal
}

func ClassifyBenchmarkDrawdown(p Policy, v indicators.Value) Label {
	switch {
	case !v.OK:
		return LabelUndefined
	case v.V <= p.BearMarketDrawdown:
		return BearMarket
	case v.V <= p.CorrectionDrawdown:
		return Correction
	}
	return Stable
}

// PrimaryMomentumLabel is the dashboard label for the primary momentum.
func PrimaryMomentumLabel(p Policy, v indicators.Value) Label {
	switch {
	case !v.OK:
		return LabelUndefined
	case v.V >= p.MadnessMomentum:
		return MomentumMadness
	case v.V >= p.WarningMomentum:
		return MomentumWarning
	}
	return MomentumNormal
}

// PrimaryDrawdownLabel is the dashboard label for the primary drawdown.
// Both crisis levels share the CRISIS label.
func PrimaryDrawdownLabel(p Policy, v indicators.Value) Label {
	switch {
	case !v.OK:
		return LabelUndefined
	case v.V <= p.TotalWarDrawdown:
		return DrawdownTotalWar
	case v.V <= p.CrisisLv1Drawdown:
		return DrawdownCrisis
	}
	return Stable
}

package indicators

import "github.com/rustyeddy/globalfire/market"

// Params sets the indicator windows.
type Params struct {
	MomentumPeriod int `json:"momentum_period" yaml:"momentum_period" default:"14" validate:"min=1"`
	DrawdownWindow int `json:"drawdown_window" yaml:"drawdown_window" default:"52" validate:"min=1"`
}

func DefaultParams() Params {
	return Params{
		MomentumPeriod: DefaultMomentumPeriod,
		DrawdownWindow: DefaultDrawdownWindow,
	}
}

// Snapshot holds one instrument's readings for one evaluation cycle.
// PctChange and DrawdownPct are in percent.
type Snapshot struct {
	CurrentPrice Value `json:"current_price"`
	PriorPrice   Value `json:"prior_price"`
	PctChange    Value `json:"pct_change"`
	Momentum     Value `json:"momentum"`
	DrawdownPct  Value `json:"drawdown_pct"`
}

// Compute derives a Snapshot from s. Short or empty series yield undefined
// fields; it never fails.
func Compute(s market.Series, p Params) Snapshot {
	closes := s.Closes()

	var snap Snapshot
	if n := len(closes); n > 0 {
		snap.CurrentPrice = Defined(closes[n-1])
		if n > 1 {
			snap.PriorPrice = Defined(closes[n-2])
		}
	}
	snap.PctChange = percent(From(PctChange(closes)))
	snap.Momentum = From(Momentum(closes, p.MomentumPeriod))
	snap.DrawdownPct = percent(From(Drawdown(closes, p.DrawdownWindow)))
	return snap
}

func percent(v Value) Value {
	if !v.OK {
		return v
	}
	return Defined(v.V * 100)
}

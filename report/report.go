// Package report assembles the per-cycle output record: indicator
// snapshots for every instrument plus the decision for the primary one.
package report

import (
	"time"

	"github.com/rustyeddy/globalfire/indicators"
	"github.com/rustyeddy/globalfire/market"
	"github.com/rustyeddy/globalfire/risk"
)

// PrimaryView is the leveraged asset under risk management.
type PrimaryView struct {
	Symbol          string            `json:"symbol"`
	Price           indicators.Value  `json:"price"`
	PctChange       indicators.Value  `json:"pctChange"`
	Momentum        indicators.Value  `json:"momentum"`
	MomentumLabel   risk.Label        `json:"momentumLabel"`
	Drawdown        indicators.Value  `json:"drawdown"`
	DrawdownLabel   risk.Label        `json:"drawdownLabel"`
	MonthlyMomentum *indicators.Value `json:"monthlyMomentum,omitempty"`
}

// SecondaryView is the benchmark, informational only.
type SecondaryView struct {
	Symbol        string           `json:"symbol"`
	Price         indicators.Value `json:"price"`
	Momentum      indicators.Value `json:"momentum"`
	MomentumLabel risk.Label       `json:"momentumLabel"`
	Drawdown      indicators.Value `json:"drawdown"`
	DrawdownLabel risk.Label       `json:"drawdownLabel"`
}

// AuxiliaryView is a display-only value such as an FX rate.
type AuxiliaryView struct {
	Symbol string           `json:"symbol"`
	Value  indicators.Value `json:"value"`
}

// Report is the output record of one evaluation cycle.
type Report struct {
	Primary   PrimaryView    `json:"primary"`
	Secondary *SecondaryView `json:"secondary,omitempty"`
	Auxiliary *AuxiliaryView `json:"auxiliary,omitempty"`
	Decision  risk.Decision  `json:"decision"`
}

// Inputs are the series of one cycle. Only Primary is required; a nil
// pointer means the instrument is not tracked.
type Inputs struct {
	Primary        market.Series
	Benchmark      *market.Series
	Auxiliary      *market.Series
	PrimaryMonthly *market.Series
}

// Build computes every snapshot and the decision. It is pure.
func Build(p risk.Policy, params indicators.Params, in Inputs) Report {
	prim := indicators.Compute(in.Primary, params)

	r := Report{
		Primary: PrimaryView{
			Symbol:        in.Primary.Symbol,
			Price:         prim.CurrentPrice,
			PctChange:     prim.PctChange,
			Momentum:      prim.Momentum,
			MomentumLabel: risk.PrimaryMomentumLabel(p, prim.Momentum),
			Drawdown:      prim.DrawdownPct,
			DrawdownLabel: risk.PrimaryDrawdownLabel(p, prim.DrawdownPct),
		},
	}

	if in.PrimaryMonthly != nil {
		m := indicators.From(indicators.Momentum(in.PrimaryMonthly.Closes(), params.MomentumPeriod))
		r.Primary.MonthlyMomentum = &m
	}

	var bench *indicators.Snapshot
	if in.Benchmark != nil {
		b := indicators.Compute(*in.Benchmark, params)
		bench = &b
	}

	out := risk.Evaluate(p, prim, bench)
	r.Decision = out.Decision

	if bench != nil {
		r.Secondary = &SecondaryView{
			Symbol:        in.Benchmark.Symbol,
			Price:         bench.CurrentPrice,
			Momentum:      bench.Momentum,
			MomentumLabel: out.Benchmark.Momentum,
			Drawdown:      bench.DrawdownPct,
			DrawdownLabel: out.Benchmark.Drawdown,
		}
	}

	if in.Auxiliary != nil {
		v := indicators.Undefined
		if last, ok := in.Auxiliary.Last(); ok {
			v = indicators.Defined(last.Price)
		}
		r.Auxiliary = &AuxiliaryView{Symbol: in.Auxiliary.Symbol, Value: v}
	}

	return r
}

// Cycle wraps a Report with the identity of the run that produced it.
type Cycle struct {
	ID     string    `json:"id"`
	At     time.Time `json:"at"`
	Report Report    `json:"report"`
}

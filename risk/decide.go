package risk

import "github.com/rustyeddy/globalfire/indicators"

// Decision is the action chosen for the primary instrument.
type Decision struct {
	State    ActionState `json:"state"`
	Rule     string      `json:"rule"`
	Category Category    `json:"category"`
	Tone     Tone        `json:"tone"`
	Guidance string      `json:"guidanceText"`
}

// Outcome is everything the engine produces for one cycle. Benchmark is
// informational and never influences Decision.
type Outcome struct {
	Decision  Decision
	Benchmark *BenchmarkView
}

type inputs struct {
	momentum  float64
	drawdown  float64
	benchmark *indicators.Snapshot
}

type rule struct {
	code  string
	state ActionState
	match func(p Policy, in inputs) bool
}

// rules is evaluated top to bottom; the first match wins.
var rules = []rule{
	{"MOMENTUM_MADNESS", Madness, func(p Policy, in inputs) bool {
		if in.momentum < p.MadnessMomentum {
			return false
		}
		if !p.RequireBenchmarkOverbought {
			return true
		}
		return in.benchmark != nil && in.benchmark.Momentum.OK &&
			in.benchmark.Momentum.V >= p.OverboughtMomentum
	}},
	{"MOMENTUM_WARNING", Warning, func(p Policy, in inputs) bool {
		return in.momentum >= p.WarningMomentum
	}},
	{"DRAWDOWN_TOTAL_WAR", TotalWar, func(p Policy, in inputs) bool {
		return in.drawdown <= p.TotalWarDrawdown
	}},
	{"DRAWDOWN_CRISIS_LV2", CrisisLv2, func(p Policy, in inputs) bool {
		return in.drawdown <= p.CrisisLv2Drawdown
	}},
	{"DRAWDOWN_CRISIS_LV1", CrisisLv1, func(p Policy, in inputs) bool {
		return in.drawdown <= p.CrisisLv1Drawdown
	}},
}

const (
	RuleNone         = "NONE"
	RuleInsufficient = "INSUFFICIENT_DATA"
)

// Decide runs the ordered rule table against the primary snapshot.
// benchmark may be nil. If the primary momentum or drawdown is undefined
// the result is InsufficientData.
func Decide(p Policy, primary indicators.Snapshot, benchmark *indicators.Snapshot) Decision {
	if !primary.Momentum.OK || !primary.DrawdownPct.OK {
		return decision(InsufficientData, RuleInsufficient)
	}

	in := inputs{
		momentum:  primary.Momentum.V,
		drawdown:  primary.DrawdownPct.V,
		benchmark: benchmark,
	}
	for _, r := range rules {
		if r.match(p, in) {
			return decision(r.state, r.code)
		}
	}
	return decision(Normal, RuleNone)
}

// Evaluate is Decide plus the benchmark classifications.
func Evaluate(p Policy, primary indicators.Snapshot, benchmark *indicators.Snapshot) Outcome {
	out := Outcome{Decision: Decide(p, primary, benchmark)}
	if benchmark != nil {
		v := ClassifyBenchmark(p, *benchmark)
		out.Benchmark = &v
	}
	return out
}

func decision(s ActionState, code string) Decision {
	g := Guide(s)
	return Decision{
		State:    s,
		Rule:     code,
		Category: g.Category,
		Tone:     g.Tone,
		Guidance: g.Text(),
	}
}

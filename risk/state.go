package risk

import "fmt"

// ActionState is the outcome of a decision. Lower values are checked first
// by the rule table; that order is priority, not a risk level.
type ActionState int

const (
	Madness ActionState = iota
	Warning
	TotalWar
	CrisisLv2
	CrisisLv1
	Normal
	InsufficientData
)

var stateNames = [...]string{
	Madness:          "MADNESS",
	Warning:          "WARNING",
	TotalWar:         "TOTAL_WAR",
	CrisisLv2:        "CRISIS_LV2",
	CrisisLv1:        "CRISIS_LV1",
	Normal:           "NORMAL",
	InsufficientData: "INSUFFICIENT_DATA",
}

// States lists every state in rule-priority order.
func States() []ActionState {
	return []ActionState{Madness, Warning, TotalWar, CrisisLv2, CrisisLv1, Normal, InsufficientData}
}

func (s ActionState) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("ActionState(%d)", int(s))
	}
	return stateNames[s]
}

// Outranks reports whether s is evaluated before o.
func (s ActionState) Outranks(o ActionState) bool {
	return s < o
}

func (s ActionState) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(stateNames) {
		return nil, fmt.Errorf("unknown action state %d", int(s))
	}
	return []byte(stateNames[s]), nil
}

func (s *ActionState) UnmarshalText(b []byte) error {
	st, err := ParseState(string(b))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

func ParseState(name string) (ActionState, error) {
	for i, n := range stateNames {
		if n == name {
			return ActionState(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action state %q", name)
}

// Category groups states by what they ask of the operator.
type Category string

const (
	SellPressure   Category = "sell-pressure"
	BuyOpportunity Category = "buy-opportunity"
	SteadyState    Category = "steady-state"
)

// Tone is the display severity a renderer should use.
type Tone string

const (
	ToneError   Tone = "error"
	ToneWarning Tone = "warning"
	ToneSuccess Tone = "success"
	ToneInfo    Tone = "info"
)

// Guidance is the fixed operator guidance attached to a state.
type Guidance struct {
	Title    string   `json:"title"`
	Steps    []string `json:"steps"`
	Category Category `json:"category"`
	Tone     Tone     `json:"tone"`
}

var guidance = map[ActionState]Guidance{
	Madness: {
		Title: "[MADNESS] Strong sell alert",
		Steps: []string{
			"No new buys of the leveraged position.",
			"Raise the cash weight by an extra 10 percentage points (forced sell).",
			"Report to the risk officer immediately.",
		},
		Category: SellPressure,
		Tone:     ToneError,
	},
	Warning: {
		Title: "[WARNING] Overheating alert",
		Steps: []string{
			"No new buys of the leveraged position.",
			"Rebalance by selling down to the target cash weight (30-50%).",
			"Report to the risk officer.",
		},
		Category: SellPressure,
		Tone:     ToneWarning,
	},
	TotalWar: {
		Title: "[TOTAL WAR] Full deployment",
		Steps: []string{
			"Deploy 100% of held cash.",
			"Execute immediately after risk officer approval.",
		},
		Category: BuyOpportunity,
		Tone:     ToneSuccess,
	},
	CrisisLv2: {
		Title: "[CRISIS LV2] Fear zone",
		Steps: []string{
			"Deploy 30% of held cash.",
			"Buy mechanically.",
		},
		Category: BuyOpportunity,
		Tone:     ToneInfo,
	},
	CrisisLv1: {
		Title: "[CRISIS LV1] Correction zone",
		Steps: []string{
			"Deploy 20% of held cash.",
			"Build the first line of defense.",
		},
		Category: BuyOpportunity,
		Tone:     ToneInfo,
	},
	Normal: {
		Title: "[NORMAL] Routine operation",
		Steps: []string{
			"Invest the monthly contribution.",
			"Rebalance to the target cash weight on schedule.",
			"Nothing unusual to report.",
		},
		Category: SteadyState,
		Tone:     ToneInfo,
	},
	InsufficientData: {
		Title: "[INSUFFICIENT DATA] No recommendation",
		Steps: []string{
			"Insufficient data, no recommendation.",
			"Check the market-data feed and re-run the evaluation.",
		},
		Category: SteadyState,
		Tone:     ToneInfo,
	},
}

// Guide returns the guidance for s. Unknown states get the
// insufficient-data guidance.
func Guide(s ActionState) Guidance {
	g, ok := guidance[s]
	if !ok {
		g = guidance[InsufficientData]
	}
	g.Steps = append([]string(nil), g.Steps...)
	return g
}

// Text renders the guidance as a title followed by bulleted steps.
func (g Guidance) Text() string {
	out := g.Title + "\n"
	for _, s := range g.Steps {
		out += "\n- " + s
	}
	return out
}

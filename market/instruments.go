package market

import "fmt"

// Role tags how a series takes part in an evaluation cycle.
type Role string

const (
	// Primary is the leveraged asset whose risk state drives the decision.
	Primary Role = "primary"
	// Benchmark is the reference asset, informational only.
	Benchmark Role = "benchmark"
	// Auxiliary values are display-only (e.g. an FX rate).
	Auxiliary Role = "auxiliary"
)

func (r Role) Valid() bool {
	switch r {
	case Primary, Benchmark, Auxiliary:
		return true
	}
	return false
}

// Interval is the sampling granularity of a series, using the
// market-data provider's notation.
type Interval string

const (
	Daily   Interval = "1d"
	Weekly  Interval = "1wk"
	Monthly Interval = "1mo"
)

func ParseInterval(s string) (Interval, error) {
	switch Interval(s) {
	case Daily, Weekly, Monthly:
		return Interval(s), nil
	}
	return "", fmt.Errorf("unknown interval %q (supported: 1d, 1wk, 1mo)", s)
}

// Instrument pairs a ticker symbol with its role.
type Instrument struct {
	Symbol string `json:"symbol" yaml:"symbol" validate:"required"`
	Role   Role   `json:"role" yaml:"role" validate:"required,oneof=primary benchmark auxiliary"`
}

// DefaultInstruments is the leveraged Nasdaq position checked against the
// unleveraged index and the USD/KRW rate.
var DefaultInstruments = []Instrument{
	{Symbol: "TQQQ", Role: Primary},
	{Symbol: "QQQ", Role: Benchmark},
	{Symbol: "KRW=X", Role: Auxiliary},
}

// Package indicators computes the momentum and drawdown readings that feed
// the decision engine. Every function is pure: the same closes always
// produce the same result and nothing is retained between calls.
package indicators

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInsufficientData means the series is shorter than the indicator needs.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrDegenerate means the inputs would divide by zero.
	ErrDegenerate = errors.New("degenerate input")
)

const (
	DefaultMomentumPeriod = 14
	DefaultDrawdownWindow = 52
)

// Value is an indicator reading that may be undefined. A defined Value is
// always finite.
type Value struct {
	V  float64
	OK bool
}

// Defined wraps v; NaN and infinities collapse to Undefined.
func Defined(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undefined
	}
	return Value{V: v, OK: true}
}

var Undefined = Value{}

// From turns a (value, error) pair into a Value.
func From(v float64, err error) Value {
	if err != nil {
		return Undefined
	}
	return Defined(v)
}

func (v Value) String() string {
	if !v.OK {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v.V)
}

// MarshalJSON encodes an undefined value as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.OK {
		return []byte("null"), nil
	}
	return json.Marshal(v.V)
}

func (v *Value) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = Undefined
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*v = Defined(f)
	return nil
}

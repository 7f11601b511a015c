package market

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrUnordered = errors.New("series timestamps must be strictly increasing")
	ErrBadPrice  = errors.New("series prices must be finite and positive")
)

// Point is a single close price sample.
type Point struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}

// Series is an ordered close-price history for one instrument. It is
// immutable once built: NewSeries copies its input and the accessors hand
// out copies.
type Series struct {
	Symbol   string
	Role     Role
	Interval Interval

	points []Point
}

// NewSeries validates pts and returns a Series that owns a copy of them.
// An empty pts is valid and stands for "no data available".
func NewSeries(symbol string, role Role, interval Interval, pts []Point) (Series, error) {
	for i, p := range pts {
		if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) || p.Price <= 0 {
			return Series{}, fmt.Errorf("%s[%d] price %v: %w", symbol, i, p.Price, ErrBadPrice)
		}
		if i > 0 && !p.Time.After(pts[i-1].Time) {
			return Series{}, fmt.Errorf("%s[%d] %s after %s: %w",
				symbol, i, p.Time.Format(time.RFC3339), pts[i-1].Time.Format(time.RFC3339), ErrUnordered)
		}
	}

	cp := make([]Point, len(pts))
	copy(cp, pts)
	return Series{Symbol: symbol, Role: role, Interval: interval, points: cp}, nil
}

// Empty returns a series with no points, used when retrieval failed.
func Empty(symbol string, role Role, interval Interval) Series {
	return Series{Symbol: symbol, Role: role, Interval: interval}
}

func (s Series) Len() int {
	return len(s.points)
}

// Points returns a copy of the samples.
func (s Series) Points() []Point {
	cp := make([]Point, len(s.points))
	copy(cp, s.points)
	return cp
}

// Closes returns the prices in time order.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.Price
	}
	return out
}

// Last returns the most recent point.
func (s Series) Last() (Point, bool) {
	if len(s.points) == 0 {
		return Point{}, false
	}
	return s.points[len(s.points)-1], true
}

// WithRole returns the same data tagged with a different role.
func (s Series) WithRole(r Role) Series {
	s.Role = r
	return s
}

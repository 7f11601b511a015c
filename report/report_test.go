package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rustyeddy/globalfire/indicators"
	"github.com/rustyeddy/globalfire/market"
	"github.com/rustyeddy/globalfire/risk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkSeries(t *testing.T, sym string, role market.Role, closes ...float64) market.Series {
	t.Helper()
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	pts := make([]market.Point, len(closes))
	for i, c := range closes {
		pts[i] = market.Point{Time: start.AddDate(0, 0, 7*i), Price: c}
	}
	s, err := market.NewSeries(sym, role, market.Weekly, pts)
	require.NoError(t, err)
	return s
}

func rising(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

func TestBuildScenarioA(t *testing.T) {
	t.Parallel()

	params := indicators.Params{MomentumPeriod: 5, DrawdownWindow: 52}
	r := Build(risk.DefaultPolicy(), params, Inputs{
		Primary: mkSeries(t, "TQQQ", market.Primary, 100, 90, 80, 70, 60, 50),
	})

	assert.InDelta(t, -16.67, r.Primary.PctChange.V, 0.01)
	assert.InDelta(t, -50.0, r.Primary.Drawdown.V, 1e-9)
	assert.Equal(t, risk.DrawdownTotalWar, r.Primary.DrawdownLabel)
	assert.Equal(t, risk.TotalWar, r.Decision.State)
	assert.Nil(t, r.Secondary)
	assert.Nil(t, r.Auxiliary)
}

func TestBuildScenarioB(t *testing.T) {
	t.Parallel()

	r := Build(risk.DefaultPolicy(), indicators.DefaultParams(), Inputs{
		Primary: mkSeries(t, "TQQQ", market.Primary, rising(15)...),
	})

	assert.Equal(t, indicators.Defined(100), r.Primary.Momentum)
	assert.Equal(t, risk.MomentumMadness, r.Primary.MomentumLabel)
	assert.Equal(t, risk.Madness, r.Decision.State)
}

func TestBuildScenarioC(t *testing.T) {
	t.Parallel()

	r := Build(risk.DefaultPolicy(), indicators.DefaultParams(), Inputs{
		Primary: mkSeries(t, "TQQQ", market.Primary, 100, 60, 40, 30, 20),
	})

	assert.False(t, r.Primary.Momentum.OK)
	assert.Equal(t, risk.LabelUndefined, r.Primary.MomentumLabel)
	assert.Equal(t, risk.InsufficientData, r.Decision.State)
}

func TestBuildNoData(t *testing.T) {
	t.Parallel()

	bench := market.Empty("QQQ", market.Benchmark, market.Weekly)
	aux := market.Empty("KRW=X", market.Auxiliary, market.Weekly)
	r := Build(risk.DefaultPolicy(), indicators.DefaultParams(), Inputs{
		Primary:   market.Empty("TQQQ", market.Primary, market.Weekly),
		Benchmark: &bench,
		Auxiliary: &aux,
	})

	assert.Equal(t, risk.InsufficientData, r.Decision.State)
	require.NotNil(t, r.Secondary)
	assert.Equal(t, risk.LabelUndefined, r.Secondary.MomentumLabel)
	require.NotNil(t, r.Auxiliary)
	assert.False(t, r.Auxiliary.Value.OK)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"price":null`)
}

func TestBuildFullRecord(t *testing.T) {
	t.Parallel()

	bench := mkSeries(t, "QQQ", market.Benchmark, rising(60)...)
	aux := mkSeries(t, "KRW=X", market.Auxiliary, 1300, 1350, 1380.5)
	monthly := mkSeries(t, "TQQQ", market.Primary, rising(20)...)

	closes := rising(60)
	closes[59] = 30 // drop from 59 to 30 at the end: drawdown ~ -49%
	r := Build(risk.DefaultPolicy(), indicators.DefaultParams(), Inputs{
		Primary:        mkSeries(t, "TQQQ", market.Primary, closes...),
		Benchmark:      &bench,
		Auxiliary:      &aux,
		PrimaryMonthly: &monthly,
	})

	require.NotNil(t, r.Secondary)
	assert.Equal(t, "QQQ", r.Secondary.Symbol)
	assert.Equal(t, risk.Overbought, r.Secondary.MomentumLabel)
	assert.Equal(t, risk.Stable, r.Secondary.DrawdownLabel)

	require.NotNil(t, r.Auxiliary)
	assert.Equal(t, indicators.Defined(1380.5), r.Auxiliary.Value)

	require.NotNil(t, r.Primary.MonthlyMomentum)
	assert.Equal(t, indicators.Defined(100), *r.Primary.MonthlyMomentum)

	assert.InDelta(t, (30.0-59.0)/59.0*100, r.Primary.Drawdown.V, 1e-9)
	assert.Equal(t, risk.CrisisLv2, r.Decision.State)
	assert.Equal(t, "DRAWDOWN_CRISIS_LV2", r.Decision.Rule)
}

func TestBuildIdempotent(t *testing.T) {
	t.Parallel()

	bench := mkSeries(t, "QQQ", market.Benchmark, rising(30)...)
	in := Inputs{
		Primary:   mkSeries(t, "TQQQ", market.Primary, 5, 7, 6, 9, 8, 10, 12, 11, 13, 9, 8, 7, 10, 11, 12, 9),
		Benchmark: &bench,
	}

	a, err := json.Marshal(Build(risk.DefaultPolicy(), indicators.DefaultParams(), in))
	require.NoError(t, err)
	b, err := json.Marshal(Build(risk.DefaultPolicy(), indicators.DefaultParams(), in))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestReportJSONShape(t *testing.T) {
	t.Parallel()

	r := Build(risk.DefaultPolicy(), indicators.DefaultParams(), Inputs{
		Primary: mkSeries(t, "TQQQ", market.Primary, rising(15)...),
	})
	b, err := json.Marshal(r)
	require.NoError(t, err)

	var m map[string]map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "MADNESS", m["decision"]["state"])
	assert.Equal(t, "error", m["decision"]["tone"])
	assert.Equal(t, "sell-pressure", m["decision"]["category"])
	assert.NotEmpty(t, m["decision"]["guidanceText"])
	assert.Equal(t, 100.0, m["primary"]["momentum"])
	assert.Equal(t, "MADNESS", m["primary"]["momentumLabel"])
}

package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/aristath/cppi/pkg/formulas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParameters(t *testing.T) {
	p := DefaultParameters()

	require.NoError(t, p.Validate())
	assert.Equal(t, formulas.SimpleRate, p.RateType)
	assert.Equal(t, 255, p.TradingDaysSum())
	assert.InDelta(t, 0.04/255, p.RiskFreeDailyRate(), 1e-15)
	assert.Equal(t, 10000.0, p.InitialNAV)
	assert.Equal(t, 5, p.RebalancePeriod)
	assert.Equal(t, 0.8, p.GuaranteeRatio)
	assert.Equal(t, 2.0, p.RiskMultiplier)
	assert.Equal(t, 0.006, p.RiskFeeRate)
	assert.Equal(t, 1, p.PathCount)
}

func TestParameters_WithTradingDaysPerYear(t *testing.T) {
	p := DefaultParameters()
	p.TradingYears = 2

	q := p.WithTradingDaysPerYear(244)

	assert.Equal(t, 255, p.TradingDaysPerYear, "receiver must be untouched")
	assert.Equal(t, 488, q.TradingDaysSum())
}

func TestParameters_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Parameters)
	}{
		{"zero years", func(p *Parameters) { p.TradingYears = 0 }},
		{"zero days", func(p *Parameters) { p.TradingDaysPerYear = 0 }},
		{"non-positive nav", func(p *Parameters) { p.InitialNAV = 0 }},
		{"zero rebalance period", func(p *Parameters) { p.RebalancePeriod = 0 }},
		{"zero guarantee", func(p *Parameters) { p.GuaranteeRatio = 0 }},
		{"guarantee above one", func(p *Parameters) { p.GuaranteeRatio = 1.01 }},
		{"zero multiplier", func(p *Parameters) { p.RiskMultiplier = 0 }},
		{"negative fee", func(p *Parameters) { p.RiskFeeRate = -0.001 }},
		{"fee of one", func(p *Parameters) { p.RiskFeeRate = 1 }},
		{"no paths", func(p *Parameters) { p.PathCount = 0 }},
		{"unknown rate type", func(p *Parameters) { p.RateType = formulas.RateConvention(7) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParameters()
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidParameters)
		})
	}

	edge := DefaultParameters()
	edge.GuaranteeRatio = 1
	edge.RiskFeeRate = 0
	assert.NoError(t, edge.Validate())
}

func TestParameters_JSONOverridesDefaults(t *testing.T) {
	p := DefaultParameters()
	require.NoError(t, json.Unmarshal([]byte(`{"rate_type":"compound","path_count":3}`), &p))

	assert.Equal(t, formulas.CompoundRate, p.RateType)
	assert.Equal(t, 3, p.PathCount)
	assert.Equal(t, 0.8, p.GuaranteeRatio)
}

func TestPerformanceRow_JSONNonFinite(t *testing.T) {
	row := PerformanceRow{Period: "2020", AnnualReturn: 1, AnnualVolatility: 0, Sharpe: math.NaN(), MaxDrawdown: 0}

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sharpe":"NaN"`)
	assert.Contains(t, string(data), `"annual_return":1`)

	var back PerformanceRow
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, math.IsNaN(back.Sharpe))
	assert.Equal(t, "2020", back.Period)

	data, err = json.Marshal(PerformanceRow{Sharpe: math.Inf(1)})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sharpe":"+Inf"`)
}

func TestPeriodResult_JSONNonFiniteNAV(t *testing.T) {
	period := PeriodResult{
		Label:      "blowup",
		NAV:        []float64{10000, math.Inf(1), math.NaN()},
		Normalized: []float64{1, math.Inf(1), math.Inf(-1)},
	}

	data, err := json.Marshal(period)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"nav":[10000,"+Inf","NaN"]`)
	assert.Contains(t, string(data), `"normalized":[1,"+Inf","-Inf"]`)

	var back PeriodResult
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back.NAV, 3)
	assert.Equal(t, 10000.0, back.NAV[0])
	assert.True(t, math.IsInf(back.NAV[1], 1))
	assert.True(t, math.IsNaN(back.NAV[2]))
	assert.True(t, math.IsInf(back.Normalized[2], -1))

	data, err = json.Marshal(PeriodResult{})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"nav":null`)
}

func TestPortfolioState_Dims(t *testing.T) {
	s := NewPortfolioState(10, 3)
	assert.Equal(t, 10, s.Days())
	assert.Equal(t, 3, s.Paths())

	s.NAV.Set(1, 2, 42)
	nav := s.PathNAV(2)
	assert.Len(t, nav, 10)
	assert.Equal(t, 42.0, nav[0])
}

func TestReturnSeries_Len(t *testing.T) {
	s := ReturnSeries{Risky: make([]float64, 5), RiskFree: make([]float64, 3)}
	assert.Equal(t, 3, s.Len())
}

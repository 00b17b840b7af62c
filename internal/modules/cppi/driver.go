package cppi

import (
	"errors"
	"fmt"
	"time"

	"github.com/aristath/cppi/internal/domain"
)

// ErrSeriesTooShort is returned when a return series does not cover every
// simulated day. Series are never truncated or padded.
var ErrSeriesTooShort = errors.New("return series shorter than simulated period")

// PeriodDriver simulates one period from a parameter set and a pair of
// aligned return series.
type PeriodDriver struct{}

// PeriodParameters derives the period's parameter set: the trading days per
// year follow the length of the risky series.
func (PeriodDriver) PeriodParameters(params domain.Parameters, series domain.ReturnSeries) domain.Parameters {
	if params.TradingYears < 1 {
		return params
	}
	return params.WithTradingDaysPerYear(len(series.Risky) / params.TradingYears)
}

// Run simulates one period. Periods share no state, so calls are independent.
func (d PeriodDriver) Run(params domain.Parameters, series domain.ReturnSeries) (*domain.PeriodResult, SimulationStats, error) {
	p := d.PeriodParameters(params, series)
	if err := p.Validate(); err != nil {
		return nil, SimulationStats{}, fmt.Errorf("period %q: %w", series.Label, err)
	}

	days := p.TradingDaysSum()
	if len(series.Risky) < days || len(series.RiskFree) < days {
		return nil, SimulationStats{}, fmt.Errorf("period %q: %w: need %d days, risky has %d, risk-free has %d",
			series.Label, ErrSeriesTooShort, days, len(series.Risky), len(series.RiskFree))
	}

	state, stats := NewPathSimulator(p).Simulate(series.Risky, series.RiskFree)

	nav := state.PathNAV(0)
	normalized := make([]float64, len(nav))
	for i, v := range nav {
		normalized[i] = v / p.InitialNAV
	}

	var dates []time.Time
	if len(series.Dates) >= days {
		dates = series.Dates[:days]
	}

	return &domain.PeriodResult{
		Label:      series.Label,
		Parameters: p,
		Dates:      dates,
		NAV:        nav,
		Normalized: normalized,
		State:      state,
	}, stats, nil
}

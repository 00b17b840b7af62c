package cppi

import (
	"gonum.org/v1/gonum/floats"

	"github.com/aristath/cppi/internal/domain"
)

// SimulationStats counts the discrete events of one simulated period
type SimulationStats struct {
	Rebalances   int // rebalance days
	Liquidations int // paths that lost a held risky position to forced liquidation
}

// PathSimulator advances the risky leg, the risk-free leg, the floor and the
// NAV day by day. Each day is a whole-row operation over all paths; only the
// time dimension is iterated.
type PathSimulator struct {
	params domain.Parameters
	floor  FloorCalculator
	alloc  AllocationEngine
}

// NewPathSimulator creates a simulator for one parameter set
func NewPathSimulator(params domain.Parameters) *PathSimulator {
	return &PathSimulator{
		params: params,
		floor:  NewFloorCalculator(params),
		alloc:  NewAllocationEngine(params),
	}
}

// IsRebalanceDay reports whether day t triggers a periodic rebalance
func (s *PathSimulator) IsRebalanceDay(t int) bool {
	return t > 1 && (t-1)%s.params.RebalancePeriod == 0
}

// Simulate runs days 1..TradingDaysSum. Day t grows the previous day's legs by
// the returns at index t-1, so both return slices must hold at least
// TradingDaysSum entries; the PeriodDriver checks this before calling.
//
// After every day, NAV[t] = Risky[t] + RiskFree[t]. Rebalancing and
// liquidation are priced off the market NAV, the value of both legs after the
// growth step and before any fee.
func (s *PathSimulator) Simulate(riskyReturns, riskFreeReturns []float64) (*domain.PortfolioState, SimulationStats) {
	days := s.params.TradingDaysSum()
	paths := s.params.PathCount
	state := domain.NewPortfolioState(days, paths)
	market := make([]float64, paths)
	var stats SimulationStats

	// Day 1: initial allocation of the starting capital
	risky := state.Risky.RawRowView(1)
	riskFree := state.RiskFree.RawRowView(1)
	floor := state.Floor.RawRowView(1)
	fill(floor, s.floor.Floor(1))
	fill(market, s.params.InitialNAV)
	s.alloc.Initial(risky, riskFree, market, floor)
	stats.Liquidations += s.alloc.Liquidate(risky, riskFree, market, nil)
	floats.AddTo(state.NAV.RawRowView(1), risky, riskFree)

	for t := 2; t <= days; t++ {
		risky = state.Risky.RawRowView(t)
		riskFree = state.RiskFree.RawRowView(t)
		floor = state.Floor.RawRowView(t)

		floats.ScaleTo(risky, 1+riskyReturns[t-1], state.Risky.RawRowView(t-1))
		floats.ScaleTo(riskFree, 1+riskFreeReturns[t-1], state.RiskFree.RawRowView(t-1))
		floats.AddTo(market, risky, riskFree)
		fill(floor, s.floor.Floor(t))

		if s.IsRebalanceDay(t) {
			s.alloc.Rebalance(risky, riskFree, market, floor)
			stats.Rebalances++
		}

		stats.Liquidations += s.alloc.Liquidate(risky, riskFree, market, state.Risky.RawRowView(t-1))
		floats.AddTo(state.NAV.RawRowView(t), risky, riskFree)
	}

	return state, stats
}

func fill(dst []float64, v float64) {
	for i := range dst {
		dst[i] = v
	}
}

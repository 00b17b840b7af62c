// Package domain provides the value types shared by the simulator, the
// analyzer and the I/O collaborators around them.
package domain

import (
	"time"

	"gonum.org/v1/gonum/mat"
)

// ReturnSeries holds one period of index-aligned daily fractional returns
// for the risky and the risk-free asset.
type ReturnSeries struct {
	Label    string      `json:"label" msgpack:"label"`
	Dates    []time.Time `json:"dates,omitempty" msgpack:"dates,omitempty"` // optional, same length as Risky
	Risky    []float64   `json:"risky" msgpack:"risky"`
	RiskFree []float64   `json:"risk_free" msgpack:"risk_free"`
}

// Len returns the number of aligned days (the shorter of the two legs)
func (s ReturnSeries) Len() int {
	if len(s.RiskFree) < len(s.Risky) {
		return len(s.RiskFree)
	}
	return len(s.Risky)
}

// PortfolioState holds the per-day, per-path state of one period.
// Rows are days 0..TradingDaysSum (row 0 is unused), columns are paths.
type PortfolioState struct {
	Risky    *mat.Dense
	RiskFree *mat.Dense
	Floor    *mat.Dense
	NAV      *mat.Dense
}

// NewPortfolioState allocates zeroed state for days+1 rows and paths columns
func NewPortfolioState(days, paths int) *PortfolioState {
	return &PortfolioState{
		Risky:    mat.NewDense(days+1, paths, nil),
		RiskFree: mat.NewDense(days+1, paths, nil),
		Floor:    mat.NewDense(days+1, paths, nil),
		NAV:      mat.NewDense(days+1, paths, nil),
	}
}

// Days returns the number of simulated days (excluding the unused row 0)
func (s *PortfolioState) Days() int {
	rows, _ := s.NAV.Dims()
	return rows - 1
}

// Paths returns the number of simulated paths
func (s *PortfolioState) Paths() int {
	_, cols := s.NAV.Dims()
	return cols
}

// PathNAV returns a copy of the NAV of one path for days 1..n
func (s *PortfolioState) PathNAV(path int) []float64 {
	col := mat.Col(nil, path, s.NAV)
	return col[1:]
}

// PeriodResult is the outcome of simulating one period
type PeriodResult struct {
	Label      string          `json:"label" msgpack:"label"`
	Parameters Parameters      `json:"parameters" msgpack:"parameters"`
	Dates      []time.Time     `json:"dates,omitempty" msgpack:"dates,omitempty"`
	NAV        Series          `json:"nav" msgpack:"nav"`               // path 0, days 1..n
	Normalized Series          `json:"normalized" msgpack:"normalized"` // NAV / InitialNAV
	State      *PortfolioState `json:"-" msgpack:"-"`
}

// PerformanceRow holds the statistics of one period
type PerformanceRow struct {
	Period           string  `json:"period" msgpack:"period"`
	AnnualReturn     float64 `json:"annual_return" msgpack:"annual_return"`
	AnnualVolatility float64 `json:"annual_volatility" msgpack:"annual_volatility"`
	Sharpe           float64 `json:"sharpe" msgpack:"sharpe"`
	MaxDrawdown      float64 `json:"max_drawdown" msgpack:"max_drawdown"`
}

// PerformanceReport has one row per period, in input order
type PerformanceReport []PerformanceRow

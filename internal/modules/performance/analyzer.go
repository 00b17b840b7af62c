// Package performance derives annual return, volatility, Sharpe ratio and
// maximum drawdown from normalized NAV trajectories.
package performance

import (
	"github.com/aristath/cppi/internal/domain"
	"github.com/aristath/cppi/pkg/formulas"
)

// Analyzer aggregates period trajectories into a performance report
type Analyzer struct{}

// NewAnalyzer creates a new analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// DailyChanges returns (r[t-1] - r[t]) / r[t] for t = 1..n-1 of a trajectory.
// The sign convention is a backward change relative to the later value.
func DailyChanges(trajectory []float64) []float64 {
	if len(trajectory) < 2 {
		return []float64{}
	}
	changes := make([]float64, len(trajectory)-1)
	for t := 1; t < len(trajectory); t++ {
		changes[t-1] = (trajectory[t-1] - trajectory[t]) / trajectory[t]
	}
	return changes
}

// Analyze computes the statistics of one normalized trajectory. The
// volatility is annualized with the square root of tradingDays. A flat
// trajectory has zero volatility and its Sharpe ratio is NaN or ±Inf,
// reported as is.
func (a *Analyzer) Analyze(label string, normalized []float64, tradingDays int) domain.PerformanceRow {
	row := domain.PerformanceRow{Period: label}
	if len(normalized) == 0 {
		return row
	}

	row.AnnualReturn = normalized[len(normalized)-1]
	row.AnnualVolatility = formulas.AnnualizedVolatility(DailyChanges(normalized), tradingDays)
	row.Sharpe = (row.AnnualReturn - 1) / row.AnnualVolatility
	row.MaxDrawdown = formulas.MaxDrawdown(normalized)
	return row
}

// Report produces one row per period, preserving input order. Volatility is
// annualized with each period's own simulated day count.
func (a *Analyzer) Report(periods []*domain.PeriodResult) domain.PerformanceReport {
	report := make(domain.PerformanceReport, 0, len(periods))
	for _, p := range periods {
		report = append(report, a.Analyze(p.Label, p.Normalized, p.Parameters.TradingDaysSum()))
	}
	return report
}

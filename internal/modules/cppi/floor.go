// Package cppi implements the Constant Proportion Portfolio Insurance engine:
// the protection floor, the multiplier allocation rule and the day-by-day
// evolution of the risky and risk-free legs across simulated paths.
package cppi

import (
	"github.com/aristath/cppi/internal/domain"
	"github.com/aristath/cppi/pkg/formulas"
)

// FloorCalculator discounts the guaranteed terminal value back to a given day
type FloorCalculator struct {
	params domain.Parameters
}

// NewFloorCalculator creates a floor calculator for one parameter set
func NewFloorCalculator(params domain.Parameters) FloorCalculator {
	return FloorCalculator{params: params}
}

// RemainingDays is the number of trading days left in the period on day t,
// counting day t itself.
func (f FloorCalculator) RemainingDays(t int) int {
	return f.params.TradingDaysSum() - t + 1
}

// Floor returns the minimum portfolio value to preserve on day t (1-based).
// A zero growth factor divides to ±Inf and is returned as is.
func (f FloorCalculator) Floor(t int) float64 {
	growth := formulas.GrowthFactor(f.RemainingDays(t), f.params.RiskFreeDailyRate(), f.params.RateType)
	return f.params.GuaranteeRatio * f.params.InitialNAV / growth
}

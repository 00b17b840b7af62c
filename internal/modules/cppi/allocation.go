package cppi

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/aristath/cppi/internal/domain"
)

// AllocationEngine turns a NAV and a floor into a risky/risk-free split using
// the multiplier rule. All methods operate element-wise across paths and write
// into caller-provided destination slices of equal length.
type AllocationEngine struct {
	multiplier float64
	feeRate    float64
}

// NewAllocationEngine creates an allocation engine for one parameter set
func NewAllocationEngine(params domain.Parameters) AllocationEngine {
	return AllocationEngine{
		multiplier: params.RiskMultiplier,
		feeRate:    params.RiskFeeRate,
	}
}

// Exposure computes the pre-fee risky target max(0, m*(nav-floor)) into dst.
// The clamp happens before anything else is derived from the cushion.
func (e AllocationEngine) Exposure(dst, nav, floor []float64) {
	for i := range dst {
		dst[i] = math.Max(0, e.multiplier*(nav[i]-floor[i]))
	}
}

// Initial performs the first allocation of a period. There is no prior
// position, so the fee is charged on the full risky notional. The risk-free
// leg is sized from the pre-fee risky amount.
func (e AllocationEngine) Initial(risky, riskFree, nav, floor []float64) {
	e.Exposure(risky, nav, floor)
	floats.SubTo(riskFree, nav, risky)
	floats.Scale(1-e.feeRate, risky)
}

// Rebalance resets the split on a rebalance day. risky holds the position
// before adjustment on entry and the fee-adjusted target on return. The fee is
// charged on the traded amount only and is a pure drag on the risky leg: the
// risk-free leg is sized from the pre-fee target, so NAV shrinks by the fee.
func (e AllocationEngine) Rebalance(risky, riskFree, nav, floor []float64) {
	// riskFree holds the pre-fee target until the last step
	e.Exposure(riskFree, nav, floor)
	floats.Sub(risky, riskFree)
	for i, traded := range risky {
		risky[i] = math.Abs(traded)
	}
	floats.Scale(-e.feeRate, risky)
	floats.Add(risky, riskFree)
	floats.SubTo(riskFree, nav, riskFree)
}

// Liquidate zeroes every non-positive risky position. The risk-free leg takes
// the market NAV minus risky*fee, using the risky value before zeroing, so a
// negative position turns the fee term into a credit.
//
// held is the risky position each path carried into the day (nil when there
// was none). It returns the number of paths that held a positive position and
// lost it; paths already at zero are re-zeroed without being counted.
func (e AllocationEngine) Liquidate(risky, riskFree, nav, held []float64) int {
	liquidated := 0
	for i := range risky {
		if risky[i] <= 0 {
			if held != nil && held[i] > 0 {
				liquidated++
			}
			riskFree[i] = nav[i] - risky[i]*e.feeRate
			risky[i] = 0
		}
	}
	return liquidated
}

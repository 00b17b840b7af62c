package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample (n-1) standard deviation. Fewer than two
// observations have no defined sample deviation and yield NaN.
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return math.NaN()
	}
	return stat.StdDev(data, nil)
}

// AnnualizedVolatility scales the sample deviation of daily changes by the
// square root of the number of days in the period.
func AnnualizedVolatility(daily []float64, periodsPerYear int) float64 {
	return StdDev(daily) * math.Sqrt(float64(periodsPerYear))
}

package formulas

import "math"

// MaxDrawdown returns the largest relative peak-to-trough decline of a series.
//
// The trough is the first point with the deepest drawdown relative to the running
// maximum up to and including it. The peak is the first maximum strictly before
// that trough. A trough at index 0 means no drawdown is possible and yields 0.
//
// Example: [100, 90, 95, 80, 120] -> trough at 3, peak at 0 -> (100-80)/100 = 0.2
func MaxDrawdown(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}

	trough := 0
	worst := math.Inf(-1)
	runningMax := math.Inf(-1)
	for i, v := range series {
		if v > runningMax || i == 0 {
			runningMax = v
		}
		dd := (runningMax - v) / runningMax
		// NaN wins the argmax, matching first-NaN semantics of the usual array argmax.
		if math.IsNaN(dd) {
			if !math.IsNaN(worst) {
				worst = dd
				trough = i
			}
			continue
		}
		if dd > worst {
			worst = dd
			trough = i
		}
	}

	if trough == 0 {
		return 0
	}

	peak := argmax(series[:trough])
	return (series[peak] - series[trough]) / series[peak]
}

// argmax returns the index of the first maximum of a non-empty slice.
func argmax(values []float64) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}

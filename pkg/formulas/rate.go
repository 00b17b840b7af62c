// Package formulas holds the pure numeric building blocks shared by the simulator
// and the performance analyzer.
package formulas

import (
	"fmt"
	"math"
	"strings"
)

// RateConvention selects how a rate accrues over a number of days.
type RateConvention int

const (
	// SimpleRate accrues linearly: 1 + rate*days
	SimpleRate RateConvention = iota
	// CompoundRate accrues continuously: exp(rate*days)
	CompoundRate
)

// String returns the configuration name of the convention
func (c RateConvention) String() string {
	if c == CompoundRate {
		return "compound"
	}
	return "simple"
}

// ParseRateConvention accepts "simple"/"compound" as well as the numeric
// codes 0 and 1 used by older parameter files.
func ParseRateConvention(s string) (RateConvention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simple", "0", "":
		return SimpleRate, nil
	case "compound", "1":
		return CompoundRate, nil
	}
	return SimpleRate, fmt.Errorf("unknown rate type %q (want simple or compound)", s)
}

// MarshalText implements encoding.TextMarshaler
func (c RateConvention) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *RateConvention) UnmarshalText(text []byte) error {
	parsed, err := ParseRateConvention(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// GrowthFactor converts a per-day rate and a day count into a multiplicative
// growth factor. days == 0 yields exactly 1 under both conventions.
func GrowthFactor(days int, rate float64, convention RateConvention) float64 {
	if convention == CompoundRate {
		return math.Exp(rate * float64(days))
	}
	return 1 + rate*float64(days)
}

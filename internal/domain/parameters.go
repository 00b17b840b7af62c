package domain

import (
	"errors"
	"fmt"

	"github.com/aristath/cppi/pkg/formulas"
)

// ErrInvalidParameters is wrapped by every Parameters validation failure
var ErrInvalidParameters = errors.New("invalid simulation parameters")

// Default strategy parameters
const (
	DefaultTradingYears       = 1
	DefaultTradingDaysPerYear = 255
	DefaultRiskFreeAnnualRate = 0.04
	DefaultInitialNAV         = 10000.0
	DefaultRebalancePeriod    = 5 // days
	DefaultGuaranteeRatio     = 0.8
	DefaultRiskMultiplier     = 2.0
	DefaultRiskFeeRate        = 0.006
	DefaultPathCount          = 1
)

// Parameters is the immutable configuration of one simulated period.
// It is passed by value; derived quantities are methods rather than stored fields.
type Parameters struct {
	RateType           formulas.RateConvention `json:"rate_type" msgpack:"rate_type" yaml:"rate_type"`
	TradingYears       int                     `json:"trading_years" msgpack:"trading_years" yaml:"trading_years"`
	TradingDaysPerYear int                     `json:"trading_days_per_year" msgpack:"trading_days_per_year" yaml:"trading_days_per_year"`
	RiskFreeAnnualRate float64                 `json:"risk_free_annual_rate" msgpack:"risk_free_annual_rate" yaml:"risk_free_annual_rate"`
	InitialNAV         float64                 `json:"initial_nav" msgpack:"initial_nav" yaml:"initial_nav"`
	RebalancePeriod    int                     `json:"rebalance_period" msgpack:"rebalance_period" yaml:"rebalance_period"`
	GuaranteeRatio     float64                 `json:"guarantee_ratio" msgpack:"guarantee_ratio" yaml:"guarantee_ratio"`
	RiskMultiplier     float64                 `json:"risk_multiplier" msgpack:"risk_multiplier" yaml:"risk_multiplier"`
	RiskFeeRate        float64                 `json:"risk_fee_rate" msgpack:"risk_fee_rate" yaml:"risk_fee_rate"`
	PathCount          int                     `json:"path_count" msgpack:"path_count" yaml:"path_count"`
}

// DefaultParameters returns the stock CPPI configuration
func DefaultParameters() Parameters {
	return Parameters{
		RateType:           formulas.SimpleRate,
		TradingYears:       DefaultTradingYears,
		TradingDaysPerYear: DefaultTradingDaysPerYear,
		RiskFreeAnnualRate: DefaultRiskFreeAnnualRate,
		InitialNAV:         DefaultInitialNAV,
		RebalancePeriod:    DefaultRebalancePeriod,
		GuaranteeRatio:     DefaultGuaranteeRatio,
		RiskMultiplier:     DefaultRiskMultiplier,
		RiskFeeRate:        DefaultRiskFeeRate,
		PathCount:          DefaultPathCount,
	}
}

// TradingDaysSum is the number of simulated days in the period
func (p Parameters) TradingDaysSum() int {
	return p.TradingYears * p.TradingDaysPerYear
}

// RiskFreeDailyRate is the annual risk-free rate spread over the trading days of a year
func (p Parameters) RiskFreeDailyRate() float64 {
	return p.RiskFreeAnnualRate / float64(p.TradingDaysPerYear)
}

// WithTradingDaysPerYear returns a copy with the day count replaced
func (p Parameters) WithTradingDaysPerYear(days int) Parameters {
	p.TradingDaysPerYear = days
	return p
}

// Validate checks parameter ranges
func (p Parameters) Validate() error {
	switch {
	case p.TradingYears < 1:
		return fmt.Errorf("%w: trading years must be >= 1, got %d", ErrInvalidParameters, p.TradingYears)
	case p.TradingDaysPerYear < 1:
		return fmt.Errorf("%w: trading days per year must be >= 1, got %d", ErrInvalidParameters, p.TradingDaysPerYear)
	case p.InitialNAV <= 0:
		return fmt.Errorf("%w: initial NAV must be positive, got %v", ErrInvalidParameters, p.InitialNAV)
	case p.RebalancePeriod < 1:
		return fmt.Errorf("%w: rebalance period must be >= 1 day, got %d", ErrInvalidParameters, p.RebalancePeriod)
	case p.GuaranteeRatio <= 0 || p.GuaranteeRatio > 1:
		return fmt.Errorf("%w: guarantee ratio must be in (0, 1], got %v", ErrInvalidParameters, p.GuaranteeRatio)
	case p.RiskMultiplier <= 0:
		return fmt.Errorf("%w: risk multiplier must be positive, got %v", ErrInvalidParameters, p.RiskMultiplier)
	case p.RiskFeeRate < 0 || p.RiskFeeRate >= 1:
		return fmt.Errorf("%w: risk fee rate must be in [0, 1), got %v", ErrInvalidParameters, p.RiskFeeRate)
	case p.PathCount < 1:
		return fmt.Errorf("%w: path count must be >= 1, got %d", ErrInvalidParameters, p.PathCount)
	case p.RateType != formulas.SimpleRate && p.RateType != formulas.CompoundRate:
		return fmt.Errorf("%w: unknown rate type %d", ErrInvalidParameters, int(p.RateType))
	}
	return nil
}

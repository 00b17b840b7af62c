package cppi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/cppi/internal/domain"
	"github.com/aristath/cppi/internal/modules/performance"
	"github.com/aristath/cppi/internal/utils"
)

// ErrNoPeriods is returned when a run is requested without any return series
var ErrNoPeriods = errors.New("no periods to simulate")

// RunResult is the outcome of simulating every period of a run
type RunResult struct {
	Parameters domain.Parameters        `json:"parameters" msgpack:"parameters"`
	Periods    []*domain.PeriodResult   `json:"periods" msgpack:"periods"`
	Report     domain.PerformanceReport `json:"report" msgpack:"report"`
	Stats      []SimulationStats        `json:"-" msgpack:"-"`
	Duration   time.Duration            `json:"-" msgpack:"-"`
}

// Last returns the last processed period, the one exported and plotted
func (r *RunResult) Last() *domain.PeriodResult {
	if r == nil || len(r.Periods) == 0 {
		return nil
	}
	return r.Periods[len(r.Periods)-1]
}

// Observer receives measurements of simulated periods and finished runs
type Observer interface {
	ObservePeriod(d time.Duration, rebalances, liquidations int)
	ObserveRun(err error)
}

// Service simulates a sequence of independent periods and analyzes them
type Service struct {
	driver   PeriodDriver
	analyzer *performance.Analyzer
	observer Observer
	log      zerolog.Logger
}

// NewService creates a new CPPI service
func NewService(analyzer *performance.Analyzer, log zerolog.Logger) *Service {
	if analyzer == nil {
		analyzer = performance.NewAnalyzer()
	}
	return &Service{
		analyzer: analyzer,
		log:      log.With().Str("service", "cppi").Logger(),
	}
}

// WithObserver attaches an observer and returns the service
func (s *Service) WithObserver(o Observer) *Service {
	s.observer = o
	return s
}

// Run simulates each period in order with the given parameters. Each period
// gets its own trading-day count from its series. The context is checked
// between periods; a failing period aborts the run.
func (s *Service) Run(ctx context.Context, params domain.Parameters, periods []domain.ReturnSeries) (*RunResult, error) {
	result, err := s.run(ctx, params, periods)
	if s.observer != nil {
		s.observer.ObserveRun(err)
	}
	return result, err
}

func (s *Service) run(ctx context.Context, params domain.Parameters, periods []domain.ReturnSeries) (*RunResult, error) {
	if len(periods) == 0 {
		return nil, ErrNoPeriods
	}

	start := time.Now()
	result := &RunResult{
		Parameters: params,
		Periods:    make([]*domain.PeriodResult, 0, len(periods)),
		Stats:      make([]SimulationStats, 0, len(periods)),
	}

	var timings utils.DurationStats
	for i, series := range periods {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run cancelled before period %d: %w", i, err)
		}

		timer := utils.NewTimer("simulate_period", s.log)
		period, stats, err := s.driver.Run(params, series)
		elapsed := timer.Stop()
		timings.Add(elapsed)
		if err != nil {
			s.log.Error().Err(err).Str("period", series.Label).Msg("Period simulation failed")
			return nil, err
		}
		if s.observer != nil {
			s.observer.ObservePeriod(elapsed, stats.Rebalances, stats.Liquidations)
		}

		s.log.Debug().
			Str("period", series.Label).
			Int("days", period.Parameters.TradingDaysSum()).
			Int("paths", period.Parameters.PathCount).
			Int("rebalances", stats.Rebalances).
			Int("liquidations", stats.Liquidations).
			Float64("final_nav", period.NAV[len(period.NAV)-1]).
			Msg("Period simulated")

		result.Periods = append(result.Periods, period)
		result.Stats = append(result.Stats, stats)
	}

	timings.Log(s.log, "simulate_period")
	result.Report = s.analyzer.Report(result.Periods)
	result.Duration = time.Since(start)

	s.log.Info().
		Int("periods", len(result.Periods)).
		Str("rate_type", params.RateType.String()).
		Float64("guarantee_ratio", params.GuaranteeRatio).
		Float64("risk_multiplier", params.RiskMultiplier).
		Dur("duration", result.Duration).
		Msg("CPPI run completed")

	return result, nil
}

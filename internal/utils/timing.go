// Package utils holds small helpers shared by the simulator components.
package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// DefaultSlowThreshold is the duration above which a timed operation is logged as slow
const DefaultSlowThreshold = 5 * time.Second

// Timer measures the duration of one operation
type Timer struct {
	start time.Time
	name  string
	log   zerolog.Logger
	slow  time.Duration
}

// NewTimer creates a new timer with the given name
func NewTimer(name string, log zerolog.Logger) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
		log:   log,
		slow:  DefaultSlowThreshold,
	}
}

// WithSlowThreshold overrides the slow-operation threshold
func (t *Timer) WithSlowThreshold(d time.Duration) *Timer {
	t.slow = d
	return t
}

// Stop returns the elapsed time and warns if the operation was slow
func (t *Timer) Stop() time.Duration {
	duration := time.Since(t.start)

	if t.slow > 0 && duration > t.slow {
		t.log.Warn().
			Str("operation", t.name).
			Dur("duration", duration).
			Dur("threshold", t.slow).
			Msg("Slow operation detected")
	}

	return duration
}

// DurationStats aggregates the durations of repeated operations
type DurationStats struct {
	Count int
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
}

// Add records one duration
func (s *DurationStats) Add(d time.Duration) {
	if s.Count == 0 || d < s.Min {
		s.Min = d
	}
	if d > s.Max {
		s.Max = d
	}
	s.Count++
	s.Total += d
}

// Avg returns the mean duration, zero when nothing was recorded
func (s *DurationStats) Avg() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Log writes the aggregate at debug level
func (s *DurationStats) Log(log zerolog.Logger, operation string) {
	if s.Count == 0 {
		return
	}

	log.Debug().
		Str("operation", operation).
		Int("count", s.Count).
		Dur("total_duration", s.Total).
		Dur("avg_duration", s.Avg()).
		Dur("min_duration", s.Min).
		Dur("max_duration", s.Max).
		Msg("Timing summary")
}

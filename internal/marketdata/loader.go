package marketdata

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/cppi/internal/domain"
)

// Loader reads the risky and risk-free files and prepares simulation periods
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a new market data loader
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{
		log: log.With().Str("component", "marketdata").Logger(),
	}
}

// Load reads both files, aligns them on date and optionally splits the result
// into calendar years.
func (l *Loader) Load(riskyPath, riskFreePath string, splitByYear bool) ([]domain.ReturnSeries, error) {
	risky, err := LoadFile(riskyPath)
	if err != nil {
		return nil, fmt.Errorf("risky returns: %w", err)
	}
	riskFree, err := LoadFile(riskFreePath)
	if err != nil {
		return nil, fmt.Errorf("risk-free returns: %w", err)
	}

	label := strings.TrimSuffix(filepath.Base(riskyPath), filepath.Ext(riskyPath))
	aligned, err := Align(label, risky, riskFree)
	if err != nil {
		return nil, err
	}

	dropped := len(risky.Observations) + len(riskFree.Observations) - 2*len(aligned.Dates)
	l.log.Info().
		Int("risky_days", len(risky.Observations)).
		Int("risk_free_days", len(riskFree.Observations)).
		Int("aligned_days", len(aligned.Dates)).
		Int("dropped", dropped).
		Str("from", aligned.Dates[0].Format("2006-01-02")).
		Str("to", aligned.Dates[len(aligned.Dates)-1].Format("2006-01-02")).
		Msg("Loaded return series")

	if !splitByYear {
		return []domain.ReturnSeries{aligned}, nil
	}

	periods := SplitByYear(aligned)
	l.log.Debug().Int("periods", len(periods)).Msg("Split return series by calendar year")
	return periods, nil
}

// Package reporting exports simulation runs: CSV tables, a JSON document, a
// PNG chart of the NAV trajectory, an XLSX workbook and a msgpack archive that
// can be reloaded.
package reporting

import (
	"time"

	"github.com/aristath/cppi/internal/domain"
	"github.com/aristath/cppi/internal/modules/cppi"
)

// Snapshot is the exportable view of a run: the report table plus the daily
// NAV trajectory of the last processed period.
type Snapshot struct {
	RunID      string                   `json:"run_id" msgpack:"run_id"`
	CreatedAt  time.Time                `json:"created_at" msgpack:"created_at"`
	Parameters domain.Parameters        `json:"parameters" msgpack:"parameters"`
	Report     domain.PerformanceReport `json:"report" msgpack:"report"`
	LastPeriod *domain.PeriodResult     `json:"last_period,omitempty" msgpack:"last_period,omitempty"`
}

// NewSnapshot builds a snapshot from a finished run
func NewSnapshot(runID string, result *cppi.RunResult) Snapshot {
	return Snapshot{
		RunID:      runID,
		CreatedAt:  time.Now().UTC(),
		Parameters: result.Parameters,
		Report:     result.Report,
		LastPeriod: result.Last(),
	}
}

package reporting

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/aristath/cppi/internal/domain"
)

var (
	reportHeader = []string{"period", "annual_return", "annual_volatility", "sharpe", "max_drawdown"}
	navHeader    = []string{"day", "date", "nav", "normalized"}
)

// WriteReportCSV writes one row per period
func WriteReportCSV(w io.Writer, report domain.PerformanceReport) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(reportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range report {
		rec := []string{
			row.Period,
			formatFloat(row.AnnualReturn),
			formatFloat(row.AnnualVolatility),
			formatFloat(row.Sharpe),
			formatFloat(row.MaxDrawdown),
		}
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteNAVCSV writes the daily NAV of a period. The date column is empty
// when the period carries no calendar.
func WriteNAVCSV(w io.Writer, period *domain.PeriodResult) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(navHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, nav := range period.NAV {
		date := ""
		if i < len(period.Dates) {
			date = period.Dates[i].Format("2006-01-02")
		}
		rec := []string{strconv.Itoa(i + 1), date, formatFloat(nav), formatFloat(period.Normalized[i])}
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

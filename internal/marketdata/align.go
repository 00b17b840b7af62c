package marketdata

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aristath/cppi/internal/domain"
)

// ErrNoOverlap is returned when the two files share no trading day
var ErrNoOverlap = errors.New("risky and risk-free series share no dates")

// Align inner-joins the risky and risk-free returns on date. Days present in
// only one file are dropped; the result is in chronological order.
func Align(label string, risky, riskFree DailyReturns) (domain.ReturnSeries, error) {
	free := make(map[time.Time]float64, len(riskFree.Observations))
	for _, o := range riskFree.Observations {
		free[o.Date] = o.Return
	}

	series := domain.ReturnSeries{Label: label}
	for _, o := range risky.Observations {
		rf, ok := free[o.Date]
		if !ok {
			continue
		}
		series.Dates = append(series.Dates, o.Date)
		series.Risky = append(series.Risky, o.Return)
		series.RiskFree = append(series.RiskFree, rf)
	}

	if len(series.Dates) == 0 {
		return domain.ReturnSeries{}, fmt.Errorf("%s vs %s: %w", risky.Name, riskFree.Name, ErrNoOverlap)
	}
	return series, nil
}

// SplitByYear cuts an aligned series into one period per calendar year,
// labelled by the year. A series without dates is returned unchanged.
func SplitByYear(series domain.ReturnSeries) []domain.ReturnSeries {
	if len(series.Dates) == 0 {
		return []domain.ReturnSeries{series}
	}

	var periods []domain.ReturnSeries
	start := 0
	for i := 1; i <= len(series.Dates); i++ {
		if i < len(series.Dates) && series.Dates[i].Year() == series.Dates[start].Year() {
			continue
		}
		periods = append(periods, domain.ReturnSeries{
			Label:    strconv.Itoa(series.Dates[start].Year()),
			Dates:    series.Dates[start:i],
			Risky:    series.Risky[start:i],
			RiskFree: series.RiskFree[start:i],
		})
		start = i
	}
	return periods
}

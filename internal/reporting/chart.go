package reporting

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/vicanso/go-charts/v2"

	"github.com/aristath/cppi/internal/domain"
)

// ErrEmptyPeriod is returned when there is nothing to plot
var ErrEmptyPeriod = errors.New("period has no NAV values")

// RenderNAVChart draws the daily NAV of a period as a PNG line chart
func RenderNAVChart(period *domain.PeriodResult) ([]byte, error) {
	if period == nil || len(period.NAV) == 0 {
		return nil, ErrEmptyPeriod
	}

	x := make([]string, len(period.NAV))
	for i := range period.NAV {
		if i < len(period.Dates) {
			x[i] = period.Dates[i].Format("2006-01-02")
		} else {
			x[i] = strconv.Itoa(i + 1)
		}
	}

	yMin, yMax := math.Inf(1), math.Inf(-1)
	for _, v := range period.NAV {
		yMin = math.Min(yMin, v)
		yMax = math.Max(yMax, v)
	}
	pad := (yMax - yMin) * 0.05
	if pad < yMax*0.002 {
		pad = yMax * 0.002
	}
	if pad <= 0 {
		pad = 1
	}
	yMin -= pad
	yMax += pad

	split := 10
	if len(x) < split {
		split = len(x)
	}

	title := "NAV"
	if period.Label != "" {
		title = "NAV • " + period.Label
	}

	painter, err := charts.LineRender([][]float64{period.NAV},
		charts.TitleTextOptionFunc(title, fmt.Sprintf("guarantee %.0f%% • multiplier %g",
			period.Parameters.GuaranteeRatio*100, period.Parameters.RiskMultiplier)),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: x, BoundaryGap: charts.FalseFlag(), SplitNumber: split}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(1000),
		charts.HeightOptionFunc(500),
	)
	if err != nil {
		return nil, fmt.Errorf("render nav chart: %w", err)
	}
	return painter.Bytes()
}

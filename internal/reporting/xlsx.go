package reporting

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/aristath/cppi/internal/domain"
)

// Sheet names of the exported workbook
const (
	ReportSheet = "report"
	NAVSheet    = "nav"
)

// WriteXLSX writes the snapshot as a workbook with a report sheet and, when
// the run has a last period, a sheet with its daily NAV.
func WriteXLSX(w io.Writer, s Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ReportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	rows := make([][]interface{}, 0, len(s.Report)+1)
	rows = append(rows, toRow(reportHeader))
	for _, r := range s.Report {
		rows = append(rows, []interface{}{
			r.Period,
			cellFloat(r.AnnualReturn),
			cellFloat(r.AnnualVolatility),
			cellFloat(r.Sharpe),
			cellFloat(r.MaxDrawdown),
		})
	}
	if err := setRows(f, ReportSheet, rows); err != nil {
		return err
	}

	if p := s.LastPeriod; p != nil {
		if _, err := f.NewSheet(NAVSheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", NAVSheet, err)
		}
		rows = rows[:0]
		rows = append(rows, toRow(navHeader))
		for i, nav := range p.NAV {
			date := ""
			if i < len(p.Dates) {
				date = p.Dates[i].Format("2006-01-02")
			}
			rows = append(rows, []interface{}{i + 1, date, cellFloat(nav), cellFloat(normalizedAt(p, i))})
		}
		if err := setRows(f, NAVSheet, rows); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// cellFloat keeps finite values numeric. Spreadsheet cells cannot hold NaN or
// infinities, so those are written as text.
func cellFloat(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return v
}

func normalizedAt(p *domain.PeriodResult, i int) float64 {
	if i < len(p.Normalized) {
		return p.Normalized[i]
	}
	return math.NaN()
}

func toRow(header []string) []interface{} {
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	return row
}

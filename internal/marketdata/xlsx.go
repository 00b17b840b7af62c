package marketdata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// maxExcelSerial is the serial of 9999-12-31, the last date Excel can store
const maxExcelSerial = 2958465

// LoadFile reads a daily return file, choosing the format by extension:
// .xlsx/.xlsm workbooks, anything else as CSV.
func LoadFile(path string) (DailyReturns, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return LoadXLSX(path)
	default:
		return LoadCSV(path)
	}
}

// LoadXLSX reads a daily return workbook from disk
func LoadXLSX(path string) (DailyReturns, error) {
	f, err := os.Open(path)
	if err != nil {
		return DailyReturns{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	d, err := ReadXLSX(f, path)
	if err != nil {
		return DailyReturns{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return d, nil
}

// ReadXLSX parses the first sheet of a workbook with the same header rules as
// ReadCSV. Cells are read raw, so returns keep full precision regardless of
// their number format, and date cells arrive as Excel serials or as the
// numeric yyyymmdd form.
func ReadXLSX(r io.Reader, name string) (DailyReturns, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return DailyReturns{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return DailyReturns{}, fmt.Errorf("workbook has no sheets")
	}
	rows, err := wb.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return DailyReturns{}, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) > 0 {
		if dateIdx := columnIndex(rows[0], dateColumns); dateIdx >= 0 {
			date1904 := false
			if props, err := wb.GetWorkbookProps(); err == nil && props.Date1904 != nil {
				date1904 = *props.Date1904
			}
			convertSerialDates(rows[1:], dateIdx, date1904)
		}
	}

	return readRows(&sliceRows{rows: rows}, name)
}

// convertSerialDates rewrites Excel date serials in the date column as
// ISO dates. Values that already parse as dates (e.g. 20200102) are kept.
func convertSerialDates(rows [][]string, col int, date1904 bool) {
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[col])
		if _, err := parseDate(cell); err == nil {
			continue
		}
		serial, err := strconv.ParseFloat(cell, 64)
		if err != nil || serial <= 0 || serial > maxExcelSerial {
			continue
		}
		if t, err := excelize.ExcelDateToTime(serial, date1904); err == nil {
			row[col] = t.Format("2006-01-02")
		}
	}
}

// sliceRows adapts an in-memory sheet to rowReader
type sliceRows struct {
	rows [][]string
	next int
}

func (s *sliceRows) Read() ([]string, error) {
	if s.next >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.next]
	s.next++
	return row, nil
}

// Package marketdata loads daily return files and turns them into aligned
// per-period return series for the simulator.
package marketdata

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrMissingColumn is returned when a header lacks a date or return column
	ErrMissingColumn = errors.New("missing column")
	// ErrDuplicateDate is returned when a file lists the same day twice
	ErrDuplicateDate = errors.New("duplicate date")
	// ErrNonFiniteReturn is returned for NaN or infinite return cells
	ErrNonFiniteReturn = errors.New("non-finite return")
)

// Accepted header names, compared case-insensitively
var (
	dateColumns   = []string{"date", "day", "日期"}
	returnColumns = []string{"rate", "return", "random_ret", "ret"}
	dateLayouts   = []string{"20060102", "2006-01-02", "2006/01/02", "2006-01-02 15:04:05"}
)

// Observation is one day's fractional return
type Observation struct {
	Date   time.Time
	Return float64
}

// DailyReturns is a named, chronologically sorted list of observations
type DailyReturns struct {
	Name         string
	Observations []Observation
}

// Returns returns the return values in date order
func (d DailyReturns) Returns() []float64 {
	out := make([]float64, len(d.Observations))
	for i, o := range d.Observations {
		out[i] = o.Return
	}
	return out
}

// LoadCSV reads a daily return file from disk
func LoadCSV(path string) (DailyReturns, error) {
	f, err := os.Open(path)
	if err != nil {
		return DailyReturns{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	d, err := ReadCSV(bufio.NewReader(f), path)
	if err != nil {
		return DailyReturns{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return d, nil
}

// ReadCSV parses a CSV with a header row naming a date column and a return
// column. Extra columns are ignored. Returns may carry a trailing "%".
func ReadCSV(r io.Reader, name string) (DailyReturns, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return readRows(reader, name)
}

// rowReader yields one record per call and io.EOF at the end
type rowReader interface {
	Read() ([]string, error)
}

// readRows parses a header row followed by date/return records
func readRows(reader rowReader, name string) (DailyReturns, error) {
	header, err := reader.Read()
	if err != nil {
		return DailyReturns{}, fmt.Errorf("failed to read header: %w", err)
	}
	dateIdx := columnIndex(header, dateColumns)
	if dateIdx < 0 {
		return DailyReturns{}, fmt.Errorf("%w: date (one of %s)", ErrMissingColumn, strings.Join(dateColumns, ", "))
	}
	retIdx := columnIndex(header, returnColumns)
	if retIdx < 0 {
		return DailyReturns{}, fmt.Errorf("%w: return (one of %s)", ErrMissingColumn, strings.Join(returnColumns, ", "))
	}

	out := DailyReturns{Name: name}
	seen := make(map[time.Time]struct{})
	line := 1
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return DailyReturns{}, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) <= dateIdx || len(rec) <= retIdx || strings.TrimSpace(rec[dateIdx]) == "" {
			continue
		}

		date, err := parseDate(rec[dateIdx])
		if err != nil {
			return DailyReturns{}, fmt.Errorf("line %d: %w", line, err)
		}
		ret, err := parseReturn(rec[retIdx])
		if err != nil {
			return DailyReturns{}, fmt.Errorf("line %d: %w", line, err)
		}
		if _, dup := seen[date]; dup {
			return DailyReturns{}, fmt.Errorf("line %d: %w %s", line, ErrDuplicateDate, date.Format("2006-01-02"))
		}
		seen[date] = struct{}{}

		out.Observations = append(out.Observations, Observation{Date: date, Return: ret})
	}

	sort.Slice(out.Observations, func(i, j int) bool {
		return out.Observations[i].Date.Before(out.Observations[j].Date)
	})
	return out, nil
}

func columnIndex(header []string, names []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for _, n := range names {
			if h == n {
				return i
			}
		}
	}
	return -1
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func parseReturn(s string) (float64, error) {
	s = strings.TrimSpace(s)
	scale := 1.0
	if strings.HasSuffix(s, "%") {
		s = strings.TrimSuffix(s, "%")
		scale = 0.01
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid return %q: %w", s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrNonFiniteReturn, s)
	}
	return v * scale, nil
}

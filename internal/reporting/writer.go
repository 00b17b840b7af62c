package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Artifacts lists the files produced for one run
type Artifacts struct {
	ReportCSV string
	NAVCSV    string
	JSON      string
	Chart     string
	Archive   string
	Workbook  string
}

// Writer exports snapshots into a directory
type Writer struct {
	dir string
	log zerolog.Logger
}

// NewWriter creates a writer rooted at dir
func NewWriter(dir string, log zerolog.Logger) *Writer {
	return &Writer{
		dir: dir,
		log: log.With().Str("component", "reporting").Logger(),
	}
}

// WriteAll writes every artifact of a run. Files are named after the run ID.
// A chart rendering failure is logged and skipped; the tabular outputs are
// what downstream tooling depends on.
func (w *Writer) WriteAll(s Snapshot) (Artifacts, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return Artifacts{}, fmt.Errorf("create output dir: %w", err)
	}

	base := filepath.Join(w.dir, "cppi-"+s.RunID)
	a := Artifacts{
		ReportCSV: base + "-report.csv",
		JSON:      base + ".json",
		Archive:   base + ".msgpack",
		Workbook:  base + ".xlsx",
	}

	if err := writeFile(a.ReportCSV, func(f io.Writer) error { return WriteReportCSV(f, s.Report) }); err != nil {
		return Artifacts{}, err
	}
	if err := writeFile(a.JSON, func(f io.Writer) error { return writeJSON(f, s) }); err != nil {
		return Artifacts{}, err
	}
	if err := writeFile(a.Archive, func(f io.Writer) error { return EncodeArchive(f, s) }); err != nil {
		return Artifacts{}, err
	}
	if err := writeFile(a.Workbook, func(f io.Writer) error { return WriteXLSX(f, s) }); err != nil {
		return Artifacts{}, err
	}

	if s.LastPeriod != nil {
		a.NAVCSV = base + "-nav.csv"
		if err := writeFile(a.NAVCSV, func(f io.Writer) error { return WriteNAVCSV(f, s.LastPeriod) }); err != nil {
			return Artifacts{}, err
		}

		png, err := RenderNAVChart(s.LastPeriod)
		if err != nil {
			w.log.Warn().Err(err).Msg("Failed to render NAV chart")
		} else {
			a.Chart = base + "-nav.png"
			if err := os.WriteFile(a.Chart, png, 0644); err != nil {
				return Artifacts{}, fmt.Errorf("write file %s: %w", a.Chart, err)
			}
		}
	}

	w.log.Info().
		Str("run_id", s.RunID).
		Str("dir", w.dir).
		Msg("Run artifacts written")
	return a, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	return nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write file %s: %w", path, err)
	}
	return f.Close()
}

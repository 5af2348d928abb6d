// Package storage persists normalized tables: delimited text files per
// (symbol, kind), plus an optional SQLite archive of every written row.
package storage

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rewired-gh/tickerhist/internal/models"
)

// floatDigits bounds the significant digits written for price cells, to
// keep files compact instead of spelling out full float precision.
const floatDigits = 10

// CSVSink writes tables as CSV files under a fixed output directory.
type CSVSink struct {
	dir string
}

// NewCSVSink creates the output directory if needed and returns a sink
// writing into it. An empty dir means the current directory.
func NewCSVSink(dir string) (*CSVSink, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &CSVSink{dir: dir}, nil
}

// EventFileName returns the deterministic file name for an event table.
func EventFileName(symbol string, kind models.Kind) string {
	return fmt.Sprintf("%s_%s.csv", symbol, kind.FileStem())
}

// PriceFileName returns the deterministic file name for a price table. The
// sampling interval is always part of the name; the actions suffix only
// when action columns were requested.
func PriceFileName(symbol, interval string, actions bool) string {
	suffix := ""
	if actions {
		suffix = "_actions"
	}
	return fmt.Sprintf("%s_prices_%s%s.csv", symbol, interval, suffix)
}

// WriteEvents writes an event table and returns the path written.
func (s *CSVSink) WriteEvents(symbol string, kind models.Kind, t models.EventTable) (string, error) {
	rows := make([][]string, 0, t.Rows()+1)
	rows = append(rows, []string{"date", t.Column})
	for _, r := range t.Records {
		rows = append(rows, []string{r.Date.String(), r.Value.String()})
	}
	return s.write(EventFileName(symbol, kind), rows)
}

// WritePrices writes a standardized price table and returns the path
// written.
func (s *CSVSink) WritePrices(symbol, interval string, actions bool, t models.PriceTable) (string, error) {
	header := append([]string{"date"}, t.ColumnNames()...)
	rows := make([][]string, 0, t.Rows()+1)
	rows = append(rows, header)
	for i, d := range t.Dates {
		row := make([]string, 0, len(header))
		row = append(row, d.String())
		for _, c := range t.Columns {
			row = append(row, formatCell(c.Values[i]))
		}
		rows = append(rows, row)
	}
	return s.write(PriceFileName(symbol, interval, actions), rows)
}

func (s *CSVSink) write(name string, rows [][]string) (string, error) {
	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

// formatCell renders a price cell with bounded significant digits. Missing
// cells (NaN) come out empty.
func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', floatDigits, 64)
}

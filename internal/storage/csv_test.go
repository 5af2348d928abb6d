package storage

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rewired-gh/tickerhist/internal/models"
)

func newTestSink(t *testing.T) (*CSVSink, string) {
	t.Helper()
	dir := t.TempDir()
	sink, err := NewCSVSink(dir)
	if err != nil {
		t.Fatalf("NewCSVSink: %v", err)
	}
	return sink, dir
}

func TestFileNames(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"dividends", EventFileName("SPY", models.Dividends), "SPY_dividends.csv"},
		{"splits", EventFileName("AAPL", models.Splits), "AAPL_splits.csv"},
		{"capital gains", EventFileName("FTABX", models.CapitalGains), "FTABX_capital_gains.csv"},
		{"prices with actions", PriceFileName("SPY", "1d", true), "SPY_prices_1d_actions.csv"},
		{"prices without actions", PriceFileName("SPY", "1wk", false), "SPY_prices_1wk.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("file name = %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestWriteEvents(t *testing.T) {
	sink, dir := newTestSink(t)
	table := models.EventTable{
		Column: "dividend",
		Records: []models.EventRecord{
			{Date: models.MustParseDate("2020-03-20"), Value: decimal.NewFromFloat(0.25)},
			{Date: models.MustParseDate("2020-06-19"), Value: decimal.NewFromFloat(0.3)},
		},
	}

	path, err := sink.WriteEvents("SPY", models.Dividends, table)
	if err != nil {
		t.Fatalf("WriteEvents: %v", err)
	}
	if filepath.Base(path) != "SPY_dividends.csv" {
		t.Errorf("path = %q, want SPY_dividends.csv", path)
	}

	data, err := os.ReadFile(filepath.Join(dir, "SPY_dividends.csv"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "date,dividend\n2020-03-20,0.25\n2020-06-19,0.3\n"
	if string(data) != want {
		t.Errorf("file content = %q, want %q", data, want)
	}
}

func TestWritePrices(t *testing.T) {
	sink, dir := newTestSink(t)
	table := models.PriceTable{
		Dates: []models.Date{models.MustParseDate("2020-01-02"), models.MustParseDate("2020-01-03")},
		Columns: []models.PriceColumn{
			{Label: models.NewLabel("Open"), Values: []float64{323.5400085449219, math.NaN()}},
			{Label: models.NewLabel("Volume"), Values: []float64{59151200, 77709700}},
		},
	}

	if _, err := sink.WritePrices("SPY", "1d", true, table); err != nil {
		t.Fatalf("WritePrices: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "SPY_prices_1d_actions.csv"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3: %q", len(lines), data)
	}
	if lines[0] != "date,Open,Volume" {
		t.Errorf("header = %q, want %q", lines[0], "date,Open,Volume")
	}
	// 10 significant digits, not full float precision
	if lines[1] != "2020-01-02,323.5400085,59151200" {
		t.Errorf("row = %q, want %q", lines[1], "2020-01-02,323.5400085,59151200")
	}
	// NaN cells come out empty
	if lines[2] != "2020-01-03,,77709700" {
		t.Errorf("row = %q, want %q", lines[2], "2020-01-03,,77709700")
	}
}

func TestNewCSVSinkCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if _, err := NewCSVSink(dir); err != nil {
		t.Fatalf("NewCSVSink: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("output directory not created: %v", err)
	}
}

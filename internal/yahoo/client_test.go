package yahoo

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rewired-gh/tickerhist/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

// ts returns the Unix timestamp of midnight UTC for an ISO date.
func ts(t *testing.T, date string) int64 {
	t.Helper()
	return models.MustParseDate(date).Unix()
}

func TestEventsDividends(t *testing.T) {
	var gotPath, gotEvents string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotEvents = r.URL.Query().Get("events")
		w.Write([]byte(`{"chart":{"result":[{
			"timestamp":[],
			"events":{"dividends":{
				"a":{"amount":0.25,"date":` + itoa(ts(t, "2020-03-20")) + `},
				"b":{"amount":0.30,"date":` + itoa(ts(t, "2020-06-19")) + `}
			}},
			"indicators":{"quote":[{}]}
		}],"error":null}}`))
	})

	records, err := client.Events(context.Background(), "SPY", models.Dividends, models.Range{})
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if gotPath != "/v8/finance/chart/SPY" {
		t.Errorf("path = %q, want /v8/finance/chart/SPY", gotPath)
	}
	if gotEvents != "div" {
		t.Errorf("events param = %q, want div", gotEvents)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Value)
	}
	if want := decimal.NewFromFloat(0.55); !total.Equal(want) {
		t.Errorf("total = %v, want %v", total, want)
	}
}

func TestEventsSplitsRatio(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{
			"events":{"splits":{
				"a":{"numerator":4,"denominator":1,"date":` + itoa(ts(t, "2020-08-31")) + `},
				"b":{"numerator":1,"denominator":0,"date":` + itoa(ts(t, "2021-01-04")) + `}
			}},
			"indicators":{"quote":[{}]}
		}],"error":null}}`))
	})

	records, err := client.Events(context.Background(), "AAPL", models.Splits, models.Range{})
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	byDate := map[models.Date]decimal.Decimal{}
	for _, r := range records {
		byDate[r.Date] = r.Value
	}
	if got := byDate[models.MustParseDate("2020-08-31")]; !got.Equal(decimal.NewFromInt(4)) {
		t.Errorf("4:1 split ratio = %v, want 4", got)
	}
	// a zero denominator degrades to zero, which pruning drops downstream
	if got := byDate[models.MustParseDate("2021-01-04")]; !got.IsZero() {
		t.Errorf("zero-denominator ratio = %v, want 0", got)
	}
}

func TestEventsProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	if _, err := client.Events(context.Background(), "NOPE", models.Dividends, models.Range{}); err == nil {
		t.Fatal("expected error for status 404")
	}
}

func TestEventsChartError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	})
	if _, err := client.Events(context.Background(), "NOPE", models.Dividends, models.Range{}); err == nil {
		t.Fatal("expected error from chart error payload")
	}
}

func TestPricesTwoLevelColumns(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{
			"timestamp":[` + itoa(ts(t, "2020-01-02")) + `,` + itoa(ts(t, "2020-01-03")) + `],
			"indicators":{
				"quote":[{"open":[100,101],"high":[102,103],"low":[99,100],"close":[101,102],"volume":[1000,null]}],
				"adjclose":[{"adjclose":[95,96]}]
			}
		}],"error":null}}`))
	})

	table, err := client.Prices(context.Background(), "SPY", models.Range{}, "1d", false, false)
	if err != nil {
		t.Fatalf("Prices: %v", err)
	}
	if table.Rows() != 2 {
		t.Fatalf("Rows() = %d, want 2", table.Rows())
	}
	if !table.MultiLevel() {
		t.Error("price table should carry two-level labels before standardization")
	}
	for _, c := range table.Columns {
		if c.Label.Inner != "SPY" {
			t.Errorf("column %v inner label = %q, want SPY", c.Label, c.Label.Inner)
		}
	}
	want := []string{"Open|SPY", "High|SPY", "Low|SPY", "Close|SPY", "Adj Close|SPY", "Volume|SPY"}
	got := table.ColumnNames()
	if len(got) != len(want) {
		t.Fatalf("columns = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, got[i], want[i])
		}
	}
	// null JSON cell becomes NaN
	volume := table.Columns[5].Values
	if !math.IsNaN(volume[1]) {
		t.Errorf("null volume cell = %v, want NaN", volume[1])
	}
}

func TestPricesAdjustFoldsAdjClose(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{
			"timestamp":[` + itoa(ts(t, "2020-01-02")) + `],
			"indicators":{
				"quote":[{"open":[100],"high":[110],"low":[90],"close":[100],"volume":[500]}],
				"adjclose":[{"adjclose":[50]}]
			}
		}],"error":null}}`))
	})

	table, err := client.Prices(context.Background(), "SPY", models.Range{}, "1d", true, false)
	if err != nil {
		t.Fatalf("Prices: %v", err)
	}
	for _, c := range table.Columns {
		if c.Label.Outer == "Adj Close" {
			t.Error("adjusted table should not carry an Adj Close column")
		}
	}
	byField := map[string]float64{}
	for _, c := range table.Columns {
		byField[c.Label.Outer] = c.Values[0]
	}
	if byField["Close"] != 50 {
		t.Errorf("Close = %v, want 50", byField["Close"])
	}
	if byField["Open"] != 50 || byField["High"] != 55 || byField["Low"] != 45 {
		t.Errorf("OHL = %v/%v/%v, want 50/55/45", byField["Open"], byField["High"], byField["Low"])
	}
}

func TestPricesActionsColumns(t *testing.T) {
	var gotEvents string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotEvents = r.URL.Query().Get("events")
		w.Write([]byte(`{"chart":{"result":[{
			"timestamp":[` + itoa(ts(t, "2020-03-19")) + `,` + itoa(ts(t, "2020-03-20")) + `],
			"events":{"dividends":{"a":{"amount":1.5,"date":` + itoa(ts(t, "2020-03-20")) + `}}},
			"indicators":{"quote":[{"open":[1,2],"high":[1,2],"low":[1,2],"close":[1,2],"volume":[10,20]}],
				"adjclose":[{"adjclose":[1,2]}]}
		}],"error":null}}`))
	})

	table, err := client.Prices(context.Background(), "SPY", models.Range{}, "1d", false, true)
	if err != nil {
		t.Fatalf("Prices: %v", err)
	}
	if gotEvents != "div,split,capitalGain" {
		t.Errorf("events param = %q, want div,split,capitalGain", gotEvents)
	}
	byField := map[string][]float64{}
	for _, c := range table.Columns {
		byField[c.Label.Outer] = c.Values
	}
	div, ok := byField["Dividends"]
	if !ok {
		t.Fatalf("no Dividends column in %v", table.ColumnNames())
	}
	if div[0] != 0 || div[1] != 1.5 {
		t.Errorf("Dividends = %v, want [0 1.5]", div)
	}
	if _, ok := byField["Stock Splits"]; !ok {
		t.Error("no Stock Splits column")
	}
	if _, ok := byField["Capital Gains"]; !ok {
		t.Error("no Capital Gains column")
	}
}

func TestPricesEmptyResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"timestamp":[],"indicators":{"quote":[{}]}}],"error":null}}`))
	})
	table, err := client.Prices(context.Background(), "SPY", models.Range{}, "1d", false, false)
	if err != nil {
		t.Fatalf("Prices: %v", err)
	}
	if table.Rows() != 0 {
		t.Errorf("Rows() = %d, want 0", table.Rows())
	}
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

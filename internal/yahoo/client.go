// Package yahoo provides a client for the Yahoo Finance v8 chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rewired-gh/tickerhist/internal/models"
)

// DefaultBaseURL is the public chart endpoint host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Client fetches event series and price bars for one symbol at a time.
// Each fetch is a single blocking GET with no retries and no caching; a
// failed call surfaces as an error for the caller to degrade on.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a chart API client. An empty baseURL selects the
// public endpoint.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// chartResponse mirrors the v8 chart payload, limited to the fields used.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Timestamp []int64 `json:"timestamp"`
	Events    struct {
		Dividends    map[string]dividendEvent `json:"dividends"`
		Splits       map[string]splitEvent    `json:"splits"`
		CapitalGains map[string]gainEvent     `json:"capitalGains"`
	} `json:"events"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

type dividendEvent struct {
	Amount float64 `json:"amount"`
	Date   int64   `json:"date"`
}

type splitEvent struct {
	Numerator   float64 `json:"numerator"`
	Denominator float64 `json:"denominator"`
	Date        int64   `json:"date"`
}

type gainEvent struct {
	Amount float64 `json:"amount"`
	Date   int64   `json:"date"`
}

// Events fetches the sparse series for one event kind of one symbol. The
// returned records are in provider order: not necessarily sorted, exactly
// as decoded. Normalization is the caller's job.
func (c *Client) Events(ctx context.Context, symbol string, kind models.Kind, rng models.Range) ([]models.EventRecord, error) {
	eventParam := map[models.Kind]string{
		models.Dividends:    "div",
		models.Splits:       "split",
		models.CapitalGains: "capitalGain",
	}[kind]
	if eventParam == "" {
		return nil, fmt.Errorf("kind %v has no event series", kind)
	}

	result, err := c.chart(ctx, symbol, rng, "1d", eventParam)
	if err != nil {
		return nil, err
	}

	var records []models.EventRecord
	for _, d := range result.Events.Dividends {
		records = append(records, models.EventRecord{
			Date:  models.DateOf(time.Unix(d.Date, 0)),
			Value: decimal.NewFromFloat(d.Amount),
		})
	}
	for _, s := range result.Events.Splits {
		records = append(records, models.EventRecord{
			Date:  models.DateOf(time.Unix(s.Date, 0)),
			Value: splitRatio(s),
		})
	}
	for _, g := range result.Events.CapitalGains {
		records = append(records, models.EventRecord{
			Date:  models.DateOf(time.Unix(g.Date, 0)),
			Value: decimal.NewFromFloat(g.Amount),
		})
	}
	return records, nil
}

// splitRatio converts a numerator/denominator pair into a single ratio,
// e.g. a 4:1 split becomes 4. A zero denominator yields zero, which the
// zero pruning downstream discards.
func splitRatio(s splitEvent) decimal.Decimal {
	if s.Denominator == 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(s.Numerator).Div(decimal.NewFromFloat(s.Denominator))
}

// Prices fetches OHLCV bars for one symbol. The returned table carries
// two-level column labels pairing each field with the symbol, the shape a
// batch-capable download produces even for a single symbol. With adjust
// set, open/high/low/close are scaled to the adjusted close and no
// "Adj Close" column is emitted. With actions set, dividend, split, and
// capital-gain columns are merged onto the trading dates, zero elsewhere.
func (c *Client) Prices(ctx context.Context, symbol string, rng models.Range, interval string, adjust, actions bool) (models.PriceTable, error) {
	events := ""
	if actions {
		events = "div,split,capitalGain"
	}
	result, err := c.chart(ctx, symbol, rng, interval, events)
	if err != nil {
		return models.PriceTable{}, err
	}
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return models.PriceTable{}, nil
	}

	n := len(result.Timestamp)
	dates := make([]models.Date, n)
	for i, ts := range result.Timestamp {
		dates[i] = models.DateOf(time.Unix(ts, 0))
	}

	quote := result.Indicators.Quote[0]
	open := cells(quote.Open, n)
	high := cells(quote.High, n)
	low := cells(quote.Low, n)
	closeC := cells(quote.Close, n)
	volume := cells(quote.Volume, n)

	var adjClose []float64
	if len(result.Indicators.AdjClose) > 0 {
		adjClose = cells(result.Indicators.AdjClose[0].AdjClose, n)
	}

	if adjust && adjClose != nil {
		for i := 0; i < n; i++ {
			if closeC[i] == 0 || math.IsNaN(closeC[i]) || math.IsNaN(adjClose[i]) {
				continue
			}
			factor := adjClose[i] / closeC[i]
			open[i] *= factor
			high[i] *= factor
			low[i] *= factor
		}
		closeC = adjClose
		adjClose = nil
	}

	col := func(field string, values []float64) models.PriceColumn {
		return models.PriceColumn{Label: models.Label{Outer: field, Inner: symbol}, Values: values}
	}

	table := models.PriceTable{Dates: dates}
	table.Columns = append(table.Columns,
		col("Open", open), col("High", high), col("Low", low), col("Close", closeC))
	if adjClose != nil {
		table.Columns = append(table.Columns, col("Adj Close", adjClose))
	}
	table.Columns = append(table.Columns, col("Volume", volume))

	if actions {
		div := make([]float64, n)
		spl := make([]float64, n)
		gain := make([]float64, n)
		at := dateIndex(dates)
		for _, d := range result.Events.Dividends {
			if i, ok := at[models.DateOf(time.Unix(d.Date, 0))]; ok {
				div[i] = d.Amount
			}
		}
		for _, s := range result.Events.Splits {
			if i, ok := at[models.DateOf(time.Unix(s.Date, 0))]; ok {
				spl[i], _ = splitRatio(s).Float64()
			}
		}
		for _, g := range result.Events.CapitalGains {
			if i, ok := at[models.DateOf(time.Unix(g.Date, 0))]; ok {
				gain[i] = g.Amount
			}
		}
		table.Columns = append(table.Columns,
			col("Dividends", div), col("Stock Splits", spl), col("Capital Gains", gain))
	}

	return table, nil
}

// chart performs one GET against the chart endpoint and unwraps the single
// result.
func (c *Client) chart(ctx context.Context, symbol string, rng models.Range, interval, events string) (*chartResult, error) {
	u, err := url.Parse(c.baseURL + "/v8/finance/chart/" + url.PathEscape(symbol))
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	q := u.Query()
	q.Set("interval", interval)
	q.Set("period1", strconv.FormatInt(periodStart(rng), 10))
	q.Set("period2", strconv.FormatInt(periodEnd(rng), 10))
	if events != "" {
		q.Set("events", events)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "tickerhist/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart request for %s returned status %d", symbol, resp.StatusCode)
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode chart for %s: %w", symbol, err)
	}
	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("chart error for %s: %s: %s", symbol, payload.Chart.Error.Code, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return &chartResult{}, nil
	}
	return &payload.Chart.Result[0], nil
}

// periodStart maps the lower bound to a Unix timestamp, 0 when unbounded.
func periodStart(rng models.Range) int64 {
	if rng.From.IsZero() {
		return 0
	}
	return rng.From.Unix()
}

// periodEnd maps the upper bound to an exclusive Unix timestamp: one day
// past the bound so the bound itself stays included, now when unbounded.
func periodEnd(rng models.Range) int64 {
	if rng.To.IsZero() {
		return time.Now().Unix()
	}
	return rng.To.Unix() + 24*60*60
}

// cells flattens a nullable column to a dense one, NaN for missing cells.
func cells(src []*float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		if i < len(src) && src[i] != nil {
			out[i] = *src[i]
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// dateIndex maps each date to its row position.
func dateIndex(dates []models.Date) map[models.Date]int {
	idx := make(map[models.Date]int, len(dates))
	for i, d := range dates {
		idx[d] = i
	}
	return idx
}

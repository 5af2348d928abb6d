package normalize

import (
	"sort"

	"github.com/rewired-gh/tickerhist/internal/models"
)

// FilterEvents returns a new table holding only the rows inside the range,
// both bounds inclusive. A zero bound is unbounded on that side, so the
// zero Range is the identity. The input is never mutated; an inverted
// range yields an empty table.
func FilterEvents(t models.EventTable, r models.Range) models.EventTable {
	lo, hi := windowIndexes(len(t.Records), r, func(i int) models.Date { return t.Records[i].Date })
	return models.EventTable{Column: t.Column, Records: t.Records[lo:hi]}
}

// FilterPrices is FilterEvents for price tables: the date index and every
// column are truncated to the same window.
func FilterPrices(t models.PriceTable, r models.Range) models.PriceTable {
	lo, hi := windowIndexes(len(t.Dates), r, func(i int) models.Date { return t.Dates[i] })
	cols := make([]models.PriceColumn, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = models.PriceColumn{Label: c.Label, Values: c.Values[lo:hi]}
	}
	return models.PriceTable{Dates: t.Dates[lo:hi], Columns: cols}
}

// windowIndexes finds the half-open [lo, hi) row window inside a sorted
// date index that satisfies the range. Rows are sorted, so both cuts are
// binary searches.
func windowIndexes(n int, r models.Range, at func(int) models.Date) (lo, hi int) {
	lo, hi = 0, n
	if !r.From.IsZero() {
		lo = sort.Search(n, func(i int) bool { return !at(i).Before(r.From) })
	}
	if !r.To.IsZero() {
		hi = sort.Search(n, func(i int) bool { return at(i).After(r.To) })
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

package normalize

import (
	"github.com/rewired-gh/tickerhist/internal/models"
)

// PreferredColumns is the canonical ordering for recognized price columns.
// Standardized tables present these first; anything else keeps its original
// relative order after them.
var PreferredColumns = []string{
	"Open", "High", "Low", "Close", "Adj Close", "Volume",
	"Dividends", "Stock Splits", "Capital Gains",
}

// Standardize reduces a price table whose columns may carry two-level
// labels to plain single-level columns. Resolution rules, tried in order,
// first success wins:
//
//  1. the outer label set contains the symbol: keep those columns, the
//     inner components become the names;
//  2. the inner label set contains the symbol: keep those columns, the
//     outer components become the names;
//  3. a single distinct outer value against several inner values: collapse
//     to the inner components;
//  4. a single distinct inner value against several outer values: collapse
//     to the outer components;
//  5. otherwise every label pair is joined into one name, which keeps the
//     columns unique at the cost of the preferred ordering.
//
// Rules 1 and 2 fall through when the selection turns out malformed (an
// empty resulting name) instead of failing. An empty or already
// single-level table is returned unchanged.
//
// The tie-break order of rules 3 and 4 is a heuristic: a response shaped
// with data fields on an unexpected axis degrades silently into joined
// names rather than failing loudly.
func Standardize(t models.PriceTable, symbol string) models.PriceTable {
	if t.Rows() == 0 || !t.MultiLevel() {
		return t
	}

	outer := distinct(t.Columns, func(l models.Label) string { return l.Outer })
	inner := distinct(t.Columns, func(l models.Label) string { return l.Inner })

	if outer[symbol] {
		if sub, ok := selectLevel(t, symbol, true); ok {
			return sub
		}
	}
	if inner[symbol] {
		if sub, ok := selectLevel(t, symbol, false); ok {
			return sub
		}
	}

	switch {
	case len(outer) == 1 && len(inner) > 1:
		return relabel(t, func(l models.Label) string { return l.Inner })
	case len(inner) == 1 && len(outer) > 1:
		return relabel(t, func(l models.Label) string { return l.Outer })
	}

	return relabel(t, models.Label.String)
}

// selectLevel keeps the columns whose outer (or inner) component equals the
// symbol and renames them to the other component. ok is false when the
// selection is unusable, so the caller can fall through to the next rule.
func selectLevel(t models.PriceTable, symbol string, byOuter bool) (models.PriceTable, bool) {
	cols := make([]models.PriceColumn, 0, len(t.Columns))
	for _, c := range t.Columns {
		match, name := c.Label.Inner == symbol, c.Label.Outer
		if byOuter {
			match, name = c.Label.Outer == symbol, c.Label.Inner
		}
		if !match {
			continue
		}
		if name == "" {
			return models.PriceTable{}, false
		}
		cols = append(cols, models.PriceColumn{Label: models.NewLabel(name), Values: c.Values})
	}
	if len(cols) == 0 {
		return models.PriceTable{}, false
	}
	return models.PriceTable{Dates: t.Dates, Columns: cols}, true
}

// relabel keeps every column and replaces its label with name(label).
func relabel(t models.PriceTable, name func(models.Label) string) models.PriceTable {
	cols := make([]models.PriceColumn, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = models.PriceColumn{Label: models.NewLabel(name(c.Label)), Values: c.Values}
	}
	return models.PriceTable{Dates: t.Dates, Columns: cols}
}

// distinct collects the set of distinct label components.
func distinct(cols []models.PriceColumn, component func(models.Label) string) map[string]bool {
	set := make(map[string]bool, len(cols))
	for _, c := range cols {
		set[component(c.Label)] = true
	}
	return set
}

// OrderColumns reorders a single-level table into the preferred schema:
// recognized columns first, in PreferredColumns order, then the remaining
// columns in their original relative order.
func OrderColumns(t models.PriceTable) models.PriceTable {
	byName := make(map[string]models.PriceColumn, len(t.Columns))
	for _, c := range t.Columns {
		byName[c.Label.String()] = c
	}

	cols := make([]models.PriceColumn, 0, len(t.Columns))
	kept := make(map[string]bool, len(t.Columns))
	for _, name := range PreferredColumns {
		if c, ok := byName[name]; ok {
			cols = append(cols, c)
			kept[name] = true
		}
	}
	for _, c := range t.Columns {
		if !kept[c.Label.String()] {
			cols = append(cols, c)
		}
	}
	return models.PriceTable{Dates: t.Dates, Columns: cols}
}

// Package normalize converts irregular provider responses into canonical
// date-indexed tables: sorting and deduplicating sparse event series,
// filtering by date range, pruning zero-value rows, and reducing two-level
// price column labels to a single level. Everything here is a pure function
// on in-memory tables; no I/O, no provider knowledge.
package normalize

import (
	"sort"

	"github.com/rewired-gh/tickerhist/internal/models"
)

// NewEventTable builds a canonical event table from a sparse, possibly
// unordered series. Records are sorted by ascending date and duplicate
// dates collapse to the last value seen. An empty or nil series yields a
// zero-row table that still carries the column name, so callers can query
// Rows, MinDate, and MaxDate without special-casing.
func NewEventTable(column string, records []models.EventRecord) models.EventTable {
	out := make([]models.EventRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})

	dedup := out[:0]
	for _, r := range out {
		if n := len(dedup); n > 0 && dedup[n-1].Date == r.Date {
			dedup[n-1] = r
			continue
		}
		dedup = append(dedup, r)
	}
	return models.EventTable{Column: column, Records: dedup}
}

// PruneZeros returns a copy of the table without rows whose value is
// exactly zero. Event tables only; price tables keep their zero cells.
func PruneZeros(t models.EventTable) models.EventTable {
	kept := make([]models.EventRecord, 0, len(t.Records))
	for _, r := range t.Records {
		if r.Value.IsZero() {
			continue
		}
		kept = append(kept, r)
	}
	return models.EventTable{Column: t.Column, Records: kept}
}

// Package models defines the core domain entities: calendar dates, sparse
// event tables, and date-indexed price tables.
package models

import (
	"github.com/shopspring/decimal"
)

// EventRecord is one sparse occurrence: a dividend payment, a split ratio,
// or a capital-gain distribution on a given date.
type EventRecord struct {
	Date  Date
	Value decimal.Decimal
}

// EventTable is a date-indexed table with a single named value column.
// Records are kept sorted ascending with no duplicate dates; constructing
// one goes through normalize.NewEventTable which enforces that.
type EventTable struct {
	Column  string
	Records []EventRecord
}

// Rows returns the number of records in the table.
func (t EventTable) Rows() int { return len(t.Records) }

// MinDate returns the earliest date and true, or ok=false on an empty table.
func (t EventTable) MinDate() (Date, bool) {
	if len(t.Records) == 0 {
		return Date{}, false
	}
	return t.Records[0].Date, true
}

// MaxDate returns the latest date and true, or ok=false on an empty table.
func (t EventTable) MaxDate() (Date, bool) {
	if len(t.Records) == 0 {
		return Date{}, false
	}
	return t.Records[len(t.Records)-1].Date, true
}

// Sum returns the sum of all values in the table.
func (t EventTable) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, r := range t.Records {
		total = total.Add(r.Value)
	}
	return total
}

// Tail returns the last n records, or all of them when n exceeds the row
// count. n <= 0 returns everything.
func (t EventTable) Tail(n int) []EventRecord {
	if n <= 0 || n >= len(t.Records) {
		return t.Records
	}
	return t.Records[len(t.Records)-n:]
}

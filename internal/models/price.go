package models

// Label identifies a price table column. Inner is empty for a plain
// single-level column. A two-level label carries both components, the way
// a batch-shaped provider response pairs a field name with a symbol.
type Label struct {
	Outer string
	Inner string
}

// NewLabel returns a single-level label.
func NewLabel(name string) Label { return Label{Outer: name} }

// TwoLevel reports whether the label carries an inner component.
func (l Label) TwoLevel() bool { return l.Inner != "" }

// String joins a two-level label with the "|" separator, or returns the
// outer name for a single-level label.
func (l Label) String() string {
	if l.Inner == "" {
		return l.Outer
	}
	return l.Outer + "|" + l.Inner
}

// PriceColumn is one labeled column of a price table. Values are aligned
// with the table's date index; a NaN cell means the provider had no value
// for that date.
type PriceColumn struct {
	Label  Label
	Values []float64
}

// PriceTable is a date-indexed table of labeled float columns. Dates are
// sorted ascending; every column holds exactly len(Dates) values.
type PriceTable struct {
	Dates   []Date
	Columns []PriceColumn
}

// Rows returns the number of dates in the table.
func (t PriceTable) Rows() int { return len(t.Dates) }

// MinDate returns the earliest date and true, or ok=false on an empty table.
func (t PriceTable) MinDate() (Date, bool) {
	if len(t.Dates) == 0 {
		return Date{}, false
	}
	return t.Dates[0], true
}

// MaxDate returns the latest date and true, or ok=false on an empty table.
func (t PriceTable) MaxDate() (Date, bool) {
	if len(t.Dates) == 0 {
		return Date{}, false
	}
	return t.Dates[len(t.Dates)-1], true
}

// MultiLevel reports whether any column still carries a two-level label.
// After standardization this is always false.
func (t PriceTable) MultiLevel() bool {
	for _, c := range t.Columns {
		if c.Label.TwoLevel() {
			return true
		}
	}
	return false
}

// ColumnNames returns the rendered label of every column, in order.
func (t PriceTable) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Label.String()
	}
	return names
}

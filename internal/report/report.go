// Package report renders per-symbol, per-kind console summaries.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rewired-gh/tickerhist/internal/models"
)

// Tail preview sizes. Dividends can run to hundreds of rows, so only the
// last few are echoed; splits and capital gains are rare enough to print
// in full, which a zero bound requests.
const (
	EventTailRows = 20
	PriceTailRows = 5
)

// Reporter writes run output to a console writer.
type Reporter struct {
	w io.Writer
}

// New returns a Reporter writing to w.
func New(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Divider prints the run divider line.
func (r *Reporter) Divider() {
	fmt.Fprintln(r.w, strings.Repeat("=", 70))
}

// SymbolHeader announces the symbol and the active date window.
func (r *Reporter) SymbolHeader(symbol string, rng models.Range) {
	r.Divider()
	fmt.Fprintf(r.w, "symbol: %s\n", symbol)
	fmt.Fprintf(r.w, "date range filter: %s\n\n", rng)
}

// FetchError reports a failed fetch for one kind of one symbol. The run
// continues; the kind degrades to an empty table.
func (r *Reporter) FetchError(kind models.Kind, symbol string, err error) {
	fmt.Fprintf(r.w, "error: failed to fetch %s for %s: %v\n", kind, symbol, err)
}

// None reports an empty result for a kind.
func (r *Reporter) None(kind models.Kind) {
	fmt.Fprintf(r.w, "%s: none\n", kind)
}

// Events prints the summary block for a non-empty event table: row count,
// date bounds, value sum, and a bounded tail preview. tail <= 0 prints
// every row.
func (r *Reporter) Events(kind models.Kind, t models.EventTable, tail int) {
	min, _ := t.MinDate()
	max, _ := t.MaxDate()
	fmt.Fprintf(r.w, "%s:\n", kind)
	fmt.Fprintf(r.w, "  rows: %d\n", t.Rows())
	fmt.Fprintf(r.w, "  from: %s\n", min)
	fmt.Fprintf(r.w, "  to:   %s\n", max)
	fmt.Fprintf(r.w, "  sum:  %s\n", t.Sum().StringFixed(6))

	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "date\t%s\n", t.Column)
	for _, rec := range t.Tail(tail) {
		fmt.Fprintf(tw, "%s\t%s\n", rec.Date, rec.Value)
	}
	tw.Flush()
}

// Prices prints the summary block for a non-empty standardized price
// table with a bounded tail preview.
func (r *Reporter) Prices(t models.PriceTable, tail int) {
	min, _ := t.MinDate()
	max, _ := t.MaxDate()
	fmt.Fprintf(r.w, "%s:\n", models.Prices)
	fmt.Fprintf(r.w, "  rows: %d\n", t.Rows())
	fmt.Fprintf(r.w, "  from: %s\n", min)
	fmt.Fprintf(r.w, "  to:   %s\n", max)

	start := 0
	if tail > 0 && t.Rows() > tail {
		start = t.Rows() - tail
	}
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "date\t%s\n", strings.Join(t.ColumnNames(), "\t"))
	for i := start; i < t.Rows(); i++ {
		cells := make([]string, 0, len(t.Columns)+1)
		cells = append(cells, t.Dates[i].String())
		for _, c := range t.Columns {
			cells = append(cells, fmt.Sprintf("%.6g", c.Values[i]))
		}
		fmt.Fprintf(tw, "%s\n", strings.Join(cells, "\t"))
	}
	tw.Flush()
}

// Wrote reports a persisted file.
func (r *Reporter) Wrote(path string) {
	fmt.Fprintf(r.w, "  wrote: %s\n", path)
}

// BlockEnd terminates a kind block.
func (r *Reporter) BlockEnd() {
	fmt.Fprintln(r.w)
}

// NothingToDo reports a run where every kind toggle is off.
func (r *Reporter) NothingToDo() {
	fmt.Fprintln(r.w, "nothing to do: all toggles are False")
}

// Done terminates the run output.
func (r *Reporter) Done() {
	r.Divider()
	fmt.Fprintln(r.w, "done")
}

// Package pipeline sequences the per-symbol run: fetch, normalize, filter,
// prune, report, persist. Fetch failures degrade the affected kind to an
// empty table and never abort the run; persistence failures are fatal.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rewired-gh/tickerhist/internal/config"
	"github.com/rewired-gh/tickerhist/internal/logger"
	"github.com/rewired-gh/tickerhist/internal/models"
	"github.com/rewired-gh/tickerhist/internal/normalize"
	"github.com/rewired-gh/tickerhist/internal/report"
)

// Provider supplies per-symbol event series and price tables. Calls block;
// one call is in flight at a time.
type Provider interface {
	Events(ctx context.Context, symbol string, kind models.Kind, rng models.Range) ([]models.EventRecord, error)
	Prices(ctx context.Context, symbol string, rng models.Range, interval string, adjust, actions bool) (models.PriceTable, error)
}

// Sink persists a table to a named delimited file and returns the path.
type Sink interface {
	WriteEvents(symbol string, kind models.Kind, t models.EventTable) (string, error)
	WritePrices(symbol, interval string, actions bool, t models.PriceTable) (string, error)
}

// Archiver keeps a secondary copy of every persisted table.
type Archiver interface {
	SaveEvents(symbol string, kind models.Kind, t models.EventTable) error
	SavePrices(symbol, interval string, t models.PriceTable) error
}

// Runner executes one configured run. It holds no per-symbol state; every
// table lives for a single (symbol, kind) iteration.
type Runner struct {
	cfg      *config.Config
	rng      models.Range
	provider Provider
	sink     Sink     // nil disables file output
	archive  Archiver // nil disables archiving
	rep      *report.Reporter

	filesWritten  int
	fetchFailures []string
}

// New builds a Runner. sink and archive may be nil to disable those
// outputs. The config must already be validated.
func New(cfg *config.Config, provider Provider, sink Sink, archive Archiver, rep *report.Reporter) (*Runner, error) {
	rng, err := cfg.DateRange()
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:      cfg,
		rng:      rng,
		provider: provider,
		sink:     sink,
		archive:  archive,
		rep:      rep,
	}, nil
}

// FilesWritten returns how many files the run persisted.
func (r *Runner) FilesWritten() int { return r.filesWritten }

// FetchFailures returns one "SYMBOL kind" entry per failed fetch.
func (r *Runner) FetchFailures() []string { return r.fetchFailures }

// Run processes every configured symbol in order, one record kind at a
// time. It returns ctx.Err() when interrupted between units of work and a
// persistence error as soon as one occurs.
func (r *Runner) Run(ctx context.Context) error {
	if !r.cfg.AnyKindEnabled() {
		r.rep.NothingToDo()
		return nil
	}

	for _, raw := range r.cfg.Symbols {
		symbol := strings.ToUpper(strings.TrimSpace(raw))
		if symbol == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		logger.Debug("Processing symbol %s", symbol)
		r.rep.SymbolHeader(symbol, r.rng)

		for _, kind := range models.EventKinds {
			if !r.kindEnabled(kind) {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := r.processEvents(ctx, symbol, kind); err != nil {
				return err
			}
		}
		if r.cfg.Fetch.Prices {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := r.processPrices(ctx, symbol); err != nil {
				return err
			}
		}
	}

	r.rep.Done()
	return nil
}

func (r *Runner) kindEnabled(kind models.Kind) bool {
	switch kind {
	case models.Dividends:
		return r.cfg.Fetch.Dividends
	case models.Splits:
		return r.cfg.Fetch.Splits
	case models.CapitalGains:
		return r.cfg.Fetch.CapitalGains
	case models.Prices:
		return r.cfg.Fetch.Prices
	default:
		return false
	}
}

// processEvents runs one sparse event kind for one symbol. A fetch error
// is reported and degrades to an empty table of the right schema.
func (r *Runner) processEvents(ctx context.Context, symbol string, kind models.Kind) error {
	var table models.EventTable
	records, err := r.provider.Events(ctx, symbol, kind, r.rng)
	if err != nil {
		r.rep.FetchError(kind, symbol, err)
		r.recordFailure(symbol, kind)
		table = normalize.NewEventTable(kind.Column(), nil)
	} else {
		logger.Debug("Fetched %d %s records for %s", len(records), kind, symbol)
		table = normalize.NewEventTable(kind.Column(), records)
		table = normalize.FilterEvents(table, r.rng)
		table = normalize.PruneZeros(table)
	}

	if table.Rows() == 0 {
		r.rep.None(kind)
		r.rep.BlockEnd()
		return nil
	}

	r.rep.Events(kind, table, eventTail(kind))
	if r.sink != nil {
		path, err := r.sink.WriteEvents(symbol, kind, table)
		if err != nil {
			return fmt.Errorf("failed to persist %s for %s: %w", kind, symbol, err)
		}
		r.filesWritten++
		r.rep.Wrote(path)
	}
	if r.archive != nil {
		if err := r.archive.SaveEvents(symbol, kind, table); err != nil {
			return fmt.Errorf("failed to archive %s for %s: %w", kind, symbol, err)
		}
	}
	r.rep.BlockEnd()
	return nil
}

// processPrices runs the price kind for one symbol: fetch, reduce the
// possibly two-level columns, order into the preferred schema, filter.
// Zero cells are never pruned from price tables.
func (r *Runner) processPrices(ctx context.Context, symbol string) error {
	table, err := r.provider.Prices(ctx, symbol, r.rng, r.cfg.Prices.Interval, r.cfg.Prices.Adjust, r.cfg.Prices.Actions)
	if err != nil {
		r.rep.FetchError(models.Prices, symbol, err)
		r.recordFailure(symbol, models.Prices)
		table = models.PriceTable{}
	} else {
		logger.Debug("Fetched %d price rows for %s", table.Rows(), symbol)
		table = normalize.Standardize(table, symbol)
		table = normalize.OrderColumns(table)
		table = normalize.FilterPrices(table, r.rng)
	}

	if table.Rows() == 0 {
		r.rep.None(models.Prices)
		r.rep.BlockEnd()
		return nil
	}

	r.rep.Prices(table, report.PriceTailRows)
	if r.sink != nil {
		path, err := r.sink.WritePrices(symbol, r.cfg.Prices.Interval, r.cfg.Prices.Actions, table)
		if err != nil {
			return fmt.Errorf("failed to persist prices for %s: %w", symbol, err)
		}
		r.filesWritten++
		r.rep.Wrote(path)
	}
	if r.archive != nil {
		if err := r.archive.SavePrices(symbol, r.cfg.Prices.Interval, table); err != nil {
			return fmt.Errorf("failed to archive prices for %s: %w", symbol, err)
		}
	}
	r.rep.BlockEnd()
	return nil
}

func (r *Runner) recordFailure(symbol string, kind models.Kind) {
	r.fetchFailures = append(r.fetchFailures, fmt.Sprintf("%s %s", symbol, kind))
}

// eventTail returns the preview size for a kind. Splits and capital gains
// print in full.
func eventTail(kind models.Kind) int {
	if kind == models.Dividends {
		return report.EventTailRows
	}
	return 0
}

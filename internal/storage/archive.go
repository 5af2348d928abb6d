package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/rewired-gh/tickerhist/internal/models"
)

// Archive keeps a SQLite copy of every table written during a run, keyed
// by a run identifier so later runs never overwrite earlier ones.
type Archive struct {
	db    *sql.DB
	runID string
}

// OpenArchive opens or creates the SQLite database at path.
func OpenArchive(path, runID string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; WAL allows concurrent readers
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	a := &Archive{db: db, runID: runID}
	if err := a.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create archive tables: %w", err)
	}
	return a, nil
}

// Close closes the underlying database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS event_rows (
			run_id TEXT NOT NULL,
			symbol TEXT NOT NULL,
			kind   TEXT NOT NULL,
			date   TEXT NOT NULL,
			value  TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS price_rows (
			run_id   TEXT NOT NULL,
			symbol   TEXT NOT NULL,
			interval TEXT NOT NULL,
			date     TEXT NOT NULL,
			field    TEXT NOT NULL,
			value    REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_event_rows_run ON event_rows(run_id, symbol, kind)`,
		`CREATE INDEX IF NOT EXISTS idx_price_rows_run ON price_rows(run_id, symbol)`,
	}
	for _, stmt := range stmts {
		if _, err := a.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveEvents archives every row of an event table in one transaction.
func (a *Archive) SaveEvents(symbol string, kind models.Kind, t models.EventTable) error {
	tx, err := a.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO event_rows (run_id, symbol, kind, date, value) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range t.Records {
		if _, err := stmt.Exec(a.runID, symbol, kind.String(), r.Date.String(), r.Value.String()); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SavePrices archives a standardized price table, one row per cell.
func (a *Archive) SavePrices(symbol, interval string, t models.PriceTable) error {
	tx, err := a.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO price_rows (run_id, symbol, interval, date, field, value) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, d := range t.Dates {
		for _, c := range t.Columns {
			if _, err := stmt.Exec(a.runID, symbol, interval, d.String(), c.Label.String(), c.Values[i]); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// CountRows reports how many archived rows belong to the given run. Used
// for sanity checks and tests.
func (a *Archive) CountRows(runID string) (events, prices int, err error) {
	if err = a.db.QueryRow(`SELECT COUNT(*) FROM event_rows WHERE run_id = ?`, runID).Scan(&events); err != nil {
		return 0, 0, err
	}
	if err = a.db.QueryRow(`SELECT COUNT(*) FROM price_rows WHERE run_id = ?`, runID).Scan(&prices); err != nil {
		return 0, 0, err
	}
	return events, prices, nil
}

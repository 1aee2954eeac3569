// Package store persists completed backtest runs and their ledgers.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/a28218832/Future-Option-Trader/internal/models"
)

// Run is a stored backtest run header.
type Run struct {
	ID             int64
	Strategy       string
	StartDate      time.Time
	EndDate        time.Time
	InitialBalance float64
	FinalBalance   float64
	Trades         int
	CreatedAt      time.Time
}

// SQLiteStore implements run persistence over SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the backtest database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		strategy TEXT NOT NULL,
		start_date DATETIME NOT NULL,
		end_date DATETIME NOT NULL,
		initial_balance REAL NOT NULL,
		final_balance REAL NOT NULL,
		trades INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS ledger_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		entry_date DATETIME NOT NULL,
		exit_date DATETIME NOT NULL,
		mode TEXT NOT NULL,
		reason TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		pnl REAL NOT NULL,
		return_on_risk REAL NOT NULL,
		trade_detail TEXT NOT NULL,
		balance_after REAL NOT NULL,
		entry_spot REAL NOT NULL,
		exit_spot REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_ledger_run ON ledger_entries(run_id, exit_date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveRun stores a run header and its ledger atomically, returning the
// new run ID.
func (s *SQLiteStore) SaveRun(ctx context.Context, run Run, ledger []models.LedgerEntry) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (strategy, start_date, end_date, initial_balance, final_balance, trades)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.Strategy, run.StartDate, run.EndDate, run.InitialBalance, run.FinalBalance, len(ledger))
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ledger_entries
			(run_id, entry_date, exit_date, mode, reason, quantity, pnl, return_on_risk,
			 trade_detail, balance_after, entry_spot, exit_spot)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing ledger insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range ledger {
		if _, err := stmt.ExecContext(ctx,
			runID, entry.EntryDate, entry.ExitDate, entry.Mode, entry.Reason,
			entry.Quantity, entry.PnL, entry.ReturnOnRisk, entry.TradeDetail,
			entry.BalanceAfter, entry.EntrySpot, entry.ExitSpot); err != nil {
			return 0, fmt.Errorf("inserting ledger entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// ListRuns returns stored runs, most recent first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, strategy, start_date, end_date, initial_balance, final_balance, trades, created_at
		FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Strategy, &r.StartDate, &r.EndDate,
			&r.InitialBalance, &r.FinalBalance, &r.Trades, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetLedger returns a stored run's ledger in exit-date order.
func (s *SQLiteStore) GetLedger(ctx context.Context, runID int64) ([]models.LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT entry_date, exit_date, mode, reason, quantity, pnl, return_on_risk,
		       trade_detail, balance_after, entry_spot, exit_spot
		FROM ledger_entries WHERE run_id = ? ORDER BY exit_date, id`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer rows.Close()

	var ledger []models.LedgerEntry
	for rows.Next() {
		var entry models.LedgerEntry
		if err := rows.Scan(&entry.EntryDate, &entry.ExitDate, &entry.Mode, &entry.Reason,
			&entry.Quantity, &entry.PnL, &entry.ReturnOnRisk, &entry.TradeDetail,
			&entry.BalanceAfter, &entry.EntrySpot, &entry.ExitSpot); err != nil {
			return nil, fmt.Errorf("scanning ledger entry: %w", err)
		}
		ledger = append(ledger, entry)
	}
	return ledger, rows.Err()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

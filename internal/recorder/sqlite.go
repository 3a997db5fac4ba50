package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists forecast history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS forecasts (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			ticker         TEXT NOT NULL,
			company_name   TEXT,
			last_date      INTEGER,
			last_close     REAL,
			horizon        INTEGER,
			final_date     INTEGER,
			final_forecast REAL,
			change_pct     REAL,
			forecast_high  REAL,
			forecast_low   REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_forecasts_ts ON forecasts(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_forecasts_ticker ON forecasts(ticker)`,

		`CREATE TABLE IF NOT EXISTS forecast_points (
			forecast_id INTEGER NOT NULL REFERENCES forecasts(id),
			seq         INTEGER NOT NULL,
			ts          INTEGER NOT NULL,
			price       REAL,
			connector   INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (forecast_id, seq)
		)`,

		`CREATE TABLE IF NOT EXISTS failures (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			input     TEXT,
			kind      TEXT,
			message   TEXT,
			cause     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_failures_ts ON failures(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordForecast(rec *ForecastRecord) error {
	if rec.Summary == nil {
		return fmt.Errorf("record forecast %s: missing summary", rec.Ticker)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	s := rec.Summary
	res, err := tx.Exec(`INSERT INTO forecasts
		(timestamp, ticker, company_name, last_date, last_close, horizon,
		 final_date, final_forecast, change_pct, forecast_high, forecast_low)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), string(rec.Ticker), rec.CompanyName,
		s.LastDate.Unix(), s.LastClose, s.Horizon,
		s.FinalDate.Unix(), s.FinalForecast, s.ChangePct, s.ForecastHigh, s.ForecastLow,
	)
	if err != nil {
		return fmt.Errorf("insert forecast: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("forecast id: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO forecast_points (forecast_id, seq, ts, price, connector) VALUES (?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare points: %w", err)
	}
	defer stmt.Close()
	for i, p := range rec.Line {
		connector := 0
		if i == 0 {
			connector = 1
		}
		if _, err := stmt.Exec(id, i, p.Time.Unix(), p.Price, connector); err != nil {
			return fmt.Errorf("insert point %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordFailure(rec *FailureRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO failures
		(timestamp, input, kind, message, cause)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), rec.Input, string(rec.Kind), rec.Message, rec.Cause,
	)
	return err
}

// RecentForecasts returns up to limit forecasts, newest first.
func (r *SQLiteRecorder) RecentForecasts(limit int) ([]ForecastRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT id, timestamp, ticker, company_name, last_date, last_close,
		horizon, final_forecast, change_pct
		FROM forecasts ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query forecasts: %w", err)
	}
	defer rows.Close()

	var out []ForecastRow
	for rows.Next() {
		var (
			row          ForecastRow
			ts, lastDate int64
		)
		if err := rows.Scan(&row.ID, &ts, &row.Ticker, &row.CompanyName, &lastDate, &row.LastClose,
			&row.Horizon, &row.FinalForecast, &row.ChangePct); err != nil {
			return nil, fmt.Errorf("scan forecast: %w", err)
		}
		row.RecordedAt = time.Unix(ts, 0)
		row.LastDate = time.Unix(lastDate, 0).UTC()
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

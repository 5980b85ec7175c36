// Package storage persists transaction records and month-processed
// markers in SQLite. Records are append-only: the core never updates or
// deletes them.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"uchet/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	// SQLite serializes writes; a single connection avoids SQLITE_BUSY
	// between the ingest path and the scheduler.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// InsertRecords stores all records of one message block in a single
// transaction, so a block is committed fully or not at all.
func (r *SQLiteRepository) InsertRecords(ctx context.Context, records []core.TransactionRecord) error {
	if len(records) == 0 {
		return nil
	}
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("validate record: %w", err)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO transactions (date, kind, amount_minor, category, comment, primary_flag)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var category any
		if rec.Kind == core.Expense {
			category = rec.Category
		}
		primary := 0
		if rec.Primary {
			primary = 1
		}
		if _, err := stmt.ExecContext(ctx,
			rec.Date.ISO(), string(rec.Kind), rec.Amount.Minor, category, rec.Comment, primary); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit records: %w", err)
	}
	return nil
}

// QueryRange returns records of one kind with date in [start, end),
// ordered by date. With primaryOnly set, only primary records are
// returned (the de-duplicated view used for expense totals).
func (r *SQLiteRepository) QueryRange(ctx context.Context, kind core.Kind, primaryOnly bool, start, end core.Date) ([]core.TransactionRecord, error) {
	q := `SELECT id, date, kind, amount_minor, COALESCE(category, ''), comment, primary_flag
	      FROM transactions
	      WHERE kind = ? AND date >= ? AND date < ?`
	args := []any{string(kind), start.ISO(), end.ISO()}
	if primaryOnly {
		q += ` AND primary_flag = 1`
	}
	q += ` ORDER BY date, id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query range: %w", err)
	}
	defer rows.Close()

	var out []core.TransactionRecord
	for rows.Next() {
		var (
			rec     core.TransactionRecord
			date    string
			kindStr string
			primary int
		)
		if err := rows.Scan(&rec.ID, &date, &kindStr, &rec.Amount.Minor, &rec.Category, &rec.Comment, &primary); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		d, err := parseISODate(date)
		if err != nil {
			return nil, fmt.Errorf("scan record date: %w", err)
		}
		rec.Date = d
		rec.Kind = core.Kind(kindStr)
		rec.Primary = primary == 1
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

// MarkerExists reports whether the month already has a processed marker.
func (r *SQLiteRepository) MarkerExists(ctx context.Context, year, month int) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM month_markers WHERE year = ? AND month = ?`, year, month).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query marker: %w", err)
	}
	return n > 0, nil
}

// InsertMarkerIfAbsent writes the month marker and reports whether this
// call actually inserted it. The primary key on (year, month) makes the
// insert race-free: of two concurrent callers exactly one sees true.
func (r *SQLiteRepository) InsertMarkerIfAbsent(ctx context.Context, year, month int) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO month_markers (year, month) VALUES (?, ?)`, year, month)
	if err != nil {
		return false, fmt.Errorf("insert marker: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("marker rows affected: %w", err)
	}
	return n > 0, nil
}

func parseISODate(s string) (core.Date, error) {
	var y, m, d int
	if _, err := fmt.Sscanf(s, "%d-%d-%d", &y, &m, &d); err != nil {
		return core.Date{}, fmt.Errorf("malformed date %q: %w", s, err)
	}
	return core.NewDate(y, m, d), nil
}

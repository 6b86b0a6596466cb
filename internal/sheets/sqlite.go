package sheets

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sheets (
	name       TEXT PRIMARY KEY,
	header     TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sheet_rows (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	sheet TEXT NOT NULL REFERENCES sheets(name),
	cells TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS sheet_rows_sheet ON sheet_rows(sheet);
`

// SQLiteStore keeps sheets in a SQLite database. Headers and rows are stored
// as JSON arrays of strings.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path. ":memory:" is accepted.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite store path empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection: writes are serialized and ":memory:" stays one database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite pragma: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Ensure(ctx context.Context, name string, header []string) (bool, error) {
	if len(header) == 0 {
		return false, ErrEmptyHeader
	}
	enc, err := json.Marshal(header)
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sheets (name, header, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO NOTHING`,
		name, string(enc), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("create sheet %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// rowQuerier is satisfied by *sql.DB and *sql.Tx.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLiteStore) header(ctx context.Context, q rowQuerier, name string) ([]string, error) {
	var raw string
	err := q.QueryRowContext(ctx, `SELECT header FROM sheets WHERE name = ?`, name).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", name, ErrSheetNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read header %q: %w", name, err)
	}
	var h []string
	if err := json.Unmarshal([]byte(raw), &h); err != nil {
		return nil, fmt.Errorf("decode header %q: %w", name, err)
	}
	return h, nil
}

func (s *SQLiteStore) Append(ctx context.Context, name string, row []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	h, err := s.header(ctx, tx, name)
	if err != nil {
		return err
	}
	if err := checkRow(name, h, row); err != nil {
		return err
	}
	enc, err := json.Marshal(row)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO sheet_rows (sheet, cells) VALUES (?, ?)`, name, string(enc)); err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) RowCount(ctx context.Context, name string) (int, bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sheets WHERE name = ?`, name).Scan(&exists)
	if err != nil {
		return 0, false, fmt.Errorf("lookup sheet %q: %w", name, err)
	}
	if exists == 0 {
		return 0, false, nil
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sheet_rows WHERE sheet = ?`, name).Scan(&n); err != nil {
		return 0, true, fmt.Errorf("count rows %q: %w", name, err)
	}
	return n, true, nil
}

func (s *SQLiteStore) Read(ctx context.Context, name string) ([][]string, error) {
	h, err := s.header(ctx, s.db, name)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT cells FROM sheet_rows WHERE sheet = ? ORDER BY id`, name)
	if err != nil {
		return nil, fmt.Errorf("read rows %q: %w", name, err)
	}
	defer rows.Close()

	out := [][]string{h}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var cells []string
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return nil, fmt.Errorf("decode row in %q: %w", name, err)
		}
		out = append(out, pad(cells, len(h)))
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Sheets(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM sheets ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list sheets: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

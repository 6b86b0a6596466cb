// Package sheets stores append-only named tables. Each table starts with a
// header row; data rows are appended and never changed.
//
// Every Store implementation makes Ensure atomic: when several callers race to
// create the same sheet, exactly one creates it and writes the header.
package sheets

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrSheetNotFound = errors.New("sheet not found")
	ErrColumnCount   = errors.New("row width does not match header")
	ErrEmptyHeader   = errors.New("header must have at least one column")
)

// Store is the backing table store used by the relay.
type Store interface {
	// Ensure creates the sheet with header if it does not exist yet.
	// created reports whether this call created it.
	Ensure(ctx context.Context, name string, header []string) (created bool, err error)
	// Append adds one data row. The row must be as wide as the header.
	Append(ctx context.Context, name string, row []string) error
	// RowCount returns the number of data rows (header excluded).
	RowCount(ctx context.Context, name string) (n int, exists bool, err error)
	// Read returns the header followed by all data rows.
	Read(ctx context.Context, name string) ([][]string, error)
	// Sheets lists existing sheet names in creation order.
	Sheets(ctx context.Context) ([]string, error)
	Close() error
}

// Drivers accepted by Open.
const (
	DriverMemory = "memory"
	DriverXLSX   = "xlsx"
	DriverSQLite = "sqlite"
)

// Open builds the store for driver. path is ignored by the memory driver.
func Open(ctx context.Context, driver, path string) (Store, error) {
	switch driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverXLSX:
		s, err := OpenXLSX(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverSQLite:
		s, err := OpenSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

func checkRow(name string, header, row []string) error {
	if len(row) != len(header) {
		return fmt.Errorf("%s: %w (%d cells, header has %d)", name, ErrColumnCount, len(row), len(header))
	}
	return nil
}

// pad widens short rows to width with empty cells.
func pad(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

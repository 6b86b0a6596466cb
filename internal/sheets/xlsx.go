package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// placeholderSheet is the sheet excelize puts in a new workbook.
const placeholderSheet = "Sheet1"

// XLSXStore keeps every sheet as a worksheet in one workbook file.
// The workbook is saved after every change.
type XLSXStore struct {
	mu          sync.Mutex
	path        string
	f           *excelize.File
	meta        map[string]sheetMeta
	headerStyle int

	// fresh is true while the workbook only holds the excelize placeholder.
	fresh bool
}

// sheetMeta caches what Append needs so it does not re-read the sheet.
type sheetMeta struct {
	width int // header cells
	used  int // occupied rows, header included
}

// OpenXLSX opens path, or starts a new workbook there when it does not exist.
func OpenXLSX(path string) (*XLSXStore, error) {
	if path == "" {
		return nil, errors.New("xlsx store path empty")
	}
	s := &XLSXStore{path: path, meta: make(map[string]sheetMeta)}
	f, err := excelize.OpenFile(path)
	switch {
	case err == nil:
		s.f = f
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create workbook dir: %w", err)
		}
		s.f = excelize.NewFile()
		s.fresh = true
	default:
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	style, err := s.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"F0F0F0"}, Pattern: 1},
	})
	if err != nil {
		s.f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}
	s.headerStyle = style
	return s, nil
}

func (s *XLSXStore) exists(name string) bool {
	if s.fresh && name == placeholderSheet {
		return false
	}
	idx, err := s.f.GetSheetIndex(name)
	return err == nil && idx >= 0
}

func (s *XLSXStore) Ensure(ctx context.Context, name string, header []string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if len(header) == 0 {
		return false, ErrEmptyHeader
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exists(name) {
		return false, nil
	}

	if s.fresh {
		if err := s.f.SetSheetName(placeholderSheet, name); err != nil {
			return false, fmt.Errorf("rename placeholder sheet: %w", err)
		}
	} else if _, err := s.f.NewSheet(name); err != nil {
		return false, fmt.Errorf("new sheet %q: %w", name, err)
	}

	if err := s.writeHeader(name, header); err != nil {
		return false, err
	}
	if err := s.save(); err != nil {
		return false, err
	}
	s.fresh = false
	s.meta[name] = sheetMeta{width: len(header), used: 1}
	return true, nil
}

func (s *XLSXStore) writeHeader(name string, header []string) error {
	cells := append([]string(nil), header...)
	if err := s.f.SetSheetRow(name, "A1", &cells); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := s.f.SetRowStyle(name, 1, 1, s.headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	err := s.f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	if err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	return nil
}

// load returns the cached metadata for name, reading the sheet on first use.
func (s *XLSXStore) load(name string) (sheetMeta, error) {
	if m, ok := s.meta[name]; ok {
		return m, nil
	}
	rows, err := s.f.GetRows(name)
	if err != nil {
		return sheetMeta{}, fmt.Errorf("read sheet %q: %w", name, err)
	}
	var m sheetMeta
	if len(rows) > 0 {
		m = sheetMeta{width: len(rows[0]), used: len(rows)}
	}
	s.meta[name] = m
	return m, nil
}

func (s *XLSXStore) Append(ctx context.Context, name string, row []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.exists(name) {
		return fmt.Errorf("%s: %w", name, ErrSheetNotFound)
	}
	m, err := s.load(name)
	if err != nil {
		return err
	}
	if len(row) != m.width {
		return fmt.Errorf("%s: %w (%d cells, header has %d)", name, ErrColumnCount, len(row), m.width)
	}

	cell, err := excelize.CoordinatesToCellName(1, m.used+1)
	if err != nil {
		return err
	}
	cells := append([]string(nil), row...)
	if err := s.f.SetSheetRow(name, cell, &cells); err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	if err := s.save(); err != nil {
		return err
	}
	m.used++
	s.meta[name] = m
	return nil
}

func (s *XLSXStore) RowCount(ctx context.Context, name string) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.exists(name) {
		return 0, false, nil
	}
	m, err := s.load(name)
	if err != nil {
		return 0, true, err
	}
	if m.used < 1 {
		return 0, true, nil
	}
	return m.used - 1, true, nil
}

func (s *XLSXStore) Read(ctx context.Context, name string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.exists(name) {
		return nil, fmt.Errorf("%s: %w", name, ErrSheetNotFound)
	}
	rows, err := s.f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return rows, nil
	}
	width := len(rows[0])
	for i := range rows {
		rows[i] = pad(rows[i], width)
	}
	return rows, nil
}

func (s *XLSXStore) Sheets(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fresh {
		return nil, nil
	}
	return s.f.GetSheetList(), nil
}

// save writes to a temp file first so a crash never leaves a torn workbook.
func (s *XLSXStore) save() error {
	ext := filepath.Ext(s.path)
	tmp := strings.TrimSuffix(s.path, ext) + ".tmp" + ext
	if err := s.f.SaveAs(tmp); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace workbook: %w", err)
	}
	return nil
}

func (s *XLSXStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}

package sheets

import (
	"context"
	"fmt"
	"sync"
)

type memSheet struct {
	header []string
	rows   [][]string
}

// MemoryStore keeps sheets in process memory. Used by tests and the memory driver.
type MemoryStore struct {
	mu     sync.Mutex
	order  []string
	sheets map[string]*memSheet
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sheets: make(map[string]*memSheet)}
}

func (m *MemoryStore) Ensure(ctx context.Context, name string, header []string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if len(header) == 0 {
		return false, ErrEmptyHeader
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sheets[name]; ok {
		return false, nil
	}
	m.sheets[name] = &memSheet{header: append([]string(nil), header...)}
	m.order = append(m.order, name)
	return true, nil
}

func (m *MemoryStore) Append(ctx context.Context, name string, row []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sheets[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrSheetNotFound)
	}
	if err := checkRow(name, s.header, row); err != nil {
		return err
	}
	s.rows = append(s.rows, append([]string(nil), row...))
	return nil
}

func (m *MemoryStore) RowCount(ctx context.Context, name string) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sheets[name]
	if !ok {
		return 0, false, nil
	}
	return len(s.rows), true, nil
}

func (m *MemoryStore) Read(ctx context.Context, name string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sheets[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrSheetNotFound)
	}
	out := make([][]string, 0, len(s.rows)+1)
	out = append(out, append([]string(nil), s.header...))
	for _, r := range s.rows {
		out = append(out, append([]string(nil), r...))
	}
	return out, nil
}

func (m *MemoryStore) Sheets(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...), nil
}

func (m *MemoryStore) Close() error { return nil }

package memory

import (
	"context"
	"sync"

	"github.com/mamadbah2/outletdesk/internal/domain/models"
	"github.com/mamadbah2/outletdesk/internal/repository"
)

// Store keeps tables in process memory. Used for local runs and tests.
type Store struct {
	mu     sync.RWMutex
	tables map[string]*models.Table
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{tables: make(map[string]*models.Table)}
}

// Append adds a row, writing the header on first use.
func (s *Store) Append(ctx context.Context, storeID string, row models.Row) error {
	if storeID == "" {
		return repository.ErrEmptyStoreID
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[storeID]
	if !ok {
		t = &models.Table{Columns: row.Columns()}
		s.tables[storeID] = t
	} else if err := repository.CheckHeader(t.Columns, row); err != nil {
		return err
	}

	cells := make([]string, len(row))
	for i, f := range row {
		cells[i] = repository.CellString(f.Value)
	}
	t.Rows = append(t.Rows, cells)
	return nil
}

// ReadAll returns a copy of the table. Unknown stores read as empty.
func (s *Store) ReadAll(ctx context.Context, storeID string) (models.Table, error) {
	if storeID == "" {
		return models.Table{}, repository.ErrEmptyStoreID
	}
	if err := ctx.Err(); err != nil {
		return models.Table{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[storeID]
	if !ok {
		return models.Table{}, nil
	}

	out := models.Table{Columns: append([]string(nil), t.Columns...), Rows: make([][]string, len(t.Rows))}
	for i, r := range t.Rows {
		out.Rows[i] = append([]string(nil), r...)
	}
	return out, nil
}

// Count reports the number of data rows in a store.
func (s *Store) Count(storeID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.tables[storeID]; ok {
		return len(t.Rows)
	}
	return 0
}

package memory

import (
	"sync"

	"rewardsplit/contexts/finance-core/payout-structure-service/domain/entities"
	domainerrors "rewardsplit/contexts/finance-core/payout-structure-service/domain/errors"

	"github.com/shopspring/decimal"
)

// RowStore keeps the rows of one structure in insertion order. Indices are
// positional and shift down after a Remove.
type RowStore struct {
	mu   sync.RWMutex
	rows []entities.Row
}

func NewRowStore(rows ...entities.Row) *RowStore {
	return &RowStore{rows: append([]entities.Row(nil), rows...)}
}

func (s *RowStore) Append(row entities.Row) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return len(s.rows) - 1
}

func (s *RowStore) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.rows) {
		return domainerrors.ErrRowNotFound
	}
	s.rows = append(s.rows[:index], s.rows[index+1:]...)
	return nil
}

func (s *RowStore) Get(index int) (entities.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.rows) {
		return entities.Row{}, domainerrors.ErrRowNotFound
	}
	return s.rows[index], nil
}

func (s *RowStore) Set(index int, field entities.Field, value decimal.NullDecimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.rows) {
		return domainerrors.ErrRowNotFound
	}
	return s.rows[index].SetValue(field, value)
}

func (s *RowStore) All() []entities.Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.Row(nil), s.rows...)
}

func (s *RowStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

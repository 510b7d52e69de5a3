// Package memory implements an in-memory member-table mirror for tests and
// ephemeral catalogs.
package memory

import (
	"context"
	"sync"

	"catalogcore/pkg/domain"
)

var _ domain.Mirror = (*Store)(nil)

// Store implements domain.Mirror backed by process memory.
type Store struct {
	mu    sync.RWMutex
	rows  []domain.MemberRecord
	index map[string]int
}

// New returns an empty mirror.
func New() *Store {
	return &Store{index: make(map[string]int)}
}

// UpsertMember inserts or refreshes a row. Kind is immutable on update.
func (s *Store) UpsertMember(_ context.Context, record domain.MemberRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[record.ID]; ok {
		s.rows[i].Location = record.Location
		return nil
	}
	s.index[record.ID] = len(s.rows)
	s.rows = append(s.rows, record)
	return nil
}

// DeleteMembers removes rows by id; unknown ids are ignored.
func (s *Store) DeleteMembers(_ context.Context, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		i, ok := s.index[id]
		if !ok {
			continue
		}
		s.rows = append(s.rows[:i], s.rows[i+1:]...)
		delete(s.index, id)
		for j := i; j < len(s.rows); j++ {
			s.index[s.rows[j].ID] = j
		}
	}
	return nil
}

// LoadMembers returns all rows in stored order.
func (s *Store) LoadMembers(_ context.Context) ([]domain.MemberRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.MemberRecord, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

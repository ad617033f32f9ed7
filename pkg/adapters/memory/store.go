package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/ports"
)

// Store implements ports.PlanStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.PlanRecord
	mu   sync.RWMutex
}

var _ ports.PlanStore = (*Store)(nil)

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.PlanRecord),
	}
}

func clone(r *domain.PlanRecord) *domain.PlanRecord {
	c := *r
	c.Steps = slices.Clone(r.Steps)
	c.Statistics = maps.Clone(r.Statistics)
	return &c
}

// Save persists a copy of the record.
func (s *Store) Save(ctx context.Context, record *domain.PlanRecord) error {
	c := clone(record)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[record.ID] = c
	return nil
}

// Load returns a copy so callers cannot mutate the stored record.
func (s *Store) Load(ctx context.Context, id string) (*domain.PlanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.data[id]
	if !ok {
		return nil, domain.ErrPlanNotFound
	}
	return clone(record), nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the stored ids in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.data)), nil
}

package scheduler

import (
	"sync"

	domain "github.com/example/homeboard/internal/domain/alarm"
)

// Store holds the last-known snapshot of alarm definitions fetched from the
// persistence API. It is mutated only by the refresh path; concurrent
// refreshes resolve by last-writer-wins replacement of the whole snapshot.
type Store struct {
	// mu protects concurrent access to the snapshot.
	mu sync.RWMutex
	// alarms preserves the order the persistence API returned.
	alarms []*domain.Alarm
	// index maps alarm id to its entry in alarms.
	index map[string]*domain.Alarm
}

// NewStore creates an empty snapshot store.
func NewStore() *Store {
	return &Store{
		index: make(map[string]*domain.Alarm),
	}
}

// Replace swaps in a new snapshot, discarding the previous one entirely.
func (s *Store) Replace(alarms []*domain.Alarm) {
	cloned := make([]*domain.Alarm, 0, len(alarms))
	index := make(map[string]*domain.Alarm, len(alarms))

	for _, a := range alarms {
		c := a.Clone()
		cloned = append(cloned, c)
		index[c.ID] = c
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.alarms = cloned
	s.index = index
}

// Get returns a copy of the alarm with the given id.
func (s *Store) Get(id string) (*domain.Alarm, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.index[id]
	if !ok {
		return nil, false
	}

	return a.Clone(), true
}

// All returns copies of every alarm in snapshot order.
func (s *Store) All() []*domain.Alarm {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Alarm, 0, len(s.alarms))
	for _, a := range s.alarms {
		result = append(result, a.Clone())
	}

	return result
}

// Len returns the number of alarms in the snapshot.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.alarms)
}

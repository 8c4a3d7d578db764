// Package history keeps completed simulation results for later retrieval.
// The store replaces any process-wide accumulation: it is created by the
// serving layer, appended to per completed run, and bounded.
package history

import (
	"sync"
	"time"

	"github.com/xivix/darksim/internal/sim"
)

// DefaultLimit bounds the store when no limit is configured.
const DefaultLimit = 100

// Entry is one retained simulation outcome.
type Entry struct {
	ID        int         `json:"simulation_id"`
	CreatedAt time.Time   `json:"timestamp"`
	Result    *sim.Result `json:"results"`
}

// Store is a bounded, insertion-ordered collection of entries. It is safe
// for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries []Entry
	limit   int
	nextID  int
}

func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{
		entries: make([]Entry, 0, limit),
		limit:   limit,
		nextID:  1,
	}
}

// Append retains a completed result, evicting the oldest entry when the
// store is full. Identifiers keep increasing across evictions.
func (s *Store) Append(res *sim.Result) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := Entry{
		ID:        s.nextID,
		CreatedAt: time.Now().UTC(),
		Result:    res,
	}
	s.nextID++

	if len(s.entries) == s.limit {
		s.entries = append(s.entries[:0], s.entries[1:]...)
	}
	s.entries = append(s.entries, e)
	return e
}

// Latest returns the most recently appended entry.
func (s *Store) Latest() (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// Get returns the entry with the given identifier.
func (s *Store) Get(id int) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// List returns a copy of all retained entries, oldest first.
func (s *Store) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

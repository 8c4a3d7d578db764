package history

import (
	"sync"
	"testing"

	"github.com/xivix/darksim/internal/sim"
)

func TestStoreAppendAndLatest(t *testing.T) {
	s := NewStore(10)

	if _, ok := s.Latest(); ok {
		t.Fatal("empty store should have no latest entry")
	}

	first := s.Append(&sim.Result{Seed: 1})
	second := s.Append(&sim.Result{Seed: 2})

	if first.ID != 1 || second.ID != 2 {
		t.Errorf("expected sequential IDs 1,2, got %d,%d", first.ID, second.ID)
	}

	latest, ok := s.Latest()
	if !ok || latest.Result.Seed != 2 {
		t.Errorf("latest should be the second append")
	}
}

func TestStoreBounded(t *testing.T) {
	s := NewStore(3)
	for i := 0; i < 10; i++ {
		s.Append(&sim.Result{Seed: int64(i)})
	}

	if s.Len() != 3 {
		t.Fatalf("expected store bounded at 3, got %d", s.Len())
	}

	entries := s.List()
	// Oldest evicted first; IDs keep increasing across evictions.
	if entries[0].ID != 8 || entries[2].ID != 10 {
		t.Errorf("expected IDs 8..10 after eviction, got %d..%d", entries[0].ID, entries[2].ID)
	}

	if _, ok := s.Get(1); ok {
		t.Error("evicted entry should not be retrievable")
	}
	if e, ok := s.Get(9); !ok || e.Result.Seed != 8 {
		t.Error("retained entry should be retrievable by ID")
	}
}

func TestStoreDefaultLimit(t *testing.T) {
	s := NewStore(0)
	for i := 0; i < DefaultLimit+5; i++ {
		s.Append(&sim.Result{})
	}
	if s.Len() != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, s.Len())
	}
}

func TestStoreListIsCopy(t *testing.T) {
	s := NewStore(5)
	s.Append(&sim.Result{Seed: 1})

	list := s.List()
	list[0].ID = 999

	if got, _ := s.Latest(); got.ID == 999 {
		t.Error("mutating the listed slice must not affect the store")
	}
}

func TestStoreConcurrentAppend(t *testing.T) {
	s := NewStore(50)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				s.Append(&sim.Result{})
				s.Latest()
				s.Len()
			}
		}()
	}
	wg.Wait()

	if s.Len() != 50 {
		t.Errorf("expected full store after 200 appends, got %d", s.Len())
	}
	latest, _ := s.Latest()
	if latest.ID != 200 {
		t.Errorf("expected final ID 200, got %d", latest.ID)
	}
}

package debounce

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps timestamps in process memory. Entries are only removed
// by Evict.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]time.Time)}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	at, ok := s.entries[key]
	return at, ok, nil
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, key string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = at
	return nil
}

// Evict removes entries recorded before cutoff and returns how many were
// removed. Evicting entries older than every guard threshold does not change
// any future decision.
func (s *MemoryStore) Evict(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, at := range s.entries {
		if at.Before(cutoff) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

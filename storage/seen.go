package storage

import (
	"sync"
	"time"
)

// seenSet is the in-memory state shared by every SeenStore backend.
type seenSet struct {
	mu      sync.RWMutex
	first   map[string]time.Time
	pending []string
	now     func() time.Time
}

func newSeenSet() *seenSet {
	return &seenSet{first: make(map[string]time.Time), now: time.Now}
}

func (s *seenSet) IsKnown(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.first[url]
	return ok
}

func (s *seenSet) RecordSeen(urls []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	at := s.now().UTC()
	for _, u := range urls {
		if u == "" {
			continue
		}
		if _, ok := s.first[u]; ok {
			continue
		}
		s.first[u] = at
		s.pending = append(s.pending, u)
	}
}

// FirstSeen returns when url was first recorded.
func (s *seenSet) FirstSeen(url string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.first[url]
	return t, ok
}

func (s *seenSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.first)
}

// load adds a persisted record without marking it pending.
func (s *seenSet) load(url string, at time.Time) {
	if existing, ok := s.first[url]; ok && !at.Before(existing) {
		return
	}
	s.first[url] = at
}

// MemoryStore is a SeenStore that lives only as long as the process.
type MemoryStore struct {
	*seenSet
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seenSet: newSeenSet()}
}

// SetClock replaces the time source used for new records.
func (m *MemoryStore) SetClock(now func() time.Time) { m.now = now }

func (m *MemoryStore) Save() error {
	m.mu.Lock()
	m.pending = nil
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Close() error { return nil }

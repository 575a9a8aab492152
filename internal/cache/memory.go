package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// memoryPurgeInterval is the minimum time between sweeps of expired entries.
const memoryPurgeInterval = time.Minute

// MemoryStore is an in-process Store for single-instance deployments and
// tests. Expired entries are dropped on lookup and swept from Store at most
// once per memoryPurgeInterval.
type MemoryStore struct {
	mu          sync.Mutex
	entries     map[string]memoryEntry
	now         func() time.Time
	lastPurge   time.Time
	unavailable error
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// SetUnavailable makes every operation fail with err until called with nil.
func (s *MemoryStore) SetUnavailable(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable = err
}

// SetClock replaces the time source used for expiry.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Len returns the number of live entries.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	return len(s.entries)
}

func (s *MemoryStore) Lookup(_ context.Context, key string) Lookup {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unavailable != nil {
		return Lookup{Outcome: Unavailable, Err: s.unavailable}
	}
	entry, ok := s.entries[key]
	if !ok {
		return Lookup{Outcome: Miss}
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return Lookup{Outcome: Miss}
	}
	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return Lookup{Outcome: Hit, Value: value}
}

func (s *MemoryStore) Store(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unavailable != nil {
		return s.unavailable
	}
	now := s.now()
	if now.Sub(s.lastPurge) >= memoryPurgeInterval {
		s.purgeLocked()
		s.lastPurge = now
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	s.entries[key] = memoryEntry{value: stored, expiresAt: now.Add(ttl)}
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unavailable
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) purgeLocked() {
	now := s.now()
	for key, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
}

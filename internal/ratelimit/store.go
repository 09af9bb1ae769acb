package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Store counts hits per key inside a fixed window. Implementations must
// start the window at the first hit and report when it resets.
type Store interface {
	// Hit increments the counter for key and returns the new count together
	// with the time the current window expires.
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Time, error)
}

type memoryEntry struct {
	count   int64
	resetAt time.Time
}

// MemoryStore is an in-process Store for tests and single-node dev setups.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

// Hit implements Store.
func (s *MemoryStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.entries[key]
	if !ok || !now.Before(entry.resetAt) {
		entry = &memoryEntry{resetAt: now.Add(window)}
		s.entries[key] = entry
	}
	entry.count++
	return entry.count, entry.resetAt, nil
}

package session

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Expired entries are dropped
// lazily on read and on every write.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

type memoryItem struct {
	values  Values
	expires time.Time
}

// NewMemoryStore returns an empty MemoryStore using the wall clock.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryItem),
		now:   time.Now,
	}
}

// WithClock replaces the clock used for expiry. It is meant for tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

// Get implements [Store].
func (s *MemoryStore) Get(_ context.Context, id string) (Values, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !s.now().Before(item.expires) {
		delete(s.items, id)
		return nil, ErrNotFound
	}
	return maps.Clone(item.values), nil
}

// Set implements [Store].
func (s *MemoryStore) Set(_ context.Context, id string, values Values, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, item := range s.items {
		if !now.Before(item.expires) {
			delete(s.items, key)
		}
	}

	s.items[id] = memoryItem{
		values:  maps.Clone(values),
		expires: now.Add(ttl),
	}
	return nil
}

// Destroy implements [Store].
func (s *MemoryStore) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

// Len returns the number of entries, including expired ones not yet swept.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

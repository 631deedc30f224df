package elevation

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the in-process fallback used when no Redis client is
// available. Expiry is enforced at read time: Get never returns true
// for a key whose deadline has passed, even if the entry has not been
// swept yet.
type MemoryStore struct {
	mu    sync.Mutex
	until map[string]time.Time
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{until: make(map[string]time.Time), now: time.Now}
}

func (s *MemoryStore) Set(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.until[key] = s.now().Add(ttl)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deadline, ok := s.until[key]
	if !ok {
		return false, nil
	}
	if s.now().After(deadline) {
		delete(s.until, key)
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.until, key)
	return nil
}

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/opencrm/backend/internal/domain/shared"
)

type entry struct {
	expiresAt time.Time
}

// InMemoryIdempotencyStore implements IdempotencyStore with a plain map.
// Suitable for single-instance deployments and testing; state is not
// shared across processes.
type InMemoryIdempotencyStore struct {
	mu        sync.RWMutex
	entries   map[string]entry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore creates a new in-memory idempotency store
// and starts a background goroutine that drops expired keys
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	store := &InMemoryIdempotencyStore{
		entries:  make(map[string]entry),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// MarkProcessed marks a request key as seen with a TTL. Returns true if
// the key was newly marked, false if a live entry already existed.
func (s *InMemoryIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, exists := s.entries[key]; exists {
		if time.Now().Before(e.expiresAt) {
			return false, nil
		}
		// expired entry, overwrite
	}

	s.entries[key] = entry{
		expiresAt: time.Now().Add(ttl),
	}

	return true, nil
}

// IsProcessed checks whether a request key has been seen and not expired
func (s *InMemoryIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[key]
	if !exists {
		return false, nil
	}
	if time.Now().After(e.expiresAt) {
		return false, nil
	}
	return true, nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryIdempotencyStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryIdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
		}
	}
}

// Size returns the number of entries in the store (for testing/monitoring)
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)

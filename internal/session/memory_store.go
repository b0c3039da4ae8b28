package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	data      Data
	expiresAt time.Time
}

// MemoryStore is a process-local Store used when Redis is unavailable.
// Sessions do not survive a restart and are not shared between replicas.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) TTL() time.Duration { return s.ttl }

func (s *MemoryStore) Create(_ context.Context, data Data) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if data.CreatedAt.IsZero() {
		data.CreatedAt = now.UTC()
	}
	s.sweepLocked(now)

	id := uuid.NewString()
	s.entries[id] = memoryEntry{data: data, expiresAt: now.Add(s.ttl)}
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, id)
		return nil, ErrNotFound
	}
	data := entry.data
	return &data, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

func (s *MemoryStore) sweepLocked(now time.Time) {
	for id, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
}

package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int64
	resetAt time.Time
}

// MemoryStore is a process-local Store for tests and Redis-less deployments.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]window
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]window),
		now:     time.Now,
	}
}

func (s *MemoryStore) Incr(ctx context.Context, key string, d time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || now.After(w.resetAt) {
		w = window{resetAt: now.Add(d)}
	}
	w.count++
	s.windows[key] = w

	return w.count, nil
}

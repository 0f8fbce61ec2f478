package memory

import (
	"context"
	"slices"
	"time"

	"github.com/kailas-cloud/photosearch/internal/db"
)

// Get returns a value or db.ErrKeyNotFound when absent or expired.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.kv[key]
	if !ok || (!e.expires.IsZero() && !s.now().Before(e.expires)) {
		return nil, db.ErrKeyNotFound
	}
	return slices.Clone(e.value), nil
}

// SetWithTTL stores a value; ttl <= 0 means no expiry.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := kvEntry{value: slices.Clone(value)}
	if ttl > 0 {
		e.expires = s.now().Add(ttl)
	}
	s.kv[key] = e
	return nil
}

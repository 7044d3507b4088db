package memory

import (
	"context"
	"sync"

	"github.com/hongminglow/rentalctl/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps client state in process memory. Nothing survives a restart.
type Store struct {
	mu      sync.RWMutex
	entries map[string]string
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{entries: make(map[string]string)}
}

// Get returns the value for key.
func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return value, nil
}

// Set stores value under key.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = value
	return nil
}

// Remove deletes key.
func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

// Len reports the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

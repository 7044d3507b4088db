package storage

import (
	"context"
	"errors"
)

// ErrNotFound indicates a key does not exist.
var ErrNotFound = errors.New("key not found")

// Keys owned by the client. Every backend stores values under these names.
const (
	KeyToken         = "token"
	KeyRole          = "userRole"
	KeySavedEmail    = "savedEmail"
	KeySavedPassword = "savedPassword"
	KeyDrawHistory   = "gameHistory"
)

// Store is the persisted client state: a flat string key/value space.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

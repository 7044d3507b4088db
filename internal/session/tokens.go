package session

import (
	"context"
	"errors"
	"log"

	"github.com/hongminglow/rentalctl/internal/models"
	"github.com/hongminglow/rentalctl/internal/storage"
)

// Tokens persists the bearer token and the role flag that accompanies it.
// It performs no validation of its own.
type Tokens struct {
	store storage.Store
}

// NewTokens wraps store.
func NewTokens(store storage.Store) *Tokens {
	return &Tokens{store: store}
}

// Get returns the stored token. Read failures are logged and reported as absent.
func (t *Tokens) Get(ctx context.Context) (string, bool) {
	return read(ctx, t.store, storage.KeyToken)
}

// Set stores token.
func (t *Tokens) Set(ctx context.Context, token string) error {
	return t.store.Set(ctx, storage.KeyToken, token)
}

// Role returns the cached role flag.
func (t *Tokens) Role(ctx context.Context) (models.Role, bool) {
	raw, ok := read(ctx, t.store, storage.KeyRole)
	if !ok {
		return "", false
	}
	return models.ParseRole(raw)
}

// SetRole caches role next to the token.
func (t *Tokens) SetRole(ctx context.Context, role models.Role) error {
	return t.store.Set(ctx, storage.KeyRole, string(role))
}

// ClearRole drops the role flag only.
func (t *Tokens) ClearRole(ctx context.Context) error {
	return t.store.Remove(ctx, storage.KeyRole)
}

// Clear removes the token and the role flag. Saved credentials are untouched.
// Both removals are attempted even if the first fails.
func (t *Tokens) Clear(ctx context.Context) error {
	return errors.Join(
		t.store.Remove(ctx, storage.KeyToken),
		t.store.Remove(ctx, storage.KeyRole),
	)
}

// Apply stores the token of a successful login together with its role flag.
// A response without a role indicator removes any stale flag.
func (t *Tokens) Apply(ctx context.Context, token string, user models.User) error {
	if err := t.Set(ctx, token); err != nil {
		return err
	}
	if role, ok := user.RoleFlag(); ok {
		return t.SetRole(ctx, role)
	}
	return t.ClearRole(ctx)
}

func read(ctx context.Context, store storage.Store, key string) (string, bool) {
	value, err := store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("session: read %s: %v", key, err)
		}
		return "", false
	}
	return value, value != ""
}

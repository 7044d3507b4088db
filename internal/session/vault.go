package session

import (
	"context"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"log"

	"github.com/hongminglow/rentalctl/internal/storage"
)

// Credentials is the email/password pair replayed by silent re-login.
type Credentials struct {
	Email    string
	Password string
}

// Vault keeps the last interactive login's credentials. The password is only
// base64 encoded: anyone who can read the store can recover it.
type Vault struct {
	store storage.Store
}

// NewVault wraps store.
func NewVault(store storage.Store) *Vault {
	return &Vault{store: store}
}

// Save stores email in clear and password encoded.
func (v *Vault) Save(ctx context.Context, email, password string) error {
	if err := v.store.Set(ctx, storage.KeySavedEmail, email); err != nil {
		return err
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(password))
	return v.store.Set(ctx, storage.KeySavedPassword, encoded)
}

// Load returns the saved pair, or false if either half is missing or unreadable.
func (v *Vault) Load(ctx context.Context) (Credentials, bool) {
	email, ok := read(ctx, v.store, storage.KeySavedEmail)
	if !ok {
		return Credentials{}, false
	}
	encoded, ok := read(ctx, v.store, storage.KeySavedPassword)
	if !ok {
		return Credentials{}, false
	}
	password, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		log.Printf("session: saved password is not decodable: %v", err)
		return Credentials{}, false
	}
	return Credentials{Email: email, Password: string(password)}, true
}

// Forget removes the saved pair.
func (v *Vault) Forget(ctx context.Context) error {
	return errors.Join(
		v.store.Remove(ctx, storage.KeySavedEmail),
		v.store.Remove(ctx, storage.KeySavedPassword),
	)
}

// HashPassword returns the lowercase hex SHA-512 digest sent to the login endpoint.
func HashPassword(password string) string {
	sum := sha512.Sum512([]byte(password))
	return hex.EncodeToString(sum[:])
}

package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hongminglow/rentalctl/internal/storage"
	"github.com/hongminglow/rentalctl/internal/storage/memory"
)

func TestVaultStoresEncodedPassword(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	vault := NewVault(store)

	require.NoError(t, vault.Save(ctx, "a@b.com", "hunter2"))

	raw, err := store.Get(ctx, storage.KeySavedPassword)
	require.NoError(t, err)
	require.Equal(t, "aHVudGVyMg==", raw)

	email, err := store.Get(ctx, storage.KeySavedEmail)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", email)

	creds, ok := vault.Load(ctx)
	require.True(t, ok)
	require.Equal(t, "hunter2", creds.Password)
}

func TestVaultLoadRequiresBothHalves(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	vault := NewVault(store)

	require.NoError(t, store.Set(ctx, storage.KeySavedEmail, "a@b.com"))
	_, ok := vault.Load(ctx)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, storage.KeySavedPassword, "%%%not-base64"))
	_, ok = vault.Load(ctx)
	require.False(t, ok)

	require.NoError(t, store.Remove(ctx, storage.KeySavedEmail))
	require.NoError(t, store.Set(ctx, storage.KeySavedPassword, "cHc="))
	_, ok = vault.Load(ctx)
	require.False(t, ok)
}

func TestVaultForget(t *testing.T) {
	ctx := context.Background()
	vault := NewVault(memory.New())

	require.NoError(t, vault.Save(ctx, "a@b.com", "pw"))
	require.NoError(t, vault.Forget(ctx))

	_, ok := vault.Load(ctx)
	require.False(t, ok)
}

func TestHashPassword(t *testing.T) {
	require.Equal(t,
		"ee26b0dd4af7e749aa1a8ee3c10ae9923f618980772e473f8819a5d4940e0db27ac185f8a0e1d5f84f88bc887fd67b143732c304cc5fa9ad8e6f57f50028a8ff",
		HashPassword("test"))
	require.Len(t, HashPassword(""), 128)
}

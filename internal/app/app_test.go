package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hongminglow/rentalctl/internal/config"
	"github.com/hongminglow/rentalctl/internal/storage"
)

func TestOpenStoreLocalBackends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, cfg := range []config.State{
		{Backend: config.BackendMemory},
		{Backend: config.BackendFile, Path: filepath.Join(dir, "nested", "state.json")},
		{Backend: config.BackendSQLite, Path: filepath.Join(dir, "nested", "state.db")},
	} {
		store, err := OpenStore(ctx, cfg)
		require.NoError(t, err, cfg.Backend)
		require.NoError(t, store.Set(ctx, storage.KeyToken, "tok"))
		got, err := store.Get(ctx, storage.KeyToken)
		require.NoError(t, err)
		require.Equal(t, "tok", got)
		require.NoError(t, store.Close())
	}

	_, err := OpenStore(ctx, config.State{Backend: "etcd"})
	require.Error(t, err)
}

func TestNewWiresSession(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, config.Client{
		APIURL: "http://127.0.0.1:0",
		State:  config.State{Backend: config.BackendMemory},
	}, nil)
	require.NoError(t, err)
	defer a.Close()

	require.False(t, a.Session.LoggedIn(ctx))
	require.NoError(t, a.Session.Tokens().Set(ctx, "tok"))
	require.True(t, a.Session.LoggedIn(ctx))
	require.NotNil(t, a.Library.History())
}

package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hongminglow/rentalctl/internal/storage"
	"github.com/hongminglow/rentalctl/internal/storage/storagetest"
)

func TestStoreContract(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	defer store.Close()

	storagetest.Run(t, store)
}

func TestStorePersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, storage.KeyToken, "tok"))
	require.NoError(t, first.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, storage.KeyToken)
	require.NoError(t, err)
	require.Equal(t, "tok", got)
}

func TestStoreReloadsExternalChanges(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Set(ctx, storage.KeyToken, "old"))

	require.NoError(t, os.WriteFile(path, []byte(`{"token":"new"}`), 0o600))

	require.Eventually(t, func() bool {
		got, err := store.Get(ctx, storage.KeyToken)
		return err == nil && got == "new"
	}, 3*time.Second, 20*time.Millisecond)
}

func TestOpenRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, err := Open(path)
	require.Error(t, err)
}

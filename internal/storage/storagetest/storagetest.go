// Package storagetest holds the behaviour every storage.Store backend must share.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hongminglow/rentalctl/internal/storage"
)

// Run exercises store against the storage.Store contract. The store must
// start empty for the keys it touches.
func Run(t *testing.T, store storage.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "storagetest-missing")
		require.True(t, errors.Is(err, storage.ErrNotFound), "got %v", err)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, storage.KeyToken, "abc.def.ghi"))
		got, err := store.Get(ctx, storage.KeyToken)
		require.NoError(t, err)
		require.Equal(t, "abc.def.ghi", got)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, storage.KeyRole, "1"))
		require.NoError(t, store.Set(ctx, storage.KeyRole, "0"))
		got, err := store.Get(ctx, storage.KeyRole)
		require.NoError(t, err)
		require.Equal(t, "0", got)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, storage.KeySavedEmail, "a@b.com"))
		require.NoError(t, store.Remove(ctx, storage.KeySavedEmail))
		_, err := store.Get(ctx, storage.KeySavedEmail)
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("remove missing", func(t *testing.T) {
		require.NoError(t, store.Remove(ctx, "storagetest-never-set"))
	})

	t.Run("concurrent writers", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				key := fmt.Sprintf("storagetest-%d", i)
				if err := store.Set(ctx, key, key); err != nil {
					t.Errorf("set %s: %v", key, err)
				}
			}(i)
		}
		wg.Wait()
		for i := 0; i < 8; i++ {
			key := fmt.Sprintf("storagetest-%d", i)
			got, err := store.Get(ctx, key)
			require.NoError(t, err)
			require.Equal(t, key, got)
			require.NoError(t, store.Remove(ctx, key))
		}
	})
}

package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hongminglow/rentalctl/internal/storage/storagetest"
)

// TestRedisContract runs against a live server.
func TestRedisContract(t *testing.T) {
	addr := os.Getenv("RENTAL_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set RENTAL_TEST_REDIS_ADDR to run this integration test")
	}
	store, err := Open(context.Background(), Options{
		Addr:      addr,
		KeyPrefix: fmt.Sprintf("rentalctl:test:%d:", time.Now().UnixNano()),
	})
	require.NoError(t, err)
	defer store.Close()

	storagetest.Run(t, store)
}

func TestKeyPrefixDefault(t *testing.T) {
	s := New(nil, "")
	require.Equal(t, DefaultKeyPrefix+"token", s.key("token"))
}

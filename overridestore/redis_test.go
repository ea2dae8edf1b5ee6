package overridestore_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gramwalk/overridestore"
)

// redisStore connects to GRAMWALK_REDIS_ADDR or skips the test.
func redisStore(t *testing.T) *overridestore.Redis {
	t.Helper()
	addr := os.Getenv("GRAMWALK_REDIS_ADDR")
	if addr == "" {
		t.Skip("GRAMWALK_REDIS_ADDR not set")
	}
	store, err := overridestore.DialRedis(context.Background(), addr, 0, "gramwalk:test:"+t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Save(context.Background(), nil)
		_ = store.Close()
	})

	return store
}

func TestRedis_RoundTrip(t *testing.T) {
	roundTrip(t, redisStore(t))
}

func TestRedis_MissingKeyIsEmpty(t *testing.T) {
	store := redisStore(t)
	require.NoError(t, store.Save(context.Background(), nil))

	entries, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, entries)
}

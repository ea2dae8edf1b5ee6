package overridestore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gramwalk/override"
	"github.com/katalvlaran/gramwalk/overridestore"
)

func seededModel() *override.Model {
	m := override.New(override.WithCapacity(8))
	m.Observe("()-(he2,何)-(shi4,)", "是", 10)
	m.Observe("()-(he2,何)-(shi4,)", "時", 20)
	m.Observe("()-()-(zhe4,)", "這", 30)
	m.Observe("()-(he2,何)-(shi4,)", "時", 40)

	return m
}

// roundTrip saves a seeded model into store, syncs a fresh model from it and
// compares the two.
func roundTrip(t *testing.T, store overridestore.Store) {
	t.Helper()
	ctx := context.Background()
	src := seededModel()
	require.NoError(t, overridestore.Flush(ctx, store, src))

	dst := override.New(override.WithCapacity(8))
	require.NoError(t, overridestore.Sync(ctx, store, dst))
	assert.Equal(t, src.Snapshot(), dst.Snapshot())
	assert.Equal(t, src.Fingerprints(), dst.Fingerprints())

	got, ok := dst.Suggest("()-(he2,何)-(shi4,)", 40)
	require.True(t, ok)
	assert.Equal(t, "時", got)

	// Saving again replaces rather than appends.
	src.Reset()
	src.Observe("only", "one", 1)
	require.NoError(t, overridestore.Flush(ctx, store, src))
	entries, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "only", entries[0].Fingerprint)
}

func TestSQLite_RoundTrip(t *testing.T) {
	store, err := overridestore.OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()

	roundTrip(t, store)
}

func TestSQLite_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "overrides.db")
	ctx := context.Background()

	store, err := overridestore.OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, overridestore.Flush(ctx, store, seededModel()))
	require.NoError(t, store.Close())
	_, err = os.Stat(path)
	require.NoError(t, err)

	store, err = overridestore.OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()
	entries, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSQLite_EmptyAndClosed(t *testing.T) {
	store, err := overridestore.OpenSQLite(":memory:")
	require.NoError(t, err)

	entries, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, store.Close())
	require.NoError(t, store.Close(), "double close is harmless")
	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, overridestore.ErrClosed)
	assert.ErrorIs(t, store.Save(context.Background(), nil), overridestore.ErrClosed)
}

func TestSync_PropagatesLoadError(t *testing.T) {
	store, err := overridestore.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	err = overridestore.Sync(context.Background(), store, override.New())
	assert.ErrorIs(t, err, overridestore.ErrClosed)
}

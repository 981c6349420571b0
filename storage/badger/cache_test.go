package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/gleanit/core"
	"github.com/poiesic/gleanit/storage"
)

func openTestCache(t *testing.T) storage.VectorCache {
	t.Helper()
	cache, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestCacheRoundTrip(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	err := cache.PutVectors(ctx, "all-minilm",
		storage.VectorEntry{ChunkID: core.ID(1), Vector: []float32{0.1, 0.2, 0.3}},
		storage.VectorEntry{ChunkID: core.ID(2), Vector: []float32{-0.5, 0.5, 0.0}},
	)
	require.NoError(t, err)

	found, err := cache.GetVectors(ctx, "all-minilm", core.ID(1), core.ID(2))
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, found[core.ID(1)])
	assert.Equal(t, []float32{-0.5, 0.5, 0.0}, found[core.ID(2)])
}

func TestCacheMissingKeysSkipped(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	err := cache.PutVectors(ctx, "all-minilm",
		storage.VectorEntry{ChunkID: core.ID(7), Vector: []float32{1, 0}})
	require.NoError(t, err)

	found, err := cache.GetVectors(ctx, "all-minilm", core.ID(7), core.ID(8), core.ID(9))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Contains(t, found, core.ID(7))
}

func TestCacheModelIsolation(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	err := cache.PutVectors(ctx, "all-minilm",
		storage.VectorEntry{ChunkID: core.ID(3), Vector: []float32{1}})
	require.NoError(t, err)

	found, err := cache.GetVectors(ctx, "nomic-embed-text", core.ID(3))
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestCacheOverwrite(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.PutVectors(ctx, "m",
		storage.VectorEntry{ChunkID: core.ID(4), Vector: []float32{1, 1}}))
	require.NoError(t, cache.PutVectors(ctx, "m",
		storage.VectorEntry{ChunkID: core.ID(4), Vector: []float32{2, 2}}))

	found, err := cache.GetVectors(ctx, "m", core.ID(4))
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 2}, found[core.ID(4)])
}

func TestCachePutEmptyIsNoop(t *testing.T) {
	cache := openTestCache(t)
	assert.NoError(t, cache.PutVectors(context.Background(), "m"))
}

func TestCacheClosed(t *testing.T) {
	cache := openTestCache(t)
	require.NoError(t, cache.Close())

	_, err := cache.GetVectors(context.Background(), "m", core.ID(1))
	assert.ErrorIs(t, err, storage.ErrClosed)

	err = cache.PutVectors(context.Background(), "m",
		storage.VectorEntry{ChunkID: core.ID(1), Vector: []float32{1}})
	assert.ErrorIs(t, err, storage.ErrClosed)
}

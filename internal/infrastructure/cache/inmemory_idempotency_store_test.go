package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	newlyMarked, err := store.MarkProcessed(ctx, "batch-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, newlyMarked)

	newlyMarked, err = store.MarkProcessed(ctx, "batch-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, newlyMarked)

	newlyMarked, err = store.MarkProcessed(ctx, "batch-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, newlyMarked)
}

func TestInMemoryIdempotencyStore_IsProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	processed, err := store.IsProcessed(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, processed)

	_, err = store.MarkProcessed(ctx, "batch-1", time.Minute)
	require.NoError(t, err)

	processed, err = store.IsProcessed(ctx, "batch-1")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestInMemoryIdempotencyStore_Expiry(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "batch-1", 10*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	processed, err := store.IsProcessed(ctx, "batch-1")
	require.NoError(t, err)
	assert.False(t, processed)

	// an expired key can be claimed again
	newlyMarked, err := store.MarkProcessed(ctx, "batch-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, newlyMarked)
}

func TestInMemoryIdempotencyStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryIdempotencyStore()

	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "expired", 1*time.Millisecond)
	require.NoError(t, err)
	_, err = store.MarkProcessed(ctx, "live", time.Minute)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	store.cleanup()

	assert.Equal(t, 1, store.Size())
}

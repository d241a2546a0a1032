package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorageRoundTrip(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	require.NoError(t, storage.Set(ctx, "k", "hello", 0))

	var got string
	require.NoError(t, storage.Get(ctx, "k", &got))
	assert.Equal(t, "hello", got)

	require.NoError(t, storage.Delete(ctx, "k"))
	assert.ErrorIs(t, storage.Get(ctx, "k", &got), ErrNotFound)
	assert.ErrorIs(t, storage.Delete(ctx, "k"), ErrNotFound)
}

func TestMemoryStorageExpiry(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	require.NoError(t, storage.Set(ctx, "k", "v", time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	var got string
	assert.ErrorIs(t, storage.Get(ctx, "k", &got), ErrNotFound)
}

func TestStorePrefixesKeys(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	names := New[string](storage, "names:")
	require.NoError(t, names.Set(ctx, "abc", "Alice", 0))

	got, err := names.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got)

	var raw string
	require.NoError(t, storage.Get(ctx, "names:abc", &raw))
	assert.Equal(t, "Alice", raw)

	other := New[string](storage, "other:")
	_, err = other.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

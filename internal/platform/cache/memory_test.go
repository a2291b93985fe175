package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGetExpire(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(WithClock(func() time.Time { return now }))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))
	value, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v"), value)

	now = now.Add(time.Minute)
	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStore_IncrCountsFromZero(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	n, err := store.Incr(ctx, "gen")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	n, err = store.Incr(ctx, "gen")
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	raw, ok, err := store.Get(ctx, "gen")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2", string(raw))
}

func TestMemoryStore_IncrRejectsNonInteger(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "gen", []byte("abc"), 0))
	_, err := store.Incr(ctx, "gen")
	require.Error(t, err)
}

func TestMemoryStore_Closed(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Close())
	_, _, err := store.Get(context.Background(), "k")
	require.ErrorIs(t, err, ErrClosed)
}

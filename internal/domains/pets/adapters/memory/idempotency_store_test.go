package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/pethub-api/internal/domains/pets/ports"
)

func TestIdempotencyStore_ReplayConflictAndExpiry(t *testing.T) {
	store := NewIdempotencyStore(time.Hour)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.WithClock(func() time.Time { return now })
	ctx := context.Background()
	petID := uuid.New()

	saved, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h1", PetID: petID})
	require.NoError(t, err)
	require.Equal(t, now, saved.CreatedAt)
	require.Equal(t, now.Add(time.Hour), saved.ExpiresAt)

	replayed, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h1", PetID: petID})
	require.NoError(t, err)
	require.Equal(t, petID, replayed.PetID)

	existing, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h2", PetID: uuid.New()})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	require.Equal(t, "h1", existing.RequestHash)

	now = now.Add(2 * time.Hour)
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, got)

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), purged)
}

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	pettypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
	"github.com/Apurer/pethub-api/internal/domains/pets/ports"
	platformcache "github.com/Apurer/pethub-api/internal/platform/cache"
)

type countingPets struct {
	ports.PetService
	lists   int
	filters int
	failing bool
}

func (s *countingPets) ListPets(_ context.Context, query pettypes.PetListQuery) (*pettypes.PetPage, error) {
	s.lists++
	pet := domain.NewPet([16]byte{1}, "Buddy")
	return &pettypes.PetPage{
		Items:    []*pettypes.PetProjection{pettypes.NewPetProjection(pet, time.Unix(0, 0).UTC(), time.Unix(0, 0).UTC())},
		Total:    1,
		Page:     query.Page,
		PageSize: query.PageSize,
	}, nil
}

func (s *countingPets) FiltersInfo(context.Context) (*pettypes.FiltersInfo, error) {
	s.filters++
	return &pettypes.FiltersInfo{Locations: []string{"Pune"}}, nil
}

func (s *countingPets) CreatePet(context.Context, pettypes.CreatePetInput) (*pettypes.PetProjection, error) {
	if s.failing {
		return nil, errors.New("insert failed")
	}
	return pettypes.NewPetProjection(domain.NewPet([16]byte{2}, "New"), time.Now(), time.Now()), nil
}

func (s *countingPets) DeletePet(context.Context, pettypes.PetIdentifier) error {
	return ports.ErrNotFound
}

type brokenStore struct{ platformcache.Store }

func (brokenStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (brokenStore) Incr(context.Context, string) (int64, error) {
	return 0, errors.New("connection refused")
}

func TestPetService_ListServedFromCacheUntilWrite(t *testing.T) {
	inner := &countingPets{}
	store := platformcache.NewMemoryStore()
	svc := New(store).WrapPets(inner)
	ctx := context.Background()

	first, err := svc.ListPets(ctx, pettypes.PetListQuery{})
	require.NoError(t, err)
	second, err := svc.ListPets(ctx, pettypes.PetListQuery{Page: 1, PageSize: pettypes.DefaultPageSize})
	require.NoError(t, err)
	require.Equal(t, 1, inner.lists)
	require.Equal(t, first.Items[0].Entity.Name, second.Items[0].Entity.Name)

	_, err = svc.ListPets(ctx, pettypes.PetListQuery{View: pettypes.ViewFeatured})
	require.NoError(t, err)
	require.Equal(t, 2, inner.lists)

	_, err = svc.CreatePet(ctx, pettypes.CreatePetInput{})
	require.NoError(t, err)
	gen, ok, err := store.Get(ctx, GenerationKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", string(gen))

	_, err = svc.ListPets(ctx, pettypes.PetListQuery{})
	require.NoError(t, err)
	require.Equal(t, 3, inner.lists)
}

func TestPetService_FailedWritesKeepGeneration(t *testing.T) {
	inner := &countingPets{failing: true}
	store := platformcache.NewMemoryStore()
	svc := New(store).WrapPets(inner)
	ctx := context.Background()

	_, err := svc.CreatePet(ctx, pettypes.CreatePetInput{})
	require.Error(t, err)
	require.ErrorIs(t, svc.DeletePet(ctx, pettypes.PetIdentifier{}), ports.ErrNotFound)

	_, ok, err := store.Get(ctx, GenerationKey)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPetService_FiltersInfoExpires(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	inner := &countingPets{}
	store := platformcache.NewMemoryStore(platformcache.WithClock(func() time.Time { return now }))
	svc := New(store, WithTTLs(time.Minute, time.Hour)).WrapPets(inner)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		info, err := svc.FiltersInfo(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"Pune"}, info.Locations)
	}
	require.Equal(t, 1, inner.filters)

	now = now.Add(time.Hour)
	_, err := svc.FiltersInfo(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, inner.filters)
}

func TestPetService_StoreOutageFallsThrough(t *testing.T) {
	inner := &countingPets{}
	svc := New(brokenStore{}).WrapPets(inner)
	ctx := context.Background()

	_, err := svc.ListPets(ctx, pettypes.PetListQuery{})
	require.NoError(t, err)
	_, err = svc.ListPets(ctx, pettypes.PetListQuery{})
	require.NoError(t, err)
	require.Equal(t, 2, inner.lists)

	_, err = svc.CreatePet(ctx, pettypes.CreatePetInput{})
	require.NoError(t, err)
}

func TestListKeyEmbedsGeneration(t *testing.T) {
	a := listKey(1, "view=all")
	b := listKey(2, "view=all")
	require.NotEqual(t, a, b)
	require.Contains(t, a, "pets:list:v1:")
	require.Equal(t, "pets:filters_info:v7", filtersKey(7))
}

package memory

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	pettypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
)

func TestBreedList_SearchAndOrdering(t *testing.T) {
	catalog := newTestCatalog()
	catalog.SeedBreed(domain.Breed{ID: uuid.New(), Name: "Pug", SizeCategory: domain.SizeSmall, Description: "Wrinkly"})
	catalog.SeedBreed(domain.Breed{ID: uuid.New(), Name: "Beagle", SizeCategory: domain.SizeMedium, Description: "Scent hound"})
	catalog.SeedBreed(domain.Breed{ID: uuid.New(), Name: "Great Dane", SizeCategory: domain.SizeXLarge, Description: "Gentle giant"})

	page, err := catalog.Breeds().List(context.Background(), pettypes.BreedListQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	require.Equal(t, "Beagle", page.Items[0].Name)

	page, err = catalog.Breeds().List(context.Background(), pettypes.BreedListQuery{
		Ordering: []pettypes.OrderField{{Field: pettypes.OrderSizeCategory, Desc: true}},
	})
	require.NoError(t, err)
	require.Equal(t, "Great Dane", page.Items[0].Name)

	page, err = catalog.Breeds().List(context.Background(), pettypes.BreedListQuery{SearchTerms: []string{"hound"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, "Beagle", page.Items[0].Name)
}

func TestParentList_SearchByRegistration(t *testing.T) {
	catalog := newTestCatalog()
	ctx := context.Background()
	_, err := catalog.Parents().Create(ctx, &domain.Parent{ID: uuid.New(), Name: "Duke", Gender: domain.GenderMale, RegistrationNumber: "KCI-001"})
	require.NoError(t, err)
	_, err = catalog.Parents().Create(ctx, &domain.Parent{ID: uuid.New(), Name: "Bella", Gender: domain.GenderFemale})
	require.NoError(t, err)

	page, err := catalog.Parents().List(ctx, pettypes.ParentListQuery{})
	require.NoError(t, err)
	require.Equal(t, int64(2), page.Total)
	require.Equal(t, "Bella", page.Items[0].Entity.Name)

	page, err = catalog.Parents().List(ctx, pettypes.ParentListQuery{SearchTerms: []string{"kci-001"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, "Duke", page.Items[0].Entity.Name)
}

func TestWindow_OutOfRangeBounds(t *testing.T) {
	items := []int{1, 2, 3}
	require.Equal(t, []int{2, 3}, window(items, 1, 12))
	require.Empty(t, window(items, 3, 12))
	require.Empty(t, window(items, -5, 12))
	require.Empty(t, window(items, math.MaxInt, 12))
	require.Equal(t, []int{3}, window(items, 2, math.MaxInt))
}

func TestBreedList_HugePageIsEmpty(t *testing.T) {
	catalog := newTestCatalog()
	catalog.SeedBreed(domain.Breed{ID: uuid.New(), Name: "Pug", SizeCategory: domain.SizeSmall})

	page, err := catalog.Breeds().List(context.Background(), pettypes.BreedListQuery{Page: math.MaxInt / 2})
	require.NoError(t, err)
	require.Empty(t, page.Items)
	require.Equal(t, int64(1), page.Total)
}

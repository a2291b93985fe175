package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	pettypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
	"github.com/Apurer/pethub-api/internal/domains/pets/ports"
)

type tickingClock struct{ t time.Time }

func (c *tickingClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestCatalog() *Catalog {
	catalog := NewCatalog()
	clock := &tickingClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	catalog.WithClock(clock.now)
	return catalog
}

func seedPet(t *testing.T, repo *PetRepository, name string, mutate func(*domain.Pet)) *domain.Pet {
	t.Helper()
	pet := domain.NewPet(uuid.New(), name)
	if mutate != nil {
		mutate(pet)
	}
	saved, err := repo.Create(context.Background(), pet)
	require.NoError(t, err)
	return saved.Entity
}

func names(page *pettypes.PetPage) []string {
	out := make([]string, 0, len(page.Items))
	for _, item := range page.Items {
		out = append(out, item.Entity.Name)
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func TestList_DefaultOrderingPutsFeaturedFirstThenNewest(t *testing.T) {
	repo := newTestCatalog().Pets()
	seedPet(t, repo, "Old", nil)
	seedPet(t, repo, "Star", func(p *domain.Pet) { p.Featured = true })
	seedPet(t, repo, "New", nil)

	page, err := repo.List(context.Background(), pettypes.PetListQuery{})
	require.NoError(t, err)
	require.Equal(t, []string{"Star", "New", "Old"}, names(page))
	require.Equal(t, int64(3), page.Total)
}

func TestList_Filters(t *testing.T) {
	catalog := newTestCatalog()
	breed := domain.Breed{ID: uuid.New(), Name: "Golden Retriever", SizeCategory: domain.SizeLarge}
	catalog.SeedBreed(breed)
	repo := catalog.Pets()

	seedPet(t, repo, "Buddy", func(p *domain.Pet) {
		p.BreedID = &breed.ID
		p.Price = ptr(1500.0)
		p.AgeMonths = ptr(3)
		p.Location = "Mumbai"
		p.Lifestyle = []domain.Lifestyle{domain.LifestyleFamilyFriendly}
		p.RabiesVaccinated = true
		p.DHPPVaccinated = true
	})
	seedPet(t, repo, "Max", func(p *domain.Pet) {
		p.Price = ptr(400.0)
		p.AgeMonths = ptr(14)
		p.Location = "Pune"
		p.Characteristics = []domain.Characteristic{domain.CharacteristicCalm}
		p.RabiesVaccinated = true
	})
	seedPet(t, repo, "Luna", func(p *domain.Pet) { p.Status = domain.StatusSold })

	cases := []struct {
		name   string
		filter pettypes.PetFilter
		want   []string
	}{
		{"breed", pettypes.PetFilter{BreedID: &breed.ID}, []string{"Buddy"}},
		{"price range", pettypes.PetFilter{PriceMin: ptr(300.0), PriceMax: ptr(1000.0)}, []string{"Max"}},
		{"age exact", pettypes.PetFilter{AgeMonths: ptr(14)}, []string{"Max"}},
		{"location substring", pettypes.PetFilter{Location: "mum"}, []string{"Buddy"}},
		{"lifestyle overlap", pettypes.PetFilter{Lifestyle: []string{"needs_yard", "family_friendly"}}, []string{"Buddy"}},
		{"characteristics overlap", pettypes.PetFilter{Characteristics: []string{"calm"}}, []string{"Max"}},
		{"fully vaccinated", pettypes.PetFilter{FullyVaccinated: ptr(true)}, []string{"Buddy"}},
		{"not fully vaccinated", pettypes.PetFilter{FullyVaccinated: ptr(false)}, []string{"Luna", "Max"}},
		{"status", pettypes.PetFilter{Status: ptr(domain.StatusSold)}, []string{"Luna"}},
		{"search breed name", pettypes.PetFilter{SearchTerms: []string{"golden"}}, []string{"Buddy"}},
		{"search all terms", pettypes.PetFilter{SearchTerms: []string{"max", "pune"}}, []string{"Max"}},
		{"search no match", pettypes.PetFilter{SearchTerms: []string{"max", "mumbai"}}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, err := repo.List(context.Background(), pettypes.PetListQuery{
				Filter:   tc.filter,
				Ordering: []pettypes.OrderField{{Field: pettypes.OrderName}},
			})
			require.NoError(t, err)
			require.Equal(t, tc.want, names(page))
		})
	}
}

func TestList_CannedViewOverridesConflictingFilter(t *testing.T) {
	repo := newTestCatalog().Pets()
	seedPet(t, repo, "Sold champ", func(p *domain.Pet) {
		p.ChampionsBloodline = true
		p.Status = domain.StatusSold
	})
	seedPet(t, repo, "Champ", func(p *domain.Pet) { p.ChampionsBloodline = true })

	page, err := repo.List(context.Background(), pettypes.PetListQuery{
		View:   pettypes.ViewChampions,
		Filter: pettypes.PetFilter{Status: ptr(domain.StatusSold)},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Champ"}, names(page))
}

func TestList_PriceOrderingPutsNullsLast(t *testing.T) {
	repo := newTestCatalog().Pets()
	seedPet(t, repo, "Free", nil)
	seedPet(t, repo, "Cheap", func(p *domain.Pet) { p.Price = ptr(10.0) })
	seedPet(t, repo, "Dear", func(p *domain.Pet) { p.Price = ptr(99.0) })

	page, err := repo.List(context.Background(), pettypes.PetListQuery{Ordering: []pettypes.OrderField{{Field: pettypes.OrderPrice}}})
	require.NoError(t, err)
	require.Equal(t, []string{"Cheap", "Dear", "Free"}, names(page))
}

func TestList_PaginatesAndShowsOnlyMainPhoto(t *testing.T) {
	repo := newTestCatalog().Pets()
	pet := seedPet(t, repo, "Rex", nil)
	for i := 0; i < 3; i++ {
		_, err := repo.AddPhoto(context.Background(), domain.Photo{ID: uuid.New(), PetID: pet.ID, Image: "pets/gallery/x.jpg", Order: i, IsMain: i == 1})
		require.NoError(t, err)
	}
	for i := 0; i < 12; i++ {
		seedPet(t, repo, "Filler", nil)
	}

	page, err := repo.List(context.Background(), pettypes.PetListQuery{Ordering: []pettypes.OrderField{{Field: pettypes.OrderCreatedAt}}, PageSize: 12})
	require.NoError(t, err)
	require.Len(t, page.Items, 12)
	require.True(t, page.HasNext())
	require.Len(t, page.Items[0].Entity.Photos, 1)
	require.True(t, page.Items[0].Entity.Photos[0].IsMain)

	second, err := repo.List(context.Background(), pettypes.PetListQuery{Ordering: []pettypes.OrderField{{Field: pettypes.OrderCreatedAt}}, Page: 2, PageSize: 12})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	require.False(t, second.HasNext())
}

func TestPhotoCaps(t *testing.T) {
	repo := newTestCatalog().Pets()
	pet := seedPet(t, repo, "Rex", nil)
	ctx := context.Background()

	_, err := repo.AddPhoto(ctx, domain.Photo{ID: uuid.New(), PetID: pet.ID, Image: "a.jpg", IsMain: true})
	require.NoError(t, err)
	_, err = repo.AddPhoto(ctx, domain.Photo{ID: uuid.New(), PetID: pet.ID, Image: "b.jpg", IsMain: true})
	require.ErrorIs(t, err, domain.ErrMainPhotoTaken)

	for i := 0; i < 4; i++ {
		_, err = repo.AddPhoto(ctx, domain.Photo{ID: uuid.New(), PetID: pet.ID, Image: "c.jpg"})
		require.NoError(t, err)
	}
	_, err = repo.AddPhoto(ctx, domain.Photo{ID: uuid.New(), PetID: pet.ID, Image: "d.jpg"})
	require.ErrorIs(t, err, domain.ErrPhotoLimit)
}

func TestVideoCap(t *testing.T) {
	repo := newTestCatalog().Pets()
	pet := seedPet(t, repo, "Rex", nil)
	ctx := context.Background()
	for i := 0; i < domain.MaxVideosPerPet; i++ {
		_, err := repo.AddVideo(ctx, domain.Video{ID: uuid.New(), PetID: pet.ID, Video: "v.mp4"})
		require.NoError(t, err)
	}
	_, err := repo.AddVideo(ctx, domain.Video{ID: uuid.New(), PetID: pet.ID, Video: "v.mp4"})
	require.ErrorIs(t, err, domain.ErrVideoLimit)
}

func TestSoftDeleteHidesPet(t *testing.T) {
	repo := newTestCatalog().Pets()
	pet := seedPet(t, repo, "Ghost", func(p *domain.Pet) { p.Location = "Goa" })
	ctx := context.Background()

	require.NoError(t, repo.Delete(ctx, pet.ID, ports.DeleteSoft))

	_, err := repo.GetByID(ctx, pet.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
	page, err := repo.List(ctx, pettypes.PetListQuery{})
	require.NoError(t, err)
	require.Empty(t, page.Items)
	stats, err := repo.FilterStats(ctx)
	require.NoError(t, err)
	require.Empty(t, stats.Locations)
	require.ErrorIs(t, repo.Delete(ctx, pet.ID, ports.DeleteHard), ports.ErrNotFound)
}

func TestFilterStats(t *testing.T) {
	repo := newTestCatalog().Pets()
	ctx := context.Background()

	stats, err := repo.FilterStats(ctx)
	require.NoError(t, err)
	require.Equal(t, pettypes.Range[float64]{}, stats.PriceRange)
	require.Equal(t, pettypes.Range[int]{}, stats.AgeRange)

	seedPet(t, repo, "A", func(p *domain.Pet) {
		p.Location = "Pune"
		p.Price = ptr(250.0)
		p.AgeMonths = ptr(6)
	})
	seedPet(t, repo, "B", func(p *domain.Pet) {
		p.Location = "Delhi"
		p.Price = ptr(900.0)
	})
	seedPet(t, repo, "C", func(p *domain.Pet) {
		p.Location = "Pune"
		p.AgeMonths = ptr(30)
	})

	stats, err = repo.FilterStats(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Delhi", "Pune"}, stats.Locations)
	require.Equal(t, pettypes.Range[float64]{Min: 250, Max: 900}, stats.PriceRange)
	require.Equal(t, pettypes.Range[int]{Min: 6, Max: 30}, stats.AgeRange)
}

func TestParentDeleteNullsPetReferences(t *testing.T) {
	catalog := newTestCatalog()
	ctx := context.Background()
	father, err := catalog.Parents().Create(ctx, &domain.Parent{ID: uuid.New(), Name: "Duke", Gender: domain.GenderMale})
	require.NoError(t, err)
	pet := seedPet(t, catalog.Pets(), "Pup", func(p *domain.Pet) { p.FatherID = &father.Entity.ID })

	loaded, err := catalog.Pets().GetByID(ctx, pet.ID)
	require.NoError(t, err)
	require.Equal(t, "Duke", loaded.Entity.Father.Name)

	require.NoError(t, catalog.Parents().Delete(ctx, father.Entity.ID))

	loaded, err = catalog.Pets().GetByID(ctx, pet.ID)
	require.NoError(t, err)
	require.Nil(t, loaded.Entity.FatherID)
	require.Nil(t, loaded.Entity.Father)
}

func TestUpdateKeepsMediaOwnedByDedicatedOperations(t *testing.T) {
	repo := newTestCatalog().Pets()
	ctx := context.Background()
	pet := seedPet(t, repo, "Rex", nil)
	_, err := repo.AddPhoto(ctx, domain.Photo{ID: uuid.New(), PetID: pet.ID, Image: "a.jpg"})
	require.NoError(t, err)
	_, err = repo.SetHealthCertificate(ctx, pet.ID, "pets/health_docs/a.pdf")
	require.NoError(t, err)

	stale := pet.Clone()
	stale.Name = "Rexy"
	updated, err := repo.Update(ctx, stale)
	require.NoError(t, err)
	require.Equal(t, "Rexy", updated.Entity.Name)
	require.Len(t, updated.Entity.Photos, 1)
	require.Equal(t, "pets/health_docs/a.pdf", updated.Entity.HealthCertificate)
	require.True(t, updated.Metadata.UpdatedAt.After(updated.Metadata.CreatedAt))
}

package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	pettypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
	"github.com/Apurer/pethub-api/internal/domains/pets/ports"
	"github.com/Apurer/pethub-api/internal/shared/projection"
)

var _ ports.PetRepository = (*PetRepository)(nil)

// PetRepository stores pets and their media in the catalog.
type PetRepository struct {
	c *Catalog
}

// Create inserts a new pet.
func (r *PetRepository) Create(_ context.Context, pet *domain.Pet) (*pettypes.PetProjection, error) {
	if pet == nil {
		return nil, errors.New("cannot save nil pet")
	}
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if _, exists := r.c.pets[pet.ID]; exists {
		return nil, errors.New("pet already exists")
	}
	now := r.c.now()
	stored := pet.Clone()
	stored.Photos, stored.Videos = nil, nil
	entry := &storedPet{pet: stored, metadata: projection.NewMetadata(now)}
	r.c.pets[pet.ID] = entry
	return r.c.detail(entry), nil
}

// Update replaces the scalar fields and references of a pet. Media and the
// health certificate are owned by their dedicated operations.
func (r *PetRepository) Update(_ context.Context, pet *domain.Pet) (*pettypes.PetProjection, error) {
	if pet == nil {
		return nil, errors.New("cannot save nil pet")
	}
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	entry, ok := r.c.livePet(pet.ID)
	if !ok {
		return nil, ports.ErrNotFound
	}
	stored := pet.Clone()
	stored.Photos = entry.pet.Photos
	stored.Videos = entry.pet.Videos
	stored.HealthCertificate = entry.pet.HealthCertificate
	entry.pet = stored
	entry.metadata.Touch(r.c.now())
	return r.c.detail(entry), nil
}

// GetByID returns the detail shape of a live pet.
func (r *PetRepository) GetByID(_ context.Context, id uuid.UUID) (*pettypes.PetProjection, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	entry, ok := r.c.livePet(id)
	if !ok {
		return nil, ports.ErrNotFound
	}
	return r.c.detail(entry), nil
}

// Delete removes the pet, or hides it when mode is soft.
func (r *PetRepository) Delete(_ context.Context, id uuid.UUID, mode ports.DeleteMode) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	entry, ok := r.c.livePet(id)
	if !ok {
		return ports.ErrNotFound
	}
	if mode == ports.DeleteSoft {
		entry.metadata.MarkDeleted(r.c.now())
		return nil
	}
	delete(r.c.pets, id)
	return nil
}

// List filters, orders and paginates live pets into the list shape.
func (r *PetRepository) List(_ context.Context, query pettypes.PetListQuery) (*pettypes.PetPage, error) {
	query = query.Normalize()
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()

	matched := make([]*storedPet, 0, len(r.c.pets))
	for _, entry := range r.c.pets {
		if entry.metadata.Deleted() {
			continue
		}
		if r.c.matches(entry.pet, query.Filter) {
			matched = append(matched, entry)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return lessPet(matched[i], matched[j], query.Ordering)
	})

	page := &pettypes.PetPage{Total: int64(len(matched)), Page: query.Page, PageSize: query.PageSize}
	page.Items = []*pettypes.PetProjection{}
	for _, entry := range window(matched, query.Offset(), query.PageSize) {
		page.Items = append(page.Items, r.c.summary(entry))
	}
	return page, nil
}

// FilterStats aggregates distinct locations and the price and age spans.
func (r *PetRepository) FilterStats(context.Context) (*pettypes.FilterStats, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	stats := &pettypes.FilterStats{Locations: []string{}}
	seen := map[string]struct{}{}
	var havePrice, haveAge bool
	for _, entry := range r.c.pets {
		if entry.metadata.Deleted() {
			continue
		}
		pet := entry.pet
		if pet.Location != "" {
			if _, ok := seen[pet.Location]; !ok {
				seen[pet.Location] = struct{}{}
				stats.Locations = append(stats.Locations, pet.Location)
			}
		}
		if pet.Price != nil {
			if !havePrice || *pet.Price < stats.PriceRange.Min {
				stats.PriceRange.Min = *pet.Price
			}
			if !havePrice || *pet.Price > stats.PriceRange.Max {
				stats.PriceRange.Max = *pet.Price
			}
			havePrice = true
		}
		if pet.AgeMonths != nil {
			if !haveAge || *pet.AgeMonths < stats.AgeRange.Min {
				stats.AgeRange.Min = *pet.AgeMonths
			}
			if !haveAge || *pet.AgeMonths > stats.AgeRange.Max {
				stats.AgeRange.Max = *pet.AgeMonths
			}
			haveAge = true
		}
	}
	sort.Strings(stats.Locations)
	return stats, nil
}

// ListPhotos returns the gallery ordered by position.
func (r *PetRepository) ListPhotos(_ context.Context, petID uuid.UUID) ([]domain.Photo, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	entry, ok := r.c.livePet(petID)
	if !ok {
		return nil, ports.ErrNotFound
	}
	photos := append([]domain.Photo{}, entry.pet.Photos...)
	domain.SortPhotos(photos)
	return photos, nil
}

// AddPhoto checks the caps and inserts under the catalog lock.
func (r *PetRepository) AddPhoto(_ context.Context, photo domain.Photo) (*domain.Photo, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	entry, ok := r.c.livePet(photo.PetID)
	if !ok {
		return nil, ports.ErrNotFound
	}
	if err := domain.CanAddPhoto(entry.pet.Photos, photo); err != nil {
		return nil, err
	}
	photo.CreatedAt = r.c.now()
	entry.pet.Photos = append(entry.pet.Photos, photo)
	entry.metadata.Touch(photo.CreatedAt)
	return &photo, nil
}

// UpdatePhoto changes order and main flag under the catalog lock.
func (r *PetRepository) UpdatePhoto(_ context.Context, photo domain.Photo) (*domain.Photo, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	entry, ok := r.c.livePet(photo.PetID)
	if !ok {
		return nil, ports.ErrNotFound
	}
	for i := range entry.pet.Photos {
		current := &entry.pet.Photos[i]
		if current.ID != photo.ID {
			continue
		}
		if photo.IsMain {
			if err := domain.CanPromotePhoto(entry.pet.Photos, photo.ID); err != nil {
				return nil, err
			}
		}
		current.Order = photo.Order
		current.IsMain = photo.IsMain
		updated := *current
		return &updated, nil
	}
	return nil, ports.ErrNotFound
}

// DeletePhoto detaches a photo and returns it.
func (r *PetRepository) DeletePhoto(_ context.Context, petID, photoID uuid.UUID) (*domain.Photo, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	entry, ok := r.c.livePet(petID)
	if !ok {
		return nil, ports.ErrNotFound
	}
	for i, photo := range entry.pet.Photos {
		if photo.ID == photoID {
			entry.pet.Photos = append(entry.pet.Photos[:i:i], entry.pet.Photos[i+1:]...)
			return &photo, nil
		}
	}
	return nil, ports.ErrNotFound
}

// ListVideos returns the videos oldest first.
func (r *PetRepository) ListVideos(_ context.Context, petID uuid.UUID) ([]domain.Video, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	entry, ok := r.c.livePet(petID)
	if !ok {
		return nil, ports.ErrNotFound
	}
	videos := append([]domain.Video{}, entry.pet.Videos...)
	domain.SortVideos(videos)
	return videos, nil
}

// AddVideo checks the cap and inserts under the catalog lock.
func (r *PetRepository) AddVideo(_ context.Context, video domain.Video) (*domain.Video, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	entry, ok := r.c.livePet(video.PetID)
	if !ok {
		return nil, ports.ErrNotFound
	}
	if err := domain.CanAddVideo(entry.pet.Videos); err != nil {
		return nil, err
	}
	video.CreatedAt = r.c.now()
	entry.pet.Videos = append(entry.pet.Videos, video)
	return &video, nil
}

// DeleteVideo detaches a video and returns it.
func (r *PetRepository) DeleteVideo(_ context.Context, petID, videoID uuid.UUID) (*domain.Video, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	entry, ok := r.c.livePet(petID)
	if !ok {
		return nil, ports.ErrNotFound
	}
	for i, video := range entry.pet.Videos {
		if video.ID == videoID {
			entry.pet.Videos = append(entry.pet.Videos[:i:i], entry.pet.Videos[i+1:]...)
			return &video, nil
		}
	}
	return nil, ports.ErrNotFound
}

// SetHealthCertificate swaps the certificate key and returns the previous one.
func (r *PetRepository) SetHealthCertificate(_ context.Context, petID uuid.UUID, key string) (string, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	entry, ok := r.c.livePet(petID)
	if !ok {
		return "", ports.ErrNotFound
	}
	previous := entry.pet.HealthCertificate
	entry.pet.HealthCertificate = key
	entry.metadata.Touch(r.c.now())
	return previous, nil
}

// detail builds the full read shape. Caller holds the lock.
func (c *Catalog) detail(entry *storedPet) *pettypes.PetProjection {
	pet := entry.pet.Clone()
	c.hydrate(pet)
	domain.SortPhotos(pet.Photos)
	domain.SortVideos(pet.Videos)
	return pettypes.NewPetProjection(pet, entry.metadata.CreatedAt, entry.metadata.UpdatedAt)
}

// summary builds the list shape: breed and main photo only. Caller holds the lock.
func (c *Catalog) summary(entry *storedPet) *pettypes.PetProjection {
	pet := entry.pet.Clone()
	c.hydrate(pet)
	pet.Father, pet.Mother = nil, nil
	main := entry.pet.MainPhoto()
	pet.Photos = nil
	if main != nil {
		pet.Photos = []domain.Photo{*main}
	}
	pet.Videos = nil
	return pettypes.NewPetProjection(pet, entry.metadata.CreatedAt, entry.metadata.UpdatedAt)
}

// matches evaluates every filter predicate. Caller holds the lock.
func (c *Catalog) matches(pet *domain.Pet, f pettypes.PetFilter) bool {
	if f.BreedID != nil && (pet.BreedID == nil || *pet.BreedID != *f.BreedID) {
		return false
	}
	if f.Status != nil && pet.Status != *f.Status {
		return false
	}
	if f.Gender != nil && pet.Gender != *f.Gender {
		return false
	}
	if f.Size != nil && pet.Size != *f.Size {
		return false
	}
	for _, check := range []struct {
		want *bool
		have bool
	}{
		{f.Featured, pet.Featured},
		{f.ChampionsBloodline, pet.ChampionsBloodline},
		{f.RabiesVaccinated, pet.RabiesVaccinated},
		{f.DHPPVaccinated, pet.DHPPVaccinated},
		{f.Dewormed, pet.Dewormed},
		{f.KCIRegistered, pet.KCIRegistered},
		{f.Microchipped, pet.Microchipped},
		{f.FullyVaccinated, pet.FullyVaccinated()},
	} {
		if check.want != nil && *check.want != check.have {
			return false
		}
	}
	if !floatWithin(pet.Price, f.Price, f.PriceMin, f.PriceMax) {
		return false
	}
	if !intWithin(pet.AgeMonths, f.AgeMonths, f.AgeMin, f.AgeMax) {
		return false
	}
	if f.Location != "" && !containsFold(pet.Location, f.Location) {
		return false
	}
	if len(f.Lifestyle) > 0 && !overlaps(pet.Lifestyle, f.Lifestyle) {
		return false
	}
	if len(f.Characteristics) > 0 && !overlaps(pet.Characteristics, f.Characteristics) {
		return false
	}
	for _, term := range f.SearchTerms {
		if !c.searchMatches(pet, term) {
			return false
		}
	}
	return true
}

func (c *Catalog) searchMatches(pet *domain.Pet, term string) bool {
	fields := []string{
		pet.Name, pet.Color, pet.Location, string(pet.Size),
		string(pet.Status), pet.Description, pet.HealthNotes,
	}
	if pet.BreedID != nil {
		if b, ok := c.breeds[*pet.BreedID]; ok {
			fields = append(fields, b.breed.Name)
		}
	}
	for _, field := range fields {
		if containsFold(field, term) {
			return true
		}
	}
	return false
}

func floatWithin(value, exact, min, max *float64) bool {
	if exact == nil && min == nil && max == nil {
		return true
	}
	if value == nil {
		return false
	}
	return (exact == nil || *value == *exact) &&
		(min == nil || *value >= *min) &&
		(max == nil || *value <= *max)
}

func intWithin(value, exact, min, max *int) bool {
	if exact == nil && min == nil && max == nil {
		return true
	}
	if value == nil {
		return false
	}
	return (exact == nil || *value == *exact) &&
		(min == nil || *value >= *min) &&
		(max == nil || *value <= *max)
}

func overlaps[T ~string](have []T, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if string(h) == w {
				return true
			}
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// lessPet orders like PostgreSQL: NULLS LAST ascending, NULLS FIRST descending, id last.
func lessPet(a, b *storedPet, ordering []pettypes.OrderField) bool {
	for _, o := range ordering {
		cmp := comparePets(a, b, o.Field)
		if cmp == 0 {
			continue
		}
		if o.Desc {
			return cmp > 0
		}
		return cmp < 0
	}
	return strings.Compare(a.pet.ID.String(), b.pet.ID.String()) < 0
}

func comparePets(a, b *storedPet, field string) int {
	switch field {
	case pettypes.OrderCreatedAt:
		return a.metadata.CreatedAt.Compare(b.metadata.CreatedAt)
	case pettypes.OrderUpdatedAt:
		return a.metadata.UpdatedAt.Compare(b.metadata.UpdatedAt)
	case pettypes.OrderName:
		return strings.Compare(a.pet.Name, b.pet.Name)
	case pettypes.OrderFeatured:
		return compareBool(a.pet.Featured, b.pet.Featured)
	case pettypes.OrderPrice:
		return compareNullable(a.pet.Price, b.pet.Price)
	case pettypes.OrderAgeMonths:
		return compareNullable(a.pet.AgeMonths, b.pet.AgeMonths)
	}
	return 0
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	}
	return -1
}

func compareNullable[T int | float64](a, b *T) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	}
	return 0
}

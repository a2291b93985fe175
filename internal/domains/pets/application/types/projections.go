package types

import (
	"time"

	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
	"github.com/Apurer/pethub-api/internal/shared/projection"
)

// PetProjection transports a pet aggregate together with its persistence metadata.
type PetProjection = projection.Projection[*domain.Pet]

// ParentProjection transports a parent record together with its persistence metadata.
type ParentProjection = projection.Projection[*domain.Parent]

// NewPetProjection wraps an aggregate with persistence metadata.
func NewPetProjection(pet *domain.Pet, createdAt, updatedAt time.Time) *PetProjection {
	if pet == nil {
		return nil
	}
	return projection.Of(pet, projection.Metadata{CreatedAt: createdAt, UpdatedAt: updatedAt})
}

// NewParentProjection wraps a parent with persistence metadata.
func NewParentProjection(parent *domain.Parent, createdAt, updatedAt time.Time) *ParentProjection {
	if parent == nil {
		return nil
	}
	return projection.Of(parent, projection.Metadata{CreatedAt: createdAt, UpdatedAt: updatedAt})
}

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items    []T
	Total    int64
	Page     int
	PageSize int
}

// HasNext reports whether items exist past this page.
func (p Page[T]) HasNext() bool {
	if p.PageSize <= 0 || p.Page < 1 {
		return false
	}
	return int64(p.Page) <= (p.Total-1)/int64(p.PageSize)
}

// HasPrevious reports whether this is not the first page.
func (p Page[T]) HasPrevious() bool {
	return p.Page > 1
}

// PetPage is a page of list-shaped pets.
type PetPage = Page[*PetProjection]

// BreedPage is a page of breeds.
type BreedPage = Page[domain.Breed]

// ParentPage is a page of parents.
type ParentPage = Page[*ParentProjection]

// Range is an inclusive numeric span.
type Range[T int | float64] struct {
	Min T
	Max T
}

// FilterStats aggregates the data-dependent parts of the filter metadata.
type FilterStats struct {
	Locations  []string
	PriceRange Range[float64]
	AgeRange   Range[int]
}

// FiltersInfo is everything a client needs to render filter controls.
type FiltersInfo struct {
	Sizes           []domain.Choice
	Genders         []domain.Choice
	Statuses        []domain.Choice
	Lifestyles      []domain.Choice
	Characteristics []domain.Choice
	Locations       []string
	PriceRange      Range[float64]
	AgeRange        Range[int]
}

package application

import (
	"context"

	"github.com/google/uuid"

	types "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
	"github.com/Apurer/pethub-api/internal/domains/pets/ports"
)

// BreedCatalog serves read-only breed reference data.
type BreedCatalog struct {
	repo ports.BreedRepository
}

// NewBreedCatalog wires the breed use cases.
func NewBreedCatalog(repo ports.BreedRepository) *BreedCatalog {
	return &BreedCatalog{repo: repo}
}

// ListBreeds returns one page of breeds.
func (c *BreedCatalog) ListBreeds(ctx context.Context, query types.BreedListQuery) (*types.BreedPage, error) {
	query = query.Normalize()
	page, err := c.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}
	if query.Page > 1 && int64(query.Offset()) >= page.Total {
		return nil, ErrInvalidPage
	}
	return page, nil
}

// GetBreed loads a single breed.
func (c *BreedCatalog) GetBreed(ctx context.Context, id uuid.UUID) (*domain.Breed, error) {
	return c.repo.GetByID(ctx, id)
}

var _ ports.BreedService = (*BreedCatalog)(nil)

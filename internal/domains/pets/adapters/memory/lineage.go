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

var (
	_ ports.BreedRepository  = (*BreedRepository)(nil)
	_ ports.ParentRepository = (*ParentRepository)(nil)
)

// BreedRepository reads breeds from the catalog.
type BreedRepository struct {
	c *Catalog
}

// List searches, orders and paginates breeds.
func (r *BreedRepository) List(_ context.Context, query pettypes.BreedListQuery) (*pettypes.BreedPage, error) {
	query = query.Normalize()
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()

	matched := make([]*storedBreed, 0, len(r.c.breeds))
	for _, entry := range r.c.breeds {
		if matchesAll(query.SearchTerms, entry.breed.Name, string(entry.breed.SizeCategory), entry.breed.Description) {
			matched = append(matched, entry)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		for _, o := range query.Ordering {
			var cmp int
			switch o.Field {
			case pettypes.OrderName:
				cmp = strings.Compare(a.breed.Name, b.breed.Name)
			case pettypes.OrderSizeCategory:
				cmp = strings.Compare(string(a.breed.SizeCategory), string(b.breed.SizeCategory))
			case pettypes.OrderCreatedAt:
				cmp = a.createdAt.Compare(b.createdAt)
			}
			if cmp != 0 {
				return (cmp < 0) != o.Desc
			}
		}
		return a.breed.ID.String() < b.breed.ID.String()
	})

	page := &pettypes.BreedPage{Total: int64(len(matched)), Page: query.Page, PageSize: query.PageSize}
	for _, entry := range window(matched, query.Offset(), query.PageSize) {
		page.Items = append(page.Items, entry.breed)
	}
	if page.Items == nil {
		page.Items = []domain.Breed{}
	}
	return page, nil
}

// GetByID returns a single breed.
func (r *BreedRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Breed, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	entry, ok := r.c.breeds[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	breed := entry.breed
	return &breed, nil
}

// ParentRepository stores lineage records in the catalog.
type ParentRepository struct {
	c *Catalog
}

// Create inserts a parent.
func (r *ParentRepository) Create(_ context.Context, parent *domain.Parent) (*pettypes.ParentProjection, error) {
	if parent == nil {
		return nil, errors.New("cannot save nil parent")
	}
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if _, exists := r.c.parents[parent.ID]; exists {
		return nil, errors.New("parent already exists")
	}
	now := r.c.now()
	entry := &storedParent{parent: parent.Clone(), metadata: projection.NewMetadata(now)}
	r.c.parents[parent.ID] = entry
	return parentCopy(entry), nil
}

// Update replaces a parent.
func (r *ParentRepository) Update(_ context.Context, parent *domain.Parent) (*pettypes.ParentProjection, error) {
	if parent == nil {
		return nil, errors.New("cannot save nil parent")
	}
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	entry, ok := r.c.parents[parent.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	entry.parent = parent.Clone()
	entry.metadata.Touch(r.c.now())
	return parentCopy(entry), nil
}

// GetByID returns a single parent.
func (r *ParentRepository) GetByID(_ context.Context, id uuid.UUID) (*pettypes.ParentProjection, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	entry, ok := r.c.parents[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return parentCopy(entry), nil
}

// Delete removes a parent and nulls every pet reference to it.
func (r *ParentRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if _, ok := r.c.parents[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.c.parents, id)
	for _, entry := range r.c.pets {
		if entry.pet.FatherID != nil && *entry.pet.FatherID == id {
			entry.pet.FatherID = nil
		}
		if entry.pet.MotherID != nil && *entry.pet.MotherID == id {
			entry.pet.MotherID = nil
		}
	}
	return nil
}

// List searches and paginates parents ordered by name.
func (r *ParentRepository) List(_ context.Context, query pettypes.ParentListQuery) (*pettypes.ParentPage, error) {
	query = query.Normalize()
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()

	matched := make([]*storedParent, 0, len(r.c.parents))
	for _, entry := range r.c.parents {
		if matchesAll(query.SearchTerms, entry.parent.Name, entry.parent.RegistrationNumber) {
			matched = append(matched, entry)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i].parent, matched[j].parent
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID.String() < b.ID.String()
	})

	page := &pettypes.ParentPage{Total: int64(len(matched)), Page: query.Page, PageSize: query.PageSize}
	page.Items = []*pettypes.ParentProjection{}
	for _, entry := range window(matched, query.Offset(), query.PageSize) {
		page.Items = append(page.Items, parentCopy(entry))
	}
	return page, nil
}

func parentCopy(entry *storedParent) *pettypes.ParentProjection {
	return pettypes.NewParentProjection(entry.parent.Clone(), entry.metadata.CreatedAt, entry.metadata.UpdatedAt)
}

// matchesAll requires every term to appear in at least one field.
func matchesAll(terms []string, fields ...string) bool {
	for _, term := range terms {
		found := false
		for _, field := range fields {
			if containsFold(field, term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func window[T any](items []T, offset, size int) []T {
	if offset < 0 || size < 0 || offset >= len(items) {
		return items[:0]
	}
	if size > len(items)-offset {
		size = len(items) - offset
	}
	return items[offset : offset+size]
}

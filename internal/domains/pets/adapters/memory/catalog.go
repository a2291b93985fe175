package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
	"github.com/Apurer/pethub-api/internal/shared/projection"
)

// Catalog is the shared in-memory state behind the pet, breed and parent
// repositories, so references between them resolve like foreign keys.
type Catalog struct {
	mu      sync.RWMutex
	pets    map[uuid.UUID]*storedPet
	breeds  map[uuid.UUID]*storedBreed
	parents map[uuid.UUID]*storedParent
	now     func() time.Time
}

type storedPet struct {
	pet      *domain.Pet
	metadata projection.Metadata
}

type storedBreed struct {
	breed     domain.Breed
	createdAt time.Time
}

type storedParent struct {
	parent   *domain.Parent
	metadata projection.Metadata
}

// NewCatalog constructs an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		pets:    map[uuid.UUID]*storedPet{},
		breeds:  map[uuid.UUID]*storedBreed{},
		parents: map[uuid.UUID]*storedParent{},
		now:     time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (c *Catalog) WithClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

// Pets returns the pet repository view of the catalog.
func (c *Catalog) Pets() *PetRepository { return &PetRepository{c: c} }

// Breeds returns the breed repository view of the catalog.
func (c *Catalog) Breeds() *BreedRepository { return &BreedRepository{c: c} }

// Parents returns the parent repository view of the catalog.
func (c *Catalog) Parents() *ParentRepository { return &ParentRepository{c: c} }

// SeedBreed inserts or replaces a breed. Breeds have no write endpoint.
func (c *Catalog) SeedBreed(breed domain.Breed) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if breed.ID == uuid.Nil {
		breed.ID = uuid.New()
	}
	createdAt := c.now()
	if existing, ok := c.breeds[breed.ID]; ok {
		createdAt = existing.createdAt
	}
	c.breeds[breed.ID] = &storedBreed{breed: breed, createdAt: createdAt}
}

// livePet returns the entry unless it is missing or soft-deleted. Caller holds the lock.
func (c *Catalog) livePet(id uuid.UUID) (*storedPet, bool) {
	entry, ok := c.pets[id]
	if !ok || entry.metadata.Deleted() {
		return nil, false
	}
	return entry, true
}

// hydrate attaches the referenced breed and parents. Caller holds the lock.
func (c *Catalog) hydrate(pet *domain.Pet) {
	pet.Breed, pet.Father, pet.Mother = nil, nil, nil
	if pet.BreedID != nil {
		if b, ok := c.breeds[*pet.BreedID]; ok {
			breed := b.breed
			pet.Breed = &breed
		}
	}
	if pet.FatherID != nil {
		if p, ok := c.parents[*pet.FatherID]; ok {
			pet.Father = p.parent.Clone()
		}
	}
	if pet.MotherID != nil {
		if p, ok := c.parents[*pet.MotherID]; ok {
			pet.Mother = p.parent.Clone()
		}
	}
}

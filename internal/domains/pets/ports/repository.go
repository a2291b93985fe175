package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	pettypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
)

// ErrNotFound is returned when the addressed record does not exist (or is soft-deleted).
var ErrNotFound = errors.New("not found")

// DeleteMode selects how pets are removed.
type DeleteMode string

const (
	// DeleteHard removes the row; photos and videos cascade.
	DeleteHard DeleteMode = "hard"
	// DeleteSoft stamps the row as deleted and hides it from every read.
	DeleteSoft DeleteMode = "soft"
)

// Valid reports whether the mode is known.
func (m DeleteMode) Valid() bool {
	return m == DeleteHard || m == DeleteSoft
}

// PetRepository persists pets and their media.
type PetRepository interface {
	Create(ctx context.Context, pet *domain.Pet) (*pettypes.PetProjection, error)
	Update(ctx context.Context, pet *domain.Pet) (*pettypes.PetProjection, error)
	// GetByID loads the detail shape: breed, parents, ordered photos and videos.
	GetByID(ctx context.Context, id uuid.UUID) (*pettypes.PetProjection, error)
	Delete(ctx context.Context, id uuid.UUID, mode DeleteMode) error
	// List loads the list shape: breed and main photo only.
	List(ctx context.Context, query pettypes.PetListQuery) (*pettypes.PetPage, error)
	FilterStats(ctx context.Context) (*pettypes.FilterStats, error)

	ListPhotos(ctx context.Context, petID uuid.UUID) ([]domain.Photo, error)
	// AddPhoto enforces the photo cap and the single main photo atomically.
	AddPhoto(ctx context.Context, photo domain.Photo) (*domain.Photo, error)
	// UpdatePhoto enforces the single main photo atomically.
	UpdatePhoto(ctx context.Context, photo domain.Photo) (*domain.Photo, error)
	DeletePhoto(ctx context.Context, petID, photoID uuid.UUID) (*domain.Photo, error)

	ListVideos(ctx context.Context, petID uuid.UUID) ([]domain.Video, error)
	// AddVideo enforces the video cap atomically.
	AddVideo(ctx context.Context, video domain.Video) (*domain.Video, error)
	DeleteVideo(ctx context.Context, petID, videoID uuid.UUID) (*domain.Video, error)

	// SetHealthCertificate stores the new document key and returns the replaced one.
	SetHealthCertificate(ctx context.Context, petID uuid.UUID, key string) (string, error)
}

// BreedRepository reads breed reference data.
type BreedRepository interface {
	List(ctx context.Context, query pettypes.BreedListQuery) (*pettypes.BreedPage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Breed, error)
}

// ParentRepository persists lineage records.
type ParentRepository interface {
	Create(ctx context.Context, parent *domain.Parent) (*pettypes.ParentProjection, error)
	Update(ctx context.Context, parent *domain.Parent) (*pettypes.ParentProjection, error)
	GetByID(ctx context.Context, id uuid.UUID) (*pettypes.ParentProjection, error)
	// Delete removes the parent; pets referencing it keep living with the reference nulled.
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, query pettypes.ParentListQuery) (*pettypes.ParentPage, error)
}

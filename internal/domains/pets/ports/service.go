package ports

import (
	"context"

	"github.com/google/uuid"

	pettypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
)

// PetService defines the pet catalog use cases exposed to adapters (inbound/driving port).
type PetService interface {
	ListPets(ctx context.Context, query pettypes.PetListQuery) (*pettypes.PetPage, error)
	GetPet(ctx context.Context, input pettypes.PetIdentifier) (*pettypes.PetProjection, error)
	CreatePet(ctx context.Context, input pettypes.CreatePetInput) (*pettypes.PetProjection, error)
	UpdatePet(ctx context.Context, input pettypes.UpdatePetInput) (*pettypes.PetProjection, error)
	DeletePet(ctx context.Context, input pettypes.PetIdentifier) error
	FiltersInfo(ctx context.Context) (*pettypes.FiltersInfo, error)

	ListPhotos(ctx context.Context, input pettypes.PetIdentifier) ([]domain.Photo, error)
	AddPhoto(ctx context.Context, input pettypes.AddPhotoInput) (*domain.Photo, error)
	UpdatePhoto(ctx context.Context, input pettypes.UpdatePhotoInput) (*domain.Photo, error)
	DeletePhoto(ctx context.Context, input pettypes.MediaIdentifier) error

	ListVideos(ctx context.Context, input pettypes.PetIdentifier) ([]domain.Video, error)
	AddVideo(ctx context.Context, input pettypes.AddVideoInput) (*domain.Video, error)
	DeleteVideo(ctx context.Context, input pettypes.MediaIdentifier) error

	UploadHealthCertificate(ctx context.Context, input pettypes.HealthCertificateInput) (*pettypes.PetProjection, error)
}

// BreedService exposes read-only breed reference data.
type BreedService interface {
	ListBreeds(ctx context.Context, query pettypes.BreedListQuery) (*pettypes.BreedPage, error)
	GetBreed(ctx context.Context, id uuid.UUID) (*domain.Breed, error)
}

// ParentService manages lineage records.
type ParentService interface {
	ListParents(ctx context.Context, query pettypes.ParentListQuery) (*pettypes.ParentPage, error)
	GetParent(ctx context.Context, id uuid.UUID) (*pettypes.ParentProjection, error)
	CreateParent(ctx context.Context, input pettypes.ParentMutationInput) (*pettypes.ParentProjection, error)
	UpdateParent(ctx context.Context, input pettypes.UpdateParentInput) (*pettypes.ParentProjection, error)
	DeleteParent(ctx context.Context, id uuid.UUID) error
}

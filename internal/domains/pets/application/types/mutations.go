package types

import (
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
)

// Patch is an update to a nullable field. Set=false leaves the field untouched,
// Set with a nil Value clears it.
type Patch[T any] struct {
	Set   bool
	Value *T
}

// Assign builds a patch that stores value.
func Assign[T any](value T) Patch[T] {
	return Patch[T]{Set: true, Value: &value}
}

// Clear builds a patch that nulls the field.
func Clear[T any]() Patch[T] {
	return Patch[T]{Set: true}
}

// Apply writes the patch into target when set.
func (p Patch[T]) Apply(target **T) {
	if !p.Set {
		return
	}
	if p.Value == nil {
		*target = nil
		return
	}
	v := *p.Value
	*target = &v
}

// PetMutationInput carries writable pet fields. Nil pointers and unset patches are left untouched.
type PetMutationInput struct {
	Name               *string
	Description        *string
	Color              *string
	WeightKg           Patch[float64]
	Size               *domain.Size
	Gender             *domain.Gender
	AgeMonths          Patch[int]
	ChampionsBloodline *bool

	Price    Patch[float64]
	Featured *bool
	Status   *domain.Status

	RabiesVaccinated      *bool
	RabiesVaccinationDate Patch[time.Time]
	DHPPVaccinated        *bool
	DHPPVaccinationDate   Patch[time.Time]
	Dewormed              *bool
	DewormingDate         Patch[time.Time]

	KCIRegistered      *bool
	RegistrationNumber *string
	Microchipped       *bool
	MicrochipNumber    *string
	HealthNotes        *string

	Location        *string
	Lifestyle       *[]domain.Lifestyle
	Characteristics *[]domain.Characteristic

	BreedID  Patch[uuid.UUID]
	FatherID Patch[uuid.UUID]
	MotherID Patch[uuid.UUID]
}

// CreatePetInput creates a pet. IdempotencyKey, when set, makes retries replay the first result.
type CreatePetInput struct {
	PetMutationInput
	IdempotencyKey string
}

// UpdatePetInput updates an existing pet. A full update requires every mandatory field.
type UpdatePetInput struct {
	ID uuid.UUID
	PetMutationInput
	Partial bool
}

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// AddPhotoInput attaches a new gallery image.
type AddPhotoInput struct {
	PetID  uuid.UUID
	File   Upload
	Order  int
	IsMain bool
}

// UpdatePhotoInput changes a photo position or main flag.
type UpdatePhotoInput struct {
	PetID   uuid.UUID
	PhotoID uuid.UUID
	Order   *int
	IsMain  *bool
}

// AddVideoInput attaches a new clip.
type AddVideoInput struct {
	PetID uuid.UUID
	File  Upload
	Title string
}

// HealthCertificateInput replaces the vet certificate document.
type HealthCertificateInput struct {
	PetID uuid.UUID
	File  Upload
}

// MediaCleanupInput lists stored objects that are no longer referenced.
type MediaCleanupInput struct {
	PetID  uuid.UUID
	Keys   []string
	Reason string
}

// ParentMutationInput carries writable parent fields.
type ParentMutationInput struct {
	Name               *string
	Gender             *domain.Gender
	DateOfBirth        Patch[time.Time]
	RegistrationNumber *string
}

// UpdateParentInput updates an existing parent.
type UpdateParentInput struct {
	ID uuid.UUID
	ParentMutationInput
	Partial bool
}

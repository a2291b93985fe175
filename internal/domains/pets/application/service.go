package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	types "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
	"github.com/Apurer/pethub-api/internal/domains/pets/ports"
)

// Storage key prefixes per media kind.
const (
	PhotoKeyPrefix       = "pets/gallery/"
	VideoKeyPrefix       = "pets/videos/"
	CertificateKeyPrefix = "pets/health_docs/"
)

// Service orchestrates the pet catalog use cases.
type Service struct {
	pets        ports.PetRepository
	breeds      ports.BreedRepository
	parents     ports.ParentRepository
	idempotency ports.IdempotencyStore
	storage     ports.MediaStorage
	cleaner     ports.MediaCleaner
	deleteMode  ports.DeleteMode
	logger      *slog.Logger
	newID       func() uuid.UUID
}

// Option configures optional collaborators.
type Option func(*Service)

// WithIdempotencyStore enables Idempotency-Key replay on create.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) { s.idempotency = store }
}

// WithMediaStorage enables photo, video and certificate uploads.
func WithMediaStorage(storage ports.MediaStorage) Option {
	return func(s *Service) { s.storage = storage }
}

// WithMediaCleaner sets how orphaned objects are removed after deletes.
func WithMediaCleaner(cleaner ports.MediaCleaner) Option {
	return func(s *Service) { s.cleaner = cleaner }
}

// WithDeleteMode selects hard or soft pet deletion.
func WithDeleteMode(mode ports.DeleteMode) Option {
	return func(s *Service) {
		if mode.Valid() {
			s.deleteMode = mode
		}
	}
}

// WithLogger injects the logger used for best-effort side effects.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator overrides identifier generation for deterministic tests.
func WithIDGenerator(next func() uuid.UUID) Option {
	return func(s *Service) {
		if next != nil {
			s.newID = next
		}
	}
}

// NewService wires the pets service with its dependencies.
func NewService(pets ports.PetRepository, breeds ports.BreedRepository, parents ports.ParentRepository, opts ...Option) *Service {
	s := &Service{
		pets:       pets,
		breeds:     breeds,
		parents:    parents,
		deleteMode: ports.DeleteHard,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:      uuid.New,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ListPets returns one page of list-shaped pets.
func (s *Service) ListPets(ctx context.Context, query types.PetListQuery) (*types.PetPage, error) {
	query = query.Normalize()
	page, err := s.pets.List(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	if query.Page > 1 && int64(query.Offset()) >= page.Total {
		return nil, ErrInvalidPage
	}
	return page, nil
}

// GetPet loads the detail shape of a pet.
func (s *Service) GetPet(ctx context.Context, input types.PetIdentifier) (*types.PetProjection, error) {
	projection, err := s.pets.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return projection, nil
}

// CreatePet validates and persists a new pet.
func (s *Service) CreatePet(ctx context.Context, input types.CreatePetInput) (*types.PetProjection, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	var fingerprint string
	if key != "" && s.idempotency != nil {
		hash, err := FingerprintCreatePet(input.PetMutationInput)
		if err != nil {
			return nil, err
		}
		fingerprint = hash
		existing, err := s.idempotency.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return s.replay(ctx, existing, fingerprint)
		}
	}

	pet := domain.NewPet(s.newID(), "")
	if err := s.prepare(ctx, pet, input.PetMutationInput, true); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.pets.Create(ctx, pet)
	if err != nil {
		return nil, mapError(err)
	}

	if fingerprint != "" {
		stored, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{Key: key, RequestHash: fingerprint, PetID: saved.Entity.ID})
		if err != nil {
			if errors.Is(err, ports.ErrIdempotencyConflict) && stored != nil {
				return s.replay(ctx, stored, fingerprint)
			}
			return nil, err
		}
	}
	return saved, nil
}

func (s *Service) replay(ctx context.Context, record *ports.IdempotencyRecord, fingerprint string) (*types.PetProjection, error) {
	if record.RequestHash != fingerprint {
		return nil, ports.ErrIdempotencyConflict
	}
	return s.GetPet(ctx, types.PetIdentifier{ID: record.PetID})
}

// UpdatePet applies a full or partial update and re-validates the merged pet.
func (s *Service) UpdatePet(ctx context.Context, input types.UpdatePetInput) (*types.PetProjection, error) {
	current, err := s.pets.GetByID(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	pet := current.Entity.Clone()
	if err := s.prepare(ctx, pet, input.PetMutationInput, !input.Partial); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.pets.Update(ctx, pet)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// DeletePet removes a pet using the configured delete mode.
func (s *Service) DeletePet(ctx context.Context, input types.PetIdentifier) error {
	var keys []string
	if s.deleteMode == ports.DeleteHard {
		current, err := s.pets.GetByID(ctx, input.ID)
		if err != nil {
			return mapError(err)
		}
		keys = current.Entity.MediaKeys()
	}
	if err := s.pets.Delete(ctx, input.ID, s.deleteMode); err != nil {
		return mapError(err)
	}
	s.cleanup(ctx, input.ID, keys, "pet deleted")
	return nil
}

// FiltersInfo combines the static choices with catalog-wide aggregates.
func (s *Service) FiltersInfo(ctx context.Context) (*types.FiltersInfo, error) {
	stats, err := s.pets.FilterStats(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	locations := stats.Locations
	if locations == nil {
		locations = []string{}
	}
	return &types.FiltersInfo{
		Sizes:           domain.SizeChoices(),
		Genders:         domain.GenderChoices(),
		Statuses:        domain.StatusChoices(),
		Lifestyles:      domain.LifestyleChoices(),
		Characteristics: domain.CharacteristicChoices(),
		Locations:       locations,
		PriceRange:      stats.PriceRange,
		AgeRange:        stats.AgeRange,
	}, nil
}

// ListPhotos returns the ordered gallery of a pet.
func (s *Service) ListPhotos(ctx context.Context, input types.PetIdentifier) ([]domain.Photo, error) {
	photos, err := s.pets.ListPhotos(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return photos, nil
}

// AddPhoto uploads an image and attaches it to the gallery.
func (s *Service) AddPhoto(ctx context.Context, input types.AddPhotoInput) (*domain.Photo, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	if err := validateUpload("image", input.File, isImage, msgInvalidImage); err != nil {
		return nil, mapError(err)
	}
	photo := domain.Photo{
		ID:     s.newID(),
		PetID:  input.PetID,
		Order:  input.Order,
		IsMain: input.IsMain,
	}
	photo.Image = mediaKey(PhotoKeyPrefix, photo.ID, input.File.Filename)
	if err := photo.Validate(); err != nil {
		return nil, mapError(err)
	}
	existing, err := s.pets.ListPhotos(ctx, input.PetID)
	if err != nil {
		return nil, mapError(err)
	}
	if err := domain.CanAddPhoto(existing, photo); err != nil {
		return nil, mapError(err)
	}
	if err := s.storage.Save(ctx, photo.Image, input.File.Body, input.File.Size, input.File.ContentType); err != nil {
		return nil, err
	}
	saved, err := s.pets.AddPhoto(ctx, photo)
	if err != nil {
		s.discard(ctx, photo.Image)
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdatePhoto changes the position or main flag of a photo.
func (s *Service) UpdatePhoto(ctx context.Context, input types.UpdatePhotoInput) (*domain.Photo, error) {
	photos, err := s.pets.ListPhotos(ctx, input.PetID)
	if err != nil {
		return nil, mapError(err)
	}
	var photo *domain.Photo
	for i := range photos {
		if photos[i].ID == input.PhotoID {
			photo = &photos[i]
			break
		}
	}
	if photo == nil {
		return nil, ports.ErrNotFound
	}
	updated := *photo
	if input.Order != nil {
		updated.Order = *input.Order
	}
	if input.IsMain != nil {
		updated.IsMain = *input.IsMain
	}
	if err := updated.Validate(); err != nil {
		return nil, mapError(err)
	}
	if updated.IsMain {
		if err := domain.CanPromotePhoto(photos, updated.ID); err != nil {
			return nil, mapError(err)
		}
	}
	saved, err := s.pets.UpdatePhoto(ctx, updated)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// DeletePhoto detaches a photo and removes its stored object.
func (s *Service) DeletePhoto(ctx context.Context, input types.MediaIdentifier) error {
	deleted, err := s.pets.DeletePhoto(ctx, input.PetID, input.MediaID)
	if err != nil {
		return mapError(err)
	}
	s.cleanup(ctx, input.PetID, []string{deleted.Image}, "photo deleted")
	return nil
}

// ListVideos returns the videos of a pet, oldest first.
func (s *Service) ListVideos(ctx context.Context, input types.PetIdentifier) ([]domain.Video, error) {
	videos, err := s.pets.ListVideos(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return videos, nil
}

// AddVideo uploads a clip and attaches it to the pet.
func (s *Service) AddVideo(ctx context.Context, input types.AddVideoInput) (*domain.Video, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	if err := validateUpload("video", input.File, isVideo, msgInvalidVideo); err != nil {
		return nil, mapError(err)
	}
	video := domain.Video{ID: s.newID(), PetID: input.PetID, Title: strings.TrimSpace(input.Title)}
	video.Video = mediaKey(VideoKeyPrefix, video.ID, input.File.Filename)
	if err := video.Validate(); err != nil {
		return nil, mapError(err)
	}
	existing, err := s.pets.ListVideos(ctx, input.PetID)
	if err != nil {
		return nil, mapError(err)
	}
	if err := domain.CanAddVideo(existing); err != nil {
		return nil, mapError(err)
	}
	if err := s.storage.Save(ctx, video.Video, input.File.Body, input.File.Size, input.File.ContentType); err != nil {
		return nil, err
	}
	saved, err := s.pets.AddVideo(ctx, video)
	if err != nil {
		s.discard(ctx, video.Video)
		return nil, mapError(err)
	}
	return saved, nil
}

// DeleteVideo detaches a video and removes its stored object.
func (s *Service) DeleteVideo(ctx context.Context, input types.MediaIdentifier) error {
	deleted, err := s.pets.DeleteVideo(ctx, input.PetID, input.MediaID)
	if err != nil {
		return mapError(err)
	}
	s.cleanup(ctx, input.PetID, []string{deleted.Video}, "video deleted")
	return nil
}

// UploadHealthCertificate replaces the vet certificate of a pet.
func (s *Service) UploadHealthCertificate(ctx context.Context, input types.HealthCertificateInput) (*types.PetProjection, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	if err := validateUpload("health_certificate", input.File, isDocument, msgInvalidDocument); err != nil {
		return nil, mapError(err)
	}
	if _, err := s.pets.GetByID(ctx, input.PetID); err != nil {
		return nil, mapError(err)
	}
	key := mediaKey(CertificateKeyPrefix, s.newID(), input.File.Filename)
	if err := s.storage.Save(ctx, key, input.File.Body, input.File.Size, input.File.ContentType); err != nil {
		return nil, err
	}
	previous, err := s.pets.SetHealthCertificate(ctx, input.PetID, key)
	if err != nil {
		s.discard(ctx, key)
		return nil, mapError(err)
	}
	if previous != "" {
		s.cleanup(ctx, input.PetID, []string{previous}, "health certificate replaced")
	}
	return s.GetPet(ctx, types.PetIdentifier{ID: input.PetID})
}

// prepare applies the mutation, resolves references and validates the merged pet.
func (s *Service) prepare(ctx context.Context, pet *domain.Pet, input types.PetMutationInput, requireMandatory bool) error {
	violations := &domain.ValidationError{}
	if requireMandatory && input.Name == nil {
		violations.Add("name", domain.MsgRequired)
	}
	applyPetMutation(pet, input)
	if err := pet.Validate(); err != nil {
		v, ok := domain.AsValidationError(err)
		if !ok {
			return err
		}
		violations.Merge(v)
	}
	if err := s.resolveReferences(ctx, pet, violations); err != nil {
		return err
	}
	return violations.Err()
}

func (s *Service) resolveReferences(ctx context.Context, pet *domain.Pet, violations *domain.ValidationError) error {
	pet.Breed = nil
	if pet.BreedID != nil {
		breed, err := s.breeds.GetByID(ctx, *pet.BreedID)
		switch {
		case errors.Is(err, ports.ErrNotFound):
			violations.Add("breed_id", domain.MsgUnknownReference)
		case err != nil:
			return err
		default:
			pet.Breed = breed
		}
	}
	father, err := s.resolveParent(ctx, pet.FatherID, "father_id", violations)
	if err != nil {
		return err
	}
	mother, err := s.resolveParent(ctx, pet.MotherID, "mother_id", violations)
	if err != nil {
		return err
	}
	pet.Father, pet.Mother = father, mother
	return nil
}

func (s *Service) resolveParent(ctx context.Context, id *uuid.UUID, field string, violations *domain.ValidationError) (*domain.Parent, error) {
	if id == nil {
		return nil, nil
	}
	parent, err := s.parents.GetByID(ctx, *id)
	if errors.Is(err, ports.ErrNotFound) {
		violations.Add(field, domain.MsgUnknownReference)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return parent.Entity, nil
}

func applyPetMutation(pet *domain.Pet, input types.PetMutationInput) {
	setString(&pet.Name, input.Name)
	setString(&pet.Description, input.Description)
	setString(&pet.Color, input.Color)
	input.WeightKg.Apply(&pet.WeightKg)
	if input.Size != nil {
		pet.Size = *input.Size
	}
	if input.Gender != nil {
		pet.Gender = *input.Gender
	}
	input.AgeMonths.Apply(&pet.AgeMonths)
	setBool(&pet.ChampionsBloodline, input.ChampionsBloodline)

	input.Price.Apply(&pet.Price)
	setBool(&pet.Featured, input.Featured)
	if input.Status != nil {
		pet.Status = *input.Status
	}

	setBool(&pet.RabiesVaccinated, input.RabiesVaccinated)
	input.RabiesVaccinationDate.Apply(&pet.RabiesVaccinationDate)
	setBool(&pet.DHPPVaccinated, input.DHPPVaccinated)
	input.DHPPVaccinationDate.Apply(&pet.DHPPVaccinationDate)
	setBool(&pet.Dewormed, input.Dewormed)
	input.DewormingDate.Apply(&pet.DewormingDate)

	setBool(&pet.KCIRegistered, input.KCIRegistered)
	setString(&pet.RegistrationNumber, input.RegistrationNumber)
	setBool(&pet.Microchipped, input.Microchipped)
	setString(&pet.MicrochipNumber, input.MicrochipNumber)
	setString(&pet.HealthNotes, input.HealthNotes)

	setString(&pet.Location, input.Location)
	if input.Lifestyle != nil {
		pet.SetLifestyle(*input.Lifestyle)
	}
	if input.Characteristics != nil {
		pet.SetCharacteristics(*input.Characteristics)
	}

	input.BreedID.Apply(&pet.BreedID)
	input.FatherID.Apply(&pet.FatherID)
	input.MotherID.Apply(&pet.MotherID)
}

func (s *Service) cleanup(ctx context.Context, petID uuid.UUID, keys []string, reason string) {
	if s.cleaner == nil || len(keys) == 0 {
		return
	}
	input := types.MediaCleanupInput{PetID: petID, Keys: keys, Reason: reason}
	if err := s.cleaner.CleanupMedia(ctx, input); err != nil {
		s.logger.WarnContext(ctx, "media cleanup not scheduled",
			slog.String("pet.id", petID.String()),
			slog.Int("keys", len(keys)),
			slog.String("error", err.Error()))
	}
}

func (s *Service) discard(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "failed to discard uploaded object", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func setString(target *string, value *string) {
	if value != nil {
		*target = strings.TrimSpace(*value)
	}
}

func setBool(target *bool, value *bool) {
	if value != nil {
		*target = *value
	}
}

func mediaKey(prefix string, id uuid.UUID, filename string) string {
	return prefix + id.String() + strings.ToLower(filepath.Ext(filename))
}

var _ ports.PetService = (*Service)(nil)

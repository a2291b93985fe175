package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	pettypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
	"github.com/Apurer/pethub-api/internal/domains/pets/ports"
)

var _ ports.PetRepository = (*PetRepository)(nil)

// PetRepository persists pets and their media in PostgreSQL.
type PetRepository struct {
	db *gorm.DB
}

// NewPetRepository wires the repository. The caller owns the DB lifecycle and
// runs migrations beforehand.
func NewPetRepository(db *gorm.DB) *PetRepository {
	return &PetRepository{db: db}
}

// Create inserts a pet and returns its detail shape.
func (r *PetRepository) Create(ctx context.Context, pet *domain.Pet) (*pettypes.PetProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, errors.New("cannot save nil pet")
	}
	rec := newPetRecord(pet)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&rec).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, pet.ID)
}

// Update writes the scalar columns and references of a live pet.
func (r *PetRepository) Update(ctx context.Context, pet *domain.Pet) (*pettypes.PetProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, errors.New("cannot save nil pet")
	}
	rec := newPetRecord(pet)
	rec.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).
		Model(&petRecord{ID: pet.ID}).
		Select(petWritableColumns).
		Omit(clause.Associations).
		Updates(&rec)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, pet.ID)
}

// GetByID loads the detail shape in one joined statement plus the media preloads.
func (r *PetRepository) GetByID(ctx context.Context, id uuid.UUID) (*pettypes.PetProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rec petRecord
	err := r.db.WithContext(ctx).
		Joins("Breed").
		Joins("Father").
		Joins("Mother").
		Preload("Photos", orderPhotos).
		Preload("Videos", orderVideos).
		Where("pets.id = ?", id).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.toProjection(), nil
}

// Delete removes a live pet. Hard deletes cascade to photos and videos.
func (r *PetRepository) Delete(ctx context.Context, id uuid.UUID, mode ports.DeleteMode) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	db := r.db.WithContext(ctx)
	if mode != ports.DeleteSoft {
		db = db.Unscoped().Where("deleted_at IS NULL")
	}
	result := db.Where("id = ?", id).Delete(&petRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List reads one page of the list projection: breed joined, main photo preloaded.
func (r *PetRepository) List(ctx context.Context, query pettypes.PetListQuery) (*pettypes.PetPage, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query = query.Normalize()
	filtered := applyPetFilter(r.db.WithContext(ctx).Model(&petRecord{}), query.Filter)

	var total int64
	if err := filtered.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}
	page := &pettypes.PetPage{Total: total, Page: query.Page, PageSize: query.PageSize, Items: []*pettypes.PetProjection{}}
	if total == 0 || int64(query.Offset()) >= total {
		return page, nil
	}

	var recs []petRecord
	err := applyOrdering(filtered.Session(&gorm.Session{}), "pets", query.Ordering, petOrderColumns).
		Select(petListColumns).
		Joins("Breed").
		Preload("Photos", "is_main = ?", true).
		Limit(query.PageSize).
		Offset(query.Offset()).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	for i := range recs {
		page.Items = append(page.Items, recs[i].toProjection())
	}
	return page, nil
}

// FilterStats aggregates distinct locations and the price and age spans of live pets.
func (r *PetRepository) FilterStats(ctx context.Context) (*pettypes.FilterStats, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	stats := &pettypes.FilterStats{Locations: []string{}}
	db := r.db.WithContext(ctx)
	if err := db.Model(&petRecord{}).
		Where("location <> ''").
		Distinct().
		Order("location").
		Pluck("location", &stats.Locations).Error; err != nil {
		return nil, err
	}

	var agg struct {
		MinPrice *float64
		MaxPrice *float64
		MinAge   *int
		MaxAge   *int
	}
	if err := db.Model(&petRecord{}).
		Select("MIN(price) AS min_price, MAX(price) AS max_price, MIN(age_months) AS min_age, MAX(age_months) AS max_age").
		Scan(&agg).Error; err != nil {
		return nil, err
	}
	if agg.MinPrice != nil && agg.MaxPrice != nil {
		stats.PriceRange = pettypes.Range[float64]{Min: *agg.MinPrice, Max: *agg.MaxPrice}
	}
	if agg.MinAge != nil && agg.MaxAge != nil {
		stats.AgeRange = pettypes.Range[int]{Min: *agg.MinAge, Max: *agg.MaxAge}
	}
	return stats, nil
}

// ListPhotos returns the gallery of a live pet ordered by position.
func (r *PetRepository) ListPhotos(ctx context.Context, petID uuid.UUID) ([]domain.Photo, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var photos []domain.Photo
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensurePet(tx, petID, false); err != nil {
			return err
		}
		var recs []photoRecord
		if err := orderPhotos(tx).Where("pet_id = ?", petID).Find(&recs).Error; err != nil {
			return err
		}
		photos = make([]domain.Photo, 0, len(recs))
		for i := range recs {
			photos = append(photos, recs[i].toDomain())
		}
		return nil
	})
	return photos, err
}

// AddPhoto locks the owning pet, re-checks the caps and inserts.
func (r *PetRepository) AddPhoto(ctx context.Context, photo domain.Photo) (*domain.Photo, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	rec := newPhotoRecord(photo)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensurePet(tx, photo.PetID, true); err != nil {
			return err
		}
		existing, err := loadPhotos(tx, photo.PetID)
		if err != nil {
			return err
		}
		if err := domain.CanAddPhoto(existing, photo); err != nil {
			return err
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return nil, translateMainPhoto(err)
	}
	saved := rec.toDomain()
	return &saved, nil
}

// UpdatePhoto changes order and main flag while holding the pet lock.
func (r *PetRepository) UpdatePhoto(ctx context.Context, photo domain.Photo) (*domain.Photo, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var saved domain.Photo
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensurePet(tx, photo.PetID, true); err != nil {
			return err
		}
		existing, err := loadPhotos(tx, photo.PetID)
		if err != nil {
			return err
		}
		if photo.IsMain {
			if err := domain.CanPromotePhoto(existing, photo.ID); err != nil {
				return err
			}
		}
		result := tx.Model(&photoRecord{}).
			Where("id = ? AND pet_id = ?", photo.ID, photo.PetID).
			Updates(map[string]any{"order": photo.Order, "is_main": photo.IsMain})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		var rec photoRecord
		if err := tx.Take(&rec, "id = ?", photo.ID).Error; err != nil {
			return err
		}
		saved = rec.toDomain()
		return nil
	})
	if err != nil {
		return nil, translateMainPhoto(err)
	}
	return &saved, nil
}

// DeletePhoto removes a photo of a live pet and returns it.
func (r *PetRepository) DeletePhoto(ctx context.Context, petID, photoID uuid.UUID) (*domain.Photo, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rec photoRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensurePet(tx, petID, true); err != nil {
			return err
		}
		if err := takeChild(tx, &rec, petID, photoID); err != nil {
			return err
		}
		return tx.Delete(&rec).Error
	})
	if err != nil {
		return nil, err
	}
	deleted := rec.toDomain()
	return &deleted, nil
}

// ListVideos returns the videos of a live pet, oldest first.
func (r *PetRepository) ListVideos(ctx context.Context, petID uuid.UUID) ([]domain.Video, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var videos []domain.Video
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensurePet(tx, petID, false); err != nil {
			return err
		}
		var err error
		videos, err = loadVideos(tx, petID)
		return err
	})
	return videos, err
}

// AddVideo locks the owning pet, re-checks the cap and inserts.
func (r *PetRepository) AddVideo(ctx context.Context, video domain.Video) (*domain.Video, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	rec := newVideoRecord(video)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensurePet(tx, video.PetID, true); err != nil {
			return err
		}
		existing, err := loadVideos(tx, video.PetID)
		if err != nil {
			return err
		}
		if err := domain.CanAddVideo(existing); err != nil {
			return err
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return nil, err
	}
	saved := rec.toDomain()
	return &saved, nil
}

// DeleteVideo removes a video of a live pet and returns it.
func (r *PetRepository) DeleteVideo(ctx context.Context, petID, videoID uuid.UUID) (*domain.Video, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rec videoRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensurePet(tx, petID, true); err != nil {
			return err
		}
		if err := takeChild(tx, &rec, petID, videoID); err != nil {
			return err
		}
		return tx.Delete(&rec).Error
	})
	if err != nil {
		return nil, err
	}
	deleted := rec.toDomain()
	return &deleted, nil
}

// SetHealthCertificate swaps the certificate key under the pet lock.
func (r *PetRepository) SetHealthCertificate(ctx context.Context, petID uuid.UUID, key string) (string, error) {
	if err := r.ensureDB(); err != nil {
		return "", err
	}
	var previous string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec petRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "health_certificate").
			Take(&rec, "id = ?", petID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ErrNotFound
		}
		if err != nil {
			return err
		}
		previous = rec.HealthCertificate
		return tx.Model(&petRecord{ID: petID}).
			Updates(map[string]any{"health_certificate": key, "updated_at": time.Now()}).Error
	})
	return previous, err
}

func (r *PetRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres pet repository not configured")
	}
	return nil
}

// ensurePet checks the pet is live, optionally taking a row lock that
// serialises concurrent media writes for the same pet.
func ensurePet(tx *gorm.DB, id uuid.UUID, lock bool) error {
	q := tx.Model(&petRecord{}).Select("id")
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var rec petRecord
	err := q.Take(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.ErrNotFound
	}
	return err
}

func takeChild(tx *gorm.DB, dest any, petID, id uuid.UUID) error {
	err := tx.Take(dest, "id = ? AND pet_id = ?", id, petID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.ErrNotFound
	}
	return err
}

func loadPhotos(tx *gorm.DB, petID uuid.UUID) ([]domain.Photo, error) {
	var recs []photoRecord
	if err := tx.Where("pet_id = ?", petID).Find(&recs).Error; err != nil {
		return nil, err
	}
	photos := make([]domain.Photo, 0, len(recs))
	for i := range recs {
		photos = append(photos, recs[i].toDomain())
	}
	return photos, nil
}

func loadVideos(tx *gorm.DB, petID uuid.UUID) ([]domain.Video, error) {
	var recs []videoRecord
	if err := orderVideos(tx).Where("pet_id = ?", petID).Find(&recs).Error; err != nil {
		return nil, err
	}
	videos := make([]domain.Video, 0, len(recs))
	for i := range recs {
		videos = append(videos, recs[i].toDomain())
	}
	return videos, nil
}

func orderPhotos(db *gorm.DB) *gorm.DB {
	return db.Order(`"order" ASC, created_at ASC, id ASC`)
}

func orderVideos(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, id ASC")
}

// translateMainPhoto maps the partial unique index violation to the domain rule.
func translateMainPhoto(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrMainPhotoTaken
	}
	return err
}

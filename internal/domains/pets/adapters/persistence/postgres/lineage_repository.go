package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pettypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
	"github.com/Apurer/pethub-api/internal/domains/pets/ports"
)

var (
	_ ports.BreedRepository  = (*BreedRepository)(nil)
	_ ports.ParentRepository = (*ParentRepository)(nil)
)

var (
	breedSearchColumns  = []string{"breeds.name", "breeds.size_category", "breeds.description"}
	parentSearchColumns = []string{"pet_parents.name", "pet_parents.registration_number"}
)

// BreedRepository reads breed reference data.
type BreedRepository struct {
	db *gorm.DB
}

// NewBreedRepository wires the repository. The caller owns the DB lifecycle.
func NewBreedRepository(db *gorm.DB) *BreedRepository {
	return &BreedRepository{db: db}
}

// List searches, orders and paginates breeds.
func (r *BreedRepository) List(ctx context.Context, query pettypes.BreedListQuery) (*pettypes.BreedPage, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres breed repository not configured")
	}
	query = query.Normalize()
	filtered := applySearch(r.db.WithContext(ctx).Model(&breedRecord{}), query.SearchTerms, breedSearchColumns)

	var total int64
	if err := filtered.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}
	var recs []breedRecord
	err := applyOrdering(filtered.Session(&gorm.Session{}), "breeds", query.Ordering, breedOrderColumns).
		Limit(query.PageSize).
		Offset(query.Offset()).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	page := &pettypes.BreedPage{Total: total, Page: query.Page, PageSize: query.PageSize, Items: make([]domain.Breed, 0, len(recs))}
	for i := range recs {
		page.Items = append(page.Items, recs[i].toDomain())
	}
	return page, nil
}

// GetByID loads a single breed.
func (r *BreedRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Breed, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres breed repository not configured")
	}
	var rec breedRecord
	err := r.db.WithContext(ctx).Take(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	breed := rec.toDomain()
	return &breed, nil
}

// ParentRepository persists lineage records.
type ParentRepository struct {
	db *gorm.DB
}

// NewParentRepository wires the repository. The caller owns the DB lifecycle.
func NewParentRepository(db *gorm.DB) *ParentRepository {
	return &ParentRepository{db: db}
}

// Create inserts a parent.
func (r *ParentRepository) Create(ctx context.Context, parent *domain.Parent) (*pettypes.ParentProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, errors.New("cannot save nil parent")
	}
	rec := newParentRecord(parent)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, err
	}
	return rec.toProjection(), nil
}

// Update replaces every writable column of a parent.
func (r *ParentRepository) Update(ctx context.Context, parent *domain.Parent) (*pettypes.ParentProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, errors.New("cannot save nil parent")
	}
	rec := newParentRecord(parent)
	rec.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).
		Model(&parentRecord{ID: parent.ID}).
		Select("name", "gender", "date_of_birth", "registration_number", "updated_at").
		Updates(&rec)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, parent.ID)
}

// GetByID loads a single parent.
func (r *ParentRepository) GetByID(ctx context.Context, id uuid.UUID) (*pettypes.ParentProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rec parentRecord
	err := r.db.WithContext(ctx).Take(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.toProjection(), nil
}

// Delete removes a parent; the foreign keys null pet references.
func (r *ParentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&parentRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List searches and paginates parents ordered by name.
func (r *ParentRepository) List(ctx context.Context, query pettypes.ParentListQuery) (*pettypes.ParentPage, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query = query.Normalize()
	filtered := applySearch(r.db.WithContext(ctx).Model(&parentRecord{}), query.SearchTerms, parentSearchColumns)

	var total int64
	if err := filtered.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}
	var recs []parentRecord
	err := filtered.Session(&gorm.Session{}).
		Order("name ASC, id ASC").
		Limit(query.PageSize).
		Offset(query.Offset()).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	page := &pettypes.ParentPage{Total: total, Page: query.Page, PageSize: query.PageSize, Items: make([]*pettypes.ParentProjection, 0, len(recs))}
	for i := range recs {
		page.Items = append(page.Items, recs[i].toProjection())
	}
	return page, nil
}

func (r *ParentRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres parent repository not configured")
	}
	return nil
}

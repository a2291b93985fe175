package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/pethub-api/internal/domains/pets/ports"
)

var (
	_ ports.IdempotencyStore  = (*IdempotencyStore)(nil)
	_ ports.IdempotencyPurger = (*IdempotencyStore)(nil)
)

// DefaultIdempotencyRetention bounds how long a create can be replayed.
const DefaultIdempotencyRetention = 24 * time.Hour

// IdempotencyStore persists Idempotency-Key records in PostgreSQL.
type IdempotencyStore struct {
	db        *gorm.DB
	retention time.Duration
	now       func() time.Time
}

// NewIdempotencyStore wires the store. Caller owns the DB lifecycle.
func NewIdempotencyStore(db *gorm.DB, retention time.Duration) *IdempotencyStore {
	if retention <= 0 {
		retention = DefaultIdempotencyRetention
	}
	return &IdempotencyStore{db: db, retention: retention, now: time.Now}
}

type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	PetID       uuid.UUID `gorm:"column:pet_id;type:uuid"`
	ExpiresAt   time.Time `gorm:"column:expires_at;index"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "pet_idempotency_keys" }

// Get loads a live record by key, returning nil when absent or expired.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var rec idempotencyRecord
	err := s.db.WithContext(ctx).
		Where("key = ? AND expires_at > ?", key, s.now()).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec.toPort(), nil
}

// Save claims the key. An expired claim is taken over; a live one is returned,
// with ErrIdempotencyConflict when it belongs to a different request.
func (s *IdempotencyStore) Save(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	now := s.now()
	rec := idempotencyRecord{
		Key:         record.Key,
		RequestHash: record.RequestHash,
		PetID:       record.PetID,
		ExpiresAt:   now.Add(s.retention),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"request_hash", "pet_id", "expires_at", "created_at", "updated_at"}),
			Where:     clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "pet_idempotency_keys.expires_at <= ?", Vars: []any{now}}}},
		}).
		Create(&rec)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 1 {
		return rec.toPort(), nil
	}

	existing, err := s.Get(ctx, record.Key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errors.New("idempotency key vanished during claim")
	}
	if !existing.SameRequest(record) {
		return existing, ports.ErrIdempotencyConflict
	}
	return existing, nil
}

// PurgeExpired removes every record past its retention window.
func (s *IdempotencyStore) PurgeExpired(ctx context.Context) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	result := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&idempotencyRecord{})
	return result.RowsAffected, result.Error
}

func (s *IdempotencyStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres idempotency store not configured")
	}
	return nil
}

func (r *idempotencyRecord) toPort() *ports.IdempotencyRecord {
	return &ports.IdempotencyRecord{
		Key:         r.Key,
		RequestHash: r.RequestHash,
		PetID:       r.PetID,
		CreatedAt:   r.CreatedAt,
		ExpiresAt:   r.ExpiresAt,
	}
}

package ports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrIdempotencyConflict is returned when a key is reused for a different create request.
var ErrIdempotencyConflict = errors.New("idempotency conflict")

// IdempotencyRecord ties an Idempotency-Key to the pet its first request created.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	PetID       uuid.UUID
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// SameRequest reports whether other replays this record rather than colliding with it.
func (r IdempotencyRecord) SameRequest(other IdempotencyRecord) bool {
	return r.RequestHash == other.RequestHash && r.PetID == other.PetID
}

// Expired reports whether the key can be claimed again at now.
func (r IdempotencyRecord) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}

// IdempotencyStore claims keys for pet creation.
type IdempotencyStore interface {
	// Get returns the live record for key, or nil.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Save claims the key. A live claim with another request hash or pet yields
	// ErrIdempotencyConflict together with the stored record.
	Save(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
}

// IdempotencyPurger drops claims past their retention window.
type IdempotencyPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/pethub-api/internal/domains/pets/ports"
)

var (
	_ ports.IdempotencyStore  = (*IdempotencyStore)(nil)
	_ ports.IdempotencyPurger = (*IdempotencyStore)(nil)
)

// DefaultIdempotencyRetention bounds how long a create can be replayed.
const DefaultIdempotencyRetention = 24 * time.Hour

// IdempotencyStore keeps Idempotency-Key records in process memory.
type IdempotencyStore struct {
	mu        sync.Mutex
	records   map[string]ports.IdempotencyRecord
	retention time.Duration
	now       func() time.Time
}

// NewIdempotencyStore constructs an empty store; retention <= 0 falls back to the default.
func NewIdempotencyStore(retention time.Duration) *IdempotencyStore {
	if retention <= 0 {
		retention = DefaultIdempotencyRetention
	}
	return &IdempotencyStore{
		records:   map[string]ports.IdempotencyRecord{},
		retention: retention,
		now:       time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (s *IdempotencyStore) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Get returns the live record for key, or nil when absent or expired.
func (s *IdempotencyStore) Get(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.live(key)
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// Save stores the record unless a live record already owns the key.
func (s *IdempotencyStore) Save(_ context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.live(record.Key); ok {
		if !existing.SameRequest(record) {
			return &existing, ports.ErrIdempotencyConflict
		}
		return &existing, nil
	}
	now := s.now()
	record.CreatedAt, record.ExpiresAt = now, now.Add(s.retention)
	s.records[record.Key] = record
	return &record, nil
}

// PurgeExpired drops records older than the retention window.
func (s *IdempotencyStore) PurgeExpired(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var purged int64
	for key := range s.records {
		if _, ok := s.live(key); !ok {
			delete(s.records, key)
			purged++
		}
	}
	return purged, nil
}

func (s *IdempotencyStore) live(key string) (ports.IdempotencyRecord, bool) {
	record, ok := s.records[key]
	if !ok || record.Expired(s.now()) {
		return ports.IdempotencyRecord{}, false
	}
	return record, true
}

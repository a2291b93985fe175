package projection

import "time"

// Metadata holds the bookkeeping timestamps a store keeps next to a record.
type Metadata struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	// DeletedAt is set once a record is soft-deleted.
	DeletedAt *time.Time
}

// NewMetadata stamps a freshly created record.
func NewMetadata(now time.Time) Metadata {
	return Metadata{CreatedAt: now, UpdatedAt: now}
}

// Touch records a modification.
func (m *Metadata) Touch(now time.Time) {
	m.UpdatedAt = now
}

// MarkDeleted hides the record from reads without removing it.
func (m *Metadata) MarkDeleted(now time.Time) {
	m.DeletedAt = &now
}

// Deleted reports whether the record was soft-deleted.
func (m Metadata) Deleted() bool {
	return m.DeletedAt != nil
}

// Projection pairs a domain entity with its store metadata.
type Projection[T any] struct {
	Entity   T
	Metadata Metadata
}

// Of builds a projection for entity.
func Of[T any](entity T, meta Metadata) *Projection[T] {
	return &Projection[T]{Entity: entity, Metadata: meta}
}

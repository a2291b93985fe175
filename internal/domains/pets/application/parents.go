package application

import (
	"context"
	"strings"

	"github.com/google/uuid"

	types "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
	"github.com/Apurer/pethub-api/internal/domains/pets/ports"
)

// Lineage manages sire and dam records referenced by pets.
type Lineage struct {
	repo  ports.ParentRepository
	newID func() uuid.UUID
}

// NewLineage wires the parent use cases.
func NewLineage(repo ports.ParentRepository, newID func() uuid.UUID) *Lineage {
	if newID == nil {
		newID = uuid.New
	}
	return &Lineage{repo: repo, newID: newID}
}

// ListParents returns one page of parents ordered by name.
func (l *Lineage) ListParents(ctx context.Context, query types.ParentListQuery) (*types.ParentPage, error) {
	query = query.Normalize()
	page, err := l.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}
	if query.Page > 1 && int64(query.Offset()) >= page.Total {
		return nil, ErrInvalidPage
	}
	return page, nil
}

// GetParent loads a single parent.
func (l *Lineage) GetParent(ctx context.Context, id uuid.UUID) (*types.ParentProjection, error) {
	return l.repo.GetByID(ctx, id)
}

// CreateParent validates and stores a new parent.
func (l *Lineage) CreateParent(ctx context.Context, input types.ParentMutationInput) (*types.ParentProjection, error) {
	parent := &domain.Parent{ID: l.newID()}
	if err := prepareParent(parent, input, true); err != nil {
		return nil, mapError(err)
	}
	return l.repo.Create(ctx, parent)
}

// UpdateParent applies a full or partial update.
func (l *Lineage) UpdateParent(ctx context.Context, input types.UpdateParentInput) (*types.ParentProjection, error) {
	current, err := l.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	parent := current.Entity.Clone()
	if err := prepareParent(parent, input.ParentMutationInput, !input.Partial); err != nil {
		return nil, mapError(err)
	}
	return l.repo.Update(ctx, parent)
}

// DeleteParent removes a parent; referencing pets lose the link.
func (l *Lineage) DeleteParent(ctx context.Context, id uuid.UUID) error {
	return l.repo.Delete(ctx, id)
}

func prepareParent(parent *domain.Parent, input types.ParentMutationInput, requireMandatory bool) error {
	violations := &domain.ValidationError{}
	if requireMandatory {
		if input.Name == nil {
			violations.Add("name", domain.MsgRequired)
		}
		if input.Gender == nil {
			violations.Add("gender", domain.MsgRequired)
		}
	}
	if input.Name != nil {
		parent.Name = strings.TrimSpace(*input.Name)
	}
	if input.Gender != nil {
		parent.Gender = *input.Gender
	}
	input.DateOfBirth.Apply(&parent.DateOfBirth)
	if input.RegistrationNumber != nil {
		parent.RegistrationNumber = strings.TrimSpace(*input.RegistrationNumber)
	}
	if err := parent.Validate(); err != nil {
		if v, ok := domain.AsValidationError(err); ok {
			violations.Merge(v)
		} else {
			return err
		}
	}
	return violations.Err()
}

var _ ports.ParentService = (*Lineage)(nil)

package observability

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	pettypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	"github.com/Apurer/pethub-api/internal/domains/pets/ports"
)

// ParentService decorates the lineage port with the same tracer, logger and meters as Service.
type ParentService struct {
	inner ports.ParentService
	obs   *Service
}

var _ ports.ParentService = (*ParentService)(nil)

// WrapParents instruments inner with the receiver's instrumentation.
func (s *Service) WrapParents(inner ports.ParentService) *ParentService {
	return &ParentService{inner: inner, obs: s}
}

func parentAttr(id uuid.UUID) attribute.KeyValue {
	return attribute.String("parent.id", id.String())
}

func (p *ParentService) ListParents(ctx context.Context, query pettypes.ParentListQuery) (*pettypes.ParentPage, error) {
	ctx, span := p.obs.startSpan(ctx, "ParentService.ListParents", attribute.Int("page", query.Page))
	defer span.End()

	result, err := p.inner.ListParents(ctx, query)
	if err != nil {
		return nil, p.obs.handleError(ctx, span, err, "failed to list parents")
	}
	span.SetAttributes(attribute.Int64("parent.result.total", result.Total))
	return result, nil
}

func (p *ParentService) GetParent(ctx context.Context, id uuid.UUID) (*pettypes.ParentProjection, error) {
	ctx, span := p.obs.startSpan(ctx, "ParentService.GetParent", parentAttr(id))
	defer span.End()

	result, err := p.inner.GetParent(ctx, id)
	if err != nil {
		return nil, p.obs.handleError(ctx, span, err, "failed to get parent", slog.String("parent.id", id.String()))
	}
	return result, nil
}

func (p *ParentService) CreateParent(ctx context.Context, input pettypes.ParentMutationInput) (*pettypes.ParentProjection, error) {
	ctx, span := p.obs.startSpan(ctx, "ParentService.CreateParent")
	defer span.End()

	result, err := p.inner.CreateParent(ctx, input)
	if err != nil {
		return nil, p.obs.handleError(ctx, span, err, "failed to create parent")
	}
	id := result.Entity.ID
	span.SetAttributes(parentAttr(id))
	p.obs.metrics.recordParentWrite(ctx, "create")
	p.obs.logInfo(ctx, "parent created", slog.String("parent.id", id.String()))
	return result, nil
}

func (p *ParentService) UpdateParent(ctx context.Context, input pettypes.UpdateParentInput) (*pettypes.ParentProjection, error) {
	ctx, span := p.obs.startSpan(ctx, "ParentService.UpdateParent", parentAttr(input.ID), attribute.Bool("partial", input.Partial))
	defer span.End()

	result, err := p.inner.UpdateParent(ctx, input)
	if err != nil {
		return nil, p.obs.handleError(ctx, span, err, "failed to update parent", slog.String("parent.id", input.ID.String()))
	}
	p.obs.metrics.recordParentWrite(ctx, "update")
	p.obs.logInfo(ctx, "parent updated", slog.String("parent.id", input.ID.String()), slog.Bool("partial", input.Partial))
	return result, nil
}

func (p *ParentService) DeleteParent(ctx context.Context, id uuid.UUID) error {
	ctx, span := p.obs.startSpan(ctx, "ParentService.DeleteParent", parentAttr(id))
	defer span.End()

	if err := p.inner.DeleteParent(ctx, id); err != nil {
		return p.obs.handleError(ctx, span, err, "failed to delete parent", slog.String("parent.id", id.String()))
	}
	p.obs.metrics.recordParentWrite(ctx, "delete")
	p.obs.logInfo(ctx, "parent deleted", slog.String("parent.id", id.String()))
	return nil
}

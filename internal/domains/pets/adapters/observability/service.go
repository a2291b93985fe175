package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/pethub-api/internal/domains/pets/application"
	pettypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
	"github.com/Apurer/pethub-api/internal/domains/pets/ports"
)

const tracerName = "github.com/Apurer/pethub-api/internal/domains/pets/adapters/observability/service"

// Service decorates the pets application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.PetService
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

var _ ports.PetService = (*Service)(nil)

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.PetService, opts ...Option) *Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) ListPets(ctx context.Context, query pettypes.PetListQuery) (*pettypes.PetPage, error) {
	ctx, span := s.startSpan(ctx, "Service.ListPets",
		attribute.String("pet.view", string(query.View)),
		attribute.Int("page", query.Page))
	defer span.End()

	result, err := s.inner.ListPets(ctx, query)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list pets", slog.String("view", string(query.View)))
	}
	span.SetAttributes(attribute.Int("pet.result.count", len(result.Items)), attribute.Int64("pet.result.total", result.Total))
	s.logDebug(ctx, "listed pets", slog.Int("count", len(result.Items)), slog.Int64("total", result.Total))
	return result, nil
}

func (s *Service) GetPet(ctx context.Context, input pettypes.PetIdentifier) (*pettypes.PetProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.GetPet", petAttr(input.ID.String()))
	defer span.End()

	result, err := s.inner.GetPet(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to get pet", slog.String("pet.id", input.ID.String()))
	}
	return result, nil
}

// CreatePet persists a new pet with instrumentation.
func (s *Service) CreatePet(ctx context.Context, input pettypes.CreatePetInput) (*pettypes.PetProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.CreatePet", attribute.Bool("idempotent", input.IdempotencyKey != ""))
	defer span.End()

	s.logInfo(ctx, "creating pet")
	result, err := s.inner.CreatePet(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create pet")
	}
	s.metrics.recordCreated(ctx, result.Entity.Status)
	span.SetAttributes(petAttr(result.Entity.ID.String()))
	s.logInfo(ctx, "pet created", slog.String("pet.id", result.Entity.ID.String()), slog.String("status", string(result.Entity.Status)))
	return result, nil
}

// UpdatePet applies a full or partial update.
func (s *Service) UpdatePet(ctx context.Context, input pettypes.UpdatePetInput) (*pettypes.PetProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdatePet", petAttr(input.ID.String()), attribute.Bool("partial", input.Partial))
	defer span.End()

	s.logInfo(ctx, "updating pet", slog.String("pet.id", input.ID.String()), slog.Bool("partial", input.Partial))
	result, err := s.inner.UpdatePet(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update pet", slog.String("pet.id", input.ID.String()))
	}
	s.metrics.recordUpdated(ctx, result.Entity.Status)
	s.logInfo(ctx, "pet updated", slog.String("pet.id", input.ID.String()), slog.String("status", string(result.Entity.Status)))
	return result, nil
}

func (s *Service) DeletePet(ctx context.Context, input pettypes.PetIdentifier) error {
	ctx, span := s.startSpan(ctx, "Service.DeletePet", petAttr(input.ID.String()))
	defer span.End()

	s.logInfo(ctx, "deleting pet", slog.String("pet.id", input.ID.String()))
	if err := s.inner.DeletePet(ctx, input); err != nil {
		return s.handleError(ctx, span, err, "failed to delete pet", slog.String("pet.id", input.ID.String()))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "pet deleted", slog.String("pet.id", input.ID.String()))
	return nil
}

func (s *Service) FiltersInfo(ctx context.Context) (*pettypes.FiltersInfo, error) {
	ctx, span := s.startSpan(ctx, "Service.FiltersInfo")
	defer span.End()

	result, err := s.inner.FiltersInfo(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to build filter metadata")
	}
	span.SetAttributes(attribute.Int("pet.locations", len(result.Locations)))
	return result, nil
}

func (s *Service) ListPhotos(ctx context.Context, input pettypes.PetIdentifier) ([]domain.Photo, error) {
	ctx, span := s.startSpan(ctx, "Service.ListPhotos", petAttr(input.ID.String()))
	defer span.End()

	result, err := s.inner.ListPhotos(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list photos", slog.String("pet.id", input.ID.String()))
	}
	span.SetAttributes(attribute.Int("pet.result.count", len(result)))
	return result, nil
}

func (s *Service) AddPhoto(ctx context.Context, input pettypes.AddPhotoInput) (*domain.Photo, error) {
	ctx, span := s.startSpan(ctx, "Service.AddPhoto", petAttr(input.PetID.String()),
		attribute.Int64("upload.size", input.File.Size), attribute.Bool("photo.main", input.IsMain))
	defer span.End()

	s.logInfo(ctx, "adding photo", slog.String("pet.id", input.PetID.String()), slog.Int64("size", input.File.Size))
	result, err := s.inner.AddPhoto(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add photo", slog.String("pet.id", input.PetID.String()))
	}
	s.metrics.recordUpload(ctx, "photo", input.File.Size)
	s.logInfo(ctx, "photo added", slog.String("pet.id", input.PetID.String()), slog.String("photo.id", result.ID.String()))
	return result, nil
}

func (s *Service) UpdatePhoto(ctx context.Context, input pettypes.UpdatePhotoInput) (*domain.Photo, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdatePhoto", petAttr(input.PetID.String()), attribute.String("photo.id", input.PhotoID.String()))
	defer span.End()

	result, err := s.inner.UpdatePhoto(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update photo", slog.String("photo.id", input.PhotoID.String()))
	}
	s.logInfo(ctx, "photo updated", slog.String("photo.id", input.PhotoID.String()), slog.Bool("main", result.IsMain))
	return result, nil
}

func (s *Service) DeletePhoto(ctx context.Context, input pettypes.MediaIdentifier) error {
	ctx, span := s.startSpan(ctx, "Service.DeletePhoto", petAttr(input.PetID.String()), attribute.String("photo.id", input.MediaID.String()))
	defer span.End()

	if err := s.inner.DeletePhoto(ctx, input); err != nil {
		return s.handleError(ctx, span, err, "failed to delete photo", slog.String("photo.id", input.MediaID.String()))
	}
	s.logInfo(ctx, "photo deleted", slog.String("photo.id", input.MediaID.String()))
	return nil
}

func (s *Service) ListVideos(ctx context.Context, input pettypes.PetIdentifier) ([]domain.Video, error) {
	ctx, span := s.startSpan(ctx, "Service.ListVideos", petAttr(input.ID.String()))
	defer span.End()

	result, err := s.inner.ListVideos(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list videos", slog.String("pet.id", input.ID.String()))
	}
	span.SetAttributes(attribute.Int("pet.result.count", len(result)))
	return result, nil
}

func (s *Service) AddVideo(ctx context.Context, input pettypes.AddVideoInput) (*domain.Video, error) {
	ctx, span := s.startSpan(ctx, "Service.AddVideo", petAttr(input.PetID.String()), attribute.Int64("upload.size", input.File.Size))
	defer span.End()

	s.logInfo(ctx, "adding video", slog.String("pet.id", input.PetID.String()), slog.Int64("size", input.File.Size))
	result, err := s.inner.AddVideo(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add video", slog.String("pet.id", input.PetID.String()))
	}
	s.metrics.recordUpload(ctx, "video", input.File.Size)
	s.logInfo(ctx, "video added", slog.String("pet.id", input.PetID.String()), slog.String("video.id", result.ID.String()))
	return result, nil
}

func (s *Service) DeleteVideo(ctx context.Context, input pettypes.MediaIdentifier) error {
	ctx, span := s.startSpan(ctx, "Service.DeleteVideo", petAttr(input.PetID.String()), attribute.String("video.id", input.MediaID.String()))
	defer span.End()

	if err := s.inner.DeleteVideo(ctx, input); err != nil {
		return s.handleError(ctx, span, err, "failed to delete video", slog.String("video.id", input.MediaID.String()))
	}
	s.logInfo(ctx, "video deleted", slog.String("video.id", input.MediaID.String()))
	return nil
}

func (s *Service) UploadHealthCertificate(ctx context.Context, input pettypes.HealthCertificateInput) (*pettypes.PetProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.UploadHealthCertificate", petAttr(input.PetID.String()), attribute.Int64("upload.size", input.File.Size))
	defer span.End()

	result, err := s.inner.UploadHealthCertificate(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to upload health certificate", slog.String("pet.id", input.PetID.String()))
	}
	s.metrics.recordUpload(ctx, "health_certificate", input.File.Size)
	s.logInfo(ctx, "health certificate replaced", slog.String("pet.id", input.PetID.String()))
	return result, nil
}

func petAttr(id string) attribute.KeyValue {
	return attribute.String("pet.id", id)
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logDebug(ctx context.Context, msg string, attrs ...slog.Attr) {
	s.logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

// handleError records the failure. Client errors are logged at warn and leave the span status unset.
func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	if isClientError(err) {
		span.SetAttributes(attribute.String("error.kind", "client"))
		s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
		return err
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.metrics.recordFailure(ctx)
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

func isClientError(err error) bool {
	return errors.Is(err, application.ErrInvalidInput) ||
		errors.Is(err, application.ErrInvalidPage) ||
		errors.Is(err, application.ErrInvalidFilter) ||
		errors.Is(err, ports.ErrNotFound) ||
		errors.Is(err, ports.ErrIdempotencyConflict)
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	petsCreated   metric.Int64Counter
	petsUpdated   metric.Int64Counter
	petsDeleted   metric.Int64Counter
	uploadedBytes metric.Int64Counter
	parentWrites  metric.Int64Counter
	failures      metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	petsCreated, _ := m.Int64Counter("pets.service.created", metric.WithDescription("Number of pets created"))
	petsUpdated, _ := m.Int64Counter("pets.service.updated", metric.WithDescription("Number of pets updated"))
	petsDeleted, _ := m.Int64Counter("pets.service.deleted", metric.WithDescription("Number of pets deleted"))
	uploadedBytes, _ := m.Int64Counter("pets.service.uploaded_bytes", metric.WithDescription("Bytes of media accepted"), metric.WithUnit("By"))
	parentWrites, _ := m.Int64Counter("pets.service.parent_writes", metric.WithDescription("Parent records created, updated or deleted"))
	failures, _ := m.Int64Counter("pets.service.failures", metric.WithDescription("Operations that failed with a server error"))
	return serviceMetrics{
		petsCreated:   petsCreated,
		petsUpdated:   petsUpdated,
		petsDeleted:   petsDeleted,
		uploadedBytes: uploadedBytes,
		parentWrites:  parentWrites,
		failures:      failures,
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context, status domain.Status) {
	addCounter(ctx, m.petsCreated, 1, attribute.String("pet.status", string(status)))
}

func (m serviceMetrics) recordUpdated(ctx context.Context, status domain.Status) {
	addCounter(ctx, m.petsUpdated, 1, attribute.String("pet.status", string(status)))
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	addCounter(ctx, m.petsDeleted, 1)
}

func (m serviceMetrics) recordUpload(ctx context.Context, kind string, size int64) {
	addCounter(ctx, m.uploadedBytes, size, attribute.String("media.kind", kind))
}

func (m serviceMetrics) recordParentWrite(ctx context.Context, op string) {
	addCounter(ctx, m.parentWrites, 1, attribute.String("parent.op", op))
}

func (m serviceMetrics) recordFailure(ctx context.Context) {
	addCounter(ctx, m.failures, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

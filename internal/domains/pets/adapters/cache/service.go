// Package cache decorates the pets services with read-through caching of list
// pages and filter metadata. Keys embed a generation counter that every
// successful write bumps, so stale entries are never read again and simply expire.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	pettypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
	"github.com/Apurer/pethub-api/internal/domains/pets/ports"
	platformcache "github.com/Apurer/pethub-api/internal/platform/cache"
)

const (
	GenerationKey = "pets:generation"

	DefaultListTTL    = 1200 * time.Second
	DefaultFiltersTTL = 9200 * time.Second
)

// Cache owns the generation counter shared by the decorated services.
type Cache struct {
	store      platformcache.Store
	listTTL    time.Duration
	filtersTTL time.Duration
	logger     *slog.Logger
}

type Option func(*Cache)

// WithTTLs overrides the entry lifetimes; zero keeps the default.
func WithTTLs(list, filters time.Duration) Option {
	return func(c *Cache) {
		if list > 0 {
			c.listTTL = list
		}
		if filters > 0 {
			c.filtersTTL = filters
		}
	}
}

// WithLogger injects the logger used for store failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a cache over store.
func New(store platformcache.Store, opts ...Option) *Cache {
	c := &Cache{
		store:      store,
		listTTL:    DefaultListTTL,
		filtersTTL: DefaultFiltersTTL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Invalidate retires every cached entry by bumping the generation.
func (c *Cache) Invalidate(ctx context.Context) {
	if _, err := c.store.Incr(ctx, GenerationKey); err != nil {
		c.logger.ErrorContext(ctx, "failed to bump cache generation", slog.String("error", err.Error()))
	}
}

func (c *Cache) generation(ctx context.Context) (int64, error) {
	raw, ok, err := c.store.Get(ctx, GenerationKey)
	if err != nil || !ok {
		return 0, err
	}
	return strconv.ParseInt(string(raw), 10, 64)
}

func listKey(gen int64, fingerprint string) string {
	sum := sha256.Sum256([]byte(fingerprint))
	return fmt.Sprintf("pets:list:v%d:%s", gen, hex.EncodeToString(sum[:16]))
}

func filtersKey(gen int64) string {
	return fmt.Sprintf("pets:filters_info:v%d", gen)
}

// readThrough serves key from the store or loads, stores and returns a fresh value.
// Store failures degrade to a plain load.
func readThrough[T any](ctx context.Context, c *Cache, keyFor func(gen int64) string, ttl time.Duration, load func() (*T, error)) (*T, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "cache generation unavailable", slog.String("error", err.Error()))
		return load()
	}
	key := keyFor(gen)
	if raw, ok, err := c.store.Get(ctx, key); err != nil {
		c.logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	} else if ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
		c.logger.WarnContext(ctx, "discarding undecodable cache entry", slog.String("key", key))
	}

	value, err := load()
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to encode cache entry", slog.String("key", key), slog.String("error", err.Error()))
		return value, nil
	}
	if err := c.store.Set(ctx, key, payload, ttl); err != nil {
		c.logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return value, nil
}

// PetService caches list pages and filter metadata of the wrapped service.
type PetService struct {
	inner ports.PetService
	cache *Cache
}

var _ ports.PetService = (*PetService)(nil)

// WrapPets decorates inner.
func (c *Cache) WrapPets(inner ports.PetService) *PetService {
	return &PetService{inner: inner, cache: c}
}

func (s *PetService) ListPets(ctx context.Context, query pettypes.PetListQuery) (*pettypes.PetPage, error) {
	query = query.Normalize()
	fingerprint := query.Fingerprint()
	return readThrough(ctx, s.cache, func(gen int64) string { return listKey(gen, fingerprint) }, s.cache.listTTL,
		func() (*pettypes.PetPage, error) { return s.inner.ListPets(ctx, query) })
}

func (s *PetService) FiltersInfo(ctx context.Context) (*pettypes.FiltersInfo, error) {
	return readThrough(ctx, s.cache, filtersKey, s.cache.filtersTTL, func() (*pettypes.FiltersInfo, error) {
		return s.inner.FiltersInfo(ctx)
	})
}

func (s *PetService) GetPet(ctx context.Context, input pettypes.PetIdentifier) (*pettypes.PetProjection, error) {
	return s.inner.GetPet(ctx, input)
}

func (s *PetService) CreatePet(ctx context.Context, input pettypes.CreatePetInput) (*pettypes.PetProjection, error) {
	return invalidating(ctx, s.cache, func() (*pettypes.PetProjection, error) { return s.inner.CreatePet(ctx, input) })
}

func (s *PetService) UpdatePet(ctx context.Context, input pettypes.UpdatePetInput) (*pettypes.PetProjection, error) {
	return invalidating(ctx, s.cache, func() (*pettypes.PetProjection, error) { return s.inner.UpdatePet(ctx, input) })
}

func (s *PetService) DeletePet(ctx context.Context, input pettypes.PetIdentifier) error {
	return s.cache.afterWrite(ctx, s.inner.DeletePet(ctx, input))
}

func (s *PetService) ListPhotos(ctx context.Context, input pettypes.PetIdentifier) ([]domain.Photo, error) {
	return s.inner.ListPhotos(ctx, input)
}

func (s *PetService) AddPhoto(ctx context.Context, input pettypes.AddPhotoInput) (*domain.Photo, error) {
	return invalidating(ctx, s.cache, func() (*domain.Photo, error) { return s.inner.AddPhoto(ctx, input) })
}

func (s *PetService) UpdatePhoto(ctx context.Context, input pettypes.UpdatePhotoInput) (*domain.Photo, error) {
	return invalidating(ctx, s.cache, func() (*domain.Photo, error) { return s.inner.UpdatePhoto(ctx, input) })
}

func (s *PetService) DeletePhoto(ctx context.Context, input pettypes.MediaIdentifier) error {
	return s.cache.afterWrite(ctx, s.inner.DeletePhoto(ctx, input))
}

func (s *PetService) ListVideos(ctx context.Context, input pettypes.PetIdentifier) ([]domain.Video, error) {
	return s.inner.ListVideos(ctx, input)
}

func (s *PetService) AddVideo(ctx context.Context, input pettypes.AddVideoInput) (*domain.Video, error) {
	return invalidating(ctx, s.cache, func() (*domain.Video, error) { return s.inner.AddVideo(ctx, input) })
}

func (s *PetService) DeleteVideo(ctx context.Context, input pettypes.MediaIdentifier) error {
	return s.cache.afterWrite(ctx, s.inner.DeleteVideo(ctx, input))
}

func (s *PetService) UploadHealthCertificate(ctx context.Context, input pettypes.HealthCertificateInput) (*pettypes.PetProjection, error) {
	return invalidating(ctx, s.cache, func() (*pettypes.PetProjection, error) { return s.inner.UploadHealthCertificate(ctx, input) })
}

// ParentService bumps the generation after lineage writes.
type ParentService struct {
	inner ports.ParentService
	cache *Cache
}

var _ ports.ParentService = (*ParentService)(nil)

// WrapParents decorates inner.
func (c *Cache) WrapParents(inner ports.ParentService) *ParentService {
	return &ParentService{inner: inner, cache: c}
}

func (s *ParentService) ListParents(ctx context.Context, query pettypes.ParentListQuery) (*pettypes.ParentPage, error) {
	return s.inner.ListParents(ctx, query)
}

func (s *ParentService) GetParent(ctx context.Context, id uuid.UUID) (*pettypes.ParentProjection, error) {
	return s.inner.GetParent(ctx, id)
}

func (s *ParentService) CreateParent(ctx context.Context, input pettypes.ParentMutationInput) (*pettypes.ParentProjection, error) {
	return invalidating(ctx, s.cache, func() (*pettypes.ParentProjection, error) { return s.inner.CreateParent(ctx, input) })
}

func (s *ParentService) UpdateParent(ctx context.Context, input pettypes.UpdateParentInput) (*pettypes.ParentProjection, error) {
	return invalidating(ctx, s.cache, func() (*pettypes.ParentProjection, error) { return s.inner.UpdateParent(ctx, input) })
}

func (s *ParentService) DeleteParent(ctx context.Context, id uuid.UUID) error {
	return s.cache.afterWrite(ctx, s.inner.DeleteParent(ctx, id))
}

func invalidating[T any](ctx context.Context, c *Cache, write func() (T, error)) (T, error) {
	result, err := write()
	return result, c.afterWrite(ctx, err)
}

func (c *Cache) afterWrite(ctx context.Context, err error) error {
	if err == nil {
		c.Invalidate(ctx)
	}
	return err
}

package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	pethubserver "github.com/Apurer/pethub-api/go"

	petscache "github.com/Apurer/pethub-api/internal/domains/pets/adapters/cache"
	petsmemory "github.com/Apurer/pethub-api/internal/domains/pets/adapters/memory"
	petsobs "github.com/Apurer/pethub-api/internal/domains/pets/adapters/observability"
	petspostgres "github.com/Apurer/pethub-api/internal/domains/pets/adapters/persistence/postgres"
	petsworkflows "github.com/Apurer/pethub-api/internal/domains/pets/adapters/workflows"
	petsapp "github.com/Apurer/pethub-api/internal/domains/pets/application"
	"github.com/Apurer/pethub-api/internal/domains/pets/domain"
	petsports "github.com/Apurer/pethub-api/internal/domains/pets/ports"
	platformcache "github.com/Apurer/pethub-api/internal/platform/cache"
	"github.com/Apurer/pethub-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/pethub-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/pethub-api/internal/platform/postgres"
	"github.com/Apurer/pethub-api/internal/platform/storage"
	platformtemporal "github.com/Apurer/pethub-api/internal/platform/temporal"
)

// ServiceName identifies the API process in logs, traces and metrics.
const ServiceName = "pethub-api"

// Run boots the PetHub HTTP API and blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, ObservabilityOptions(ServiceName, cfg))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, closeDB := platformpostgres.ConnectOrFallback(ctx, platformpostgres.Config{DSN: cfg.PostgresDSN}, logger)
	defer closeDB()
	if db != nil && cfg.MigrateOnStart {
		if err := Migrate(db, cfg.SeedBreeds, logger); err != nil {
			return err
		}
	}
	repos := buildRepositories(db, cfg)

	media, err := NewMediaStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to configure media storage: %w", err)
	}

	var cleaner petsports.MediaCleaner = petsworkflows.NewInlineMediaCleaner(media, logger)
	if cfg.TemporalDisabled {
		logger.Info("Temporal disabled, media cleanup runs inline")
	} else if temporalClient, err := platformtemporal.Dial(
		platformtemporal.ClientConfig{Address: cfg.TemporalAddress, Namespace: cfg.TemporalNamespace},
		logger, instruments.Tracer("temporal-client"),
	); err != nil {
		logger.Warn("Temporal unavailable, media cleanup runs inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		cleaner = petsworkflows.NewTemporalMediaCleaner(temporalClient)
		logger.Info("Temporal media cleanup enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	var pets petsports.PetService = petsapp.NewService(repos.pets, repos.breeds, repos.parents,
		petsapp.WithIdempotencyStore(repos.idempotency),
		petsapp.WithMediaStorage(media),
		petsapp.WithMediaCleaner(cleaner),
		petsapp.WithDeleteMode(cfg.DeleteMode),
		petsapp.WithLogger(logger),
	)
	var parents petsports.ParentService = petsapp.NewLineage(repos.parents, nil)
	if !cfg.CacheDisabled {
		store, closeStore := buildCacheStore(ctx, cfg, logger)
		defer closeStore()
		cache := petscache.New(store,
			petscache.WithTTLs(cfg.CacheListTTL, cfg.CacheFiltersTTL),
			petscache.WithLogger(logger),
		)
		pets = cache.WrapPets(pets)
		parents = cache.WrapParents(parents)
	}
	observed := petsobs.New(pets,
		petsobs.WithLogger(logger),
		petsobs.WithTracer(instruments.Tracer("internal.pets.application")),
		petsobs.WithMeter(instruments.Meter("internal.pets.application")),
	)
	pets = observed
	parents = observed.WrapParents(parents)

	responder := pethubserver.NewResponder(logger)
	opts := []pethubserver.Option{
		pethubserver.WithResponder(responder),
		pethubserver.WithMediaURL(media.URL),
		pethubserver.WithPageSize(cfg.PageSize),
		pethubserver.WithMaxUploadBytes(cfg.MaxUploadBytes),
	}
	handlers := pethubserver.ApiHandleFunctions{
		PetAPI:    pethubserver.NewPetAPI(pets, opts...),
		MediaAPI:  pethubserver.NewMediaAPI(pets, opts...),
		BreedAPI:  pethubserver.NewBreedAPI(petsapp.NewBreedCatalog(repos.breeds), opts...),
		ParentAPI: pethubserver.NewParentAPI(parents, opts...),
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		otelgin.Middleware(ServiceName),
		pethubserver.RequestID(),
		pethubserver.RequestLogger(logger),
		pethubserver.CORS(cfg.AllowedOrigins),
		pethubserver.Timeout(cfg.RequestTimeout),
	)
	if cfg.RateLimitPerMinute > 0 {
		router.Use(pethubserver.NewRateLimiter(cfg.RateLimitPerMinute).Middleware(responder))
	}
	if local, ok := media.(*storage.LocalStorage); ok && strings.HasPrefix(local.BaseURL(), "/") {
		router.Static(strings.TrimSuffix(local.BaseURL(), "/"), local.Root())
	}
	pethubserver.NewRouterWithGinEngine(router, handlers)

	return serve(ctx, router, ":"+cfg.Port, logger)
}

func serve(ctx context.Context, handler http.Handler, addr string, logger *slog.Logger) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("PetHub API listening", slog.String("addr", addr))
		errCh <- server.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("PetHub API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	logger.Info("PetHub API shutting down")
	return server.Shutdown(shutdownCtx)
}

type repositories struct {
	pets        petsports.PetRepository
	breeds      petsports.BreedRepository
	parents     petsports.ParentRepository
	idempotency petsports.IdempotencyStore
}

func buildRepositories(db *gorm.DB, cfg Config) repositories {
	if db == nil {
		catalog := petsmemory.NewCatalog()
		for _, breed := range migrations.DefaultBreeds {
			catalog.SeedBreed(domain.Breed{
				ID:           uuid.NewSHA1(uuid.NameSpaceOID, []byte("breed:"+breed.Name)),
				Name:         breed.Name,
				Description:  breed.Description,
				SizeCategory: domain.Size(breed.SizeCategory),
			})
		}
		return repositories{
			pets:        catalog.Pets(),
			breeds:      catalog.Breeds(),
			parents:     catalog.Parents(),
			idempotency: petsmemory.NewIdempotencyStore(cfg.IdempotencyRetention),
		}
	}
	return repositories{
		pets:        petspostgres.NewPetRepository(db),
		breeds:      petspostgres.NewBreedRepository(db),
		parents:     petspostgres.NewParentRepository(db),
		idempotency: petspostgres.NewIdempotencyStore(db, cfg.IdempotencyRetention),
	}
}

// Migrate applies the schema and optionally loads the starter breeds.
func Migrate(db *gorm.DB, seed bool, logger *slog.Logger) error {
	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	logger.Info("schema migrated")
	if !seed {
		return nil
	}
	inserted, err := migrations.SeedBreeds(db, migrations.DefaultBreeds)
	if err != nil {
		return fmt.Errorf("failed to seed breeds: %w", err)
	}
	logger.Info("breeds seeded", slog.Int64("inserted", inserted))
	return nil
}

// NewMediaStorage builds the configured object store.
func NewMediaStorage(ctx context.Context, cfg Config) (petsports.MediaStorage, error) {
	if cfg.MediaStorage == MediaS3 {
		return storage.NewS3Storage(ctx, storage.S3Config{
			Region:          cfg.AWSRegion,
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			Endpoint:        cfg.AWSEndpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
	}
	return storage.NewLocalStorage(cfg.MediaRoot, cfg.MediaURL)
}

func buildCacheStore(ctx context.Context, cfg Config, logger *slog.Logger) (platformcache.Store, func()) {
	if cfg.RedisURL == "" {
		logger.Info("REDIS_URL not set, caching in process memory")
		store := platformcache.NewMemoryStore()
		return store, func() { _ = store.Close() }
	}
	store, err := platformcache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn("failed to connect to redis, caching in process memory", slog.String("error", err.Error()))
		memory := platformcache.NewMemoryStore()
		return memory, func() { _ = memory.Close() }
	}
	logger.Info("redis cache configured")
	return store, func() { _ = store.Close() }
}

// ObservabilityOptions maps process settings onto the observability bootstrap.
func ObservabilityOptions(serviceName string, cfg Config) platformobservability.Options {
	return platformobservability.Options{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		LogLevel:     cfg.LogLevel,
		LogFormat:    cfg.LogFormat,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: cfg.OTLPInsecure,
	}
}

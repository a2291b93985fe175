package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Apurer/pethub-api/internal/app/api"
	petspostgres "github.com/Apurer/pethub-api/internal/domains/pets/adapters/persistence/postgres"
	"github.com/Apurer/pethub-api/internal/domains/pets/ports"
	platformpostgres "github.com/Apurer/pethub-api/internal/platform/postgres"
)

func main() {
	_ = godotenv.Load()
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, platformpostgres.Config{DSN: cfg.PostgresDSN}, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge idempotency keys")
	}

	var purger ports.IdempotencyPurger = petspostgres.NewIdempotencyStore(db, cfg.IdempotencyRetention)
	purged, err := purger.PurgeExpired(ctx)
	if err != nil {
		log.Fatalf("failed to purge idempotency keys: %v", err)
	}
	logger.Info("idempotency purge completed", slog.Int64("purged", purged))
}

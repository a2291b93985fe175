package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"time"

	"github.com/joho/godotenv"

	"github.com/Apurer/pethub-api/internal/app/api"
	platformobservability "github.com/Apurer/pethub-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/pethub-api/internal/platform/postgres"
)

func main() {
	seed := flag.Bool("seed", false, "load the starter breed list after migrating")
	flag.Parse()
	_ = godotenv.Load()

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := platformobservability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	db, err := platformpostgres.Connect(ctx, platformpostgres.Config{DSN: cfg.PostgresDSN})
	if err != nil {
		log.Fatalf("cannot migrate without postgres: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := api.Migrate(db, *seed || cfg.SeedBreeds, logger); err != nil {
		log.Fatalf("%v", err)
	}
}

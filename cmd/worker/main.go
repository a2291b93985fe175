package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/pethub-api/internal/app/api"
	platformobservability "github.com/Apurer/pethub-api/internal/platform/observability"
	platformtemporal "github.com/Apurer/pethub-api/internal/platform/temporal"
	petactivities "github.com/Apurer/pethub-api/internal/platform/temporal/activities/pets"
	petworkflows "github.com/Apurer/pethub-api/internal/platform/temporal/workflows/pets"
)

func main() {
	_ = godotenv.Load()
	ctx := context.Background()
	const serviceName = "pethub-worker"

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, api.ObservabilityOptions(serviceName, cfg))
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	media, err := api.NewMediaStorage(ctx, cfg)
	if err != nil {
		logger.Error("failed to configure media storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	mediaActivities := petactivities.NewActivities(media)

	temporalClient, err := platformtemporal.Dial(
		platformtemporal.ClientConfig{Address: cfg.TemporalAddress, Namespace: cfg.TemporalNamespace},
		logger, instruments.Tracer("temporal-worker"),
	)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, petworkflows.MediaCleanupTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(petworkflows.MediaCleanupWorkflow, workflow.RegisterOptions{Name: petworkflows.MediaCleanupWorkflowName})
	w.RegisterActivityWithOptions(mediaActivities.DeleteMediaObject, activity.RegisterOptions{Name: petactivities.DeleteMediaObjectActivityName})

	logger.Info("worker listening", slog.String("taskQueue", petworkflows.MediaCleanupTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

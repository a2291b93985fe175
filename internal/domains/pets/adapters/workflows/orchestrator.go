package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	petstypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	"github.com/Apurer/pethub-api/internal/domains/pets/ports"
	petworkflows "github.com/Apurer/pethub-api/internal/platform/temporal/workflows/pets"
)

var (
	_ ports.MediaCleaner = (*TemporalMediaCleaner)(nil)
	_ ports.MediaCleaner = (*InlineMediaCleaner)(nil)
)

// workflowStarter is the subset of the Temporal client used to schedule cleanups.
type workflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// TemporalMediaCleaner schedules durable cleanup workflows and returns without waiting.
type TemporalMediaCleaner struct {
	client    workflowStarter
	taskQueue string
}

// NewTemporalMediaCleaner wires a Temporal client into the cleaner.
func NewTemporalMediaCleaner(c client.Client) *TemporalMediaCleaner {
	return &TemporalMediaCleaner{client: c, taskQueue: petworkflows.MediaCleanupTaskQueue}
}

// CleanupMedia starts the cleanup workflow. Identical requests map to one workflow ID.
func (o *TemporalMediaCleaner) CleanupMedia(ctx context.Context, input petstypes.MediaCleanupInput) error {
	if o == nil || o.client == nil {
		return errors.New("temporal media cleaner not configured")
	}
	if len(input.Keys) == 0 {
		return nil
	}
	options := client.StartWorkflowOptions{
		ID:        buildMediaCleanupWorkflowID(input),
		TaskQueue: o.taskQueue,
		Memo:      map[string]interface{}{"traceId": workflowTraceID(ctx), "reason": input.Reason},
	}
	_, err := o.client.ExecuteWorkflow(ctx, options, petworkflows.MediaCleanupWorkflowName, input)
	var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
	if errors.As(err, &alreadyStarted) {
		return nil
	}
	return err
}

// InlineMediaCleaner deletes objects synchronously, used when Temporal is disabled.
type InlineMediaCleaner struct {
	storage ports.MediaStorage
	logger  *slog.Logger
}

// NewInlineMediaCleaner wraps the media storage for direct deletion.
func NewInlineMediaCleaner(storage ports.MediaStorage, logger *slog.Logger) *InlineMediaCleaner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &InlineMediaCleaner{storage: storage, logger: logger}
}

// CleanupMedia attempts every key once and reports the failures together.
func (o *InlineMediaCleaner) CleanupMedia(ctx context.Context, input petstypes.MediaCleanupInput) error {
	if o == nil || o.storage == nil {
		return errors.New("inline media cleaner not configured")
	}
	var errs []error
	for _, key := range input.Keys {
		if err := o.storage.Delete(ctx, key); err != nil {
			o.logger.WarnContext(ctx, "failed to delete media object",
				slog.String("pet.id", input.PetID.String()),
				slog.String("key", key),
				slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func buildMediaCleanupWorkflowID(input petstypes.MediaCleanupInput) string {
	keys := append([]string(nil), input.Keys...)
	sort.Strings(keys)
	sum := sha256.Sum256([]byte(strings.Join(keys, "\n")))
	// The first 16 hex chars keep IDs readable while staying deterministic.
	return fmt.Sprintf("pet-media-cleanup-%s-%s", input.PetID, hex.EncodeToString(sum[:8]))
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}

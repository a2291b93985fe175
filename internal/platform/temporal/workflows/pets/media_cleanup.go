package pets

import (
	"go.temporal.io/sdk/workflow"

	petstypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	"github.com/Apurer/pethub-api/internal/platform/temporal/sequences"
)

const (
	// MediaCleanupTaskQueue is polled by the pets worker.
	MediaCleanupTaskQueue = "pets-media-cleanup"
	// MediaCleanupWorkflowName is the registered workflow type.
	MediaCleanupWorkflowName = "pets.workflows.MediaCleanup"
)

// MediaCleanupWorkflow removes objects that lost their owning record.
func MediaCleanupWorkflow(ctx workflow.Context, input petstypes.MediaCleanupInput) (sequences.MediaCleanupResult, error) {
	return sequences.RunMediaCleanupSequence(ctx, input)
}

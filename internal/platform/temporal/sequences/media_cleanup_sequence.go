package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	petstypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	petactivities "github.com/Apurer/pethub-api/internal/platform/temporal/activities/pets"
)

// MediaCleanupResult reports which keys were removed and which exhausted their retries.
type MediaCleanupResult struct {
	Deleted []string
	Failed  []string
}

// RunMediaCleanupSequence deletes every key in parallel, each activity with its own retry budget.
func RunMediaCleanupSequence(ctx workflow.Context, input petstypes.MediaCleanupInput) (MediaCleanupResult, error) {
	logger := workflow.GetLogger(ctx)
	petID := input.PetID.String()
	logger.Info("media cleanup sequence started", "petId", petID, "keys", len(input.Keys), "reason", input.Reason)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    10,
		},
	}
	actx := workflow.WithActivityOptions(ctx, options)

	futures := make([]workflow.Future, len(input.Keys))
	for i, key := range input.Keys {
		futures[i] = workflow.ExecuteActivity(actx, petactivities.DeleteMediaObjectActivityName,
			petactivities.DeleteMediaObjectInput{PetID: petID, Key: key})
	}

	result := MediaCleanupResult{Deleted: []string{}, Failed: []string{}}
	for i, future := range futures {
		if err := future.Get(ctx, nil); err != nil {
			logger.Error("media cleanup sequence failed to delete object", "petId", petID, "key", input.Keys[i], "error", err)
			result.Failed = append(result.Failed, input.Keys[i])
			continue
		}
		result.Deleted = append(result.Deleted, input.Keys[i])
	}
	logger.Info("media cleanup sequence finished", "petId", petID, "deleted", len(result.Deleted), "failed", len(result.Failed))
	return result, nil
}

package pets

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	petstypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	petactivities "github.com/Apurer/pethub-api/internal/platform/temporal/activities/pets"
	"github.com/Apurer/pethub-api/internal/platform/temporal/sequences"
)

func TestMediaCleanupWorkflow_DeletesEveryKey(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	deleted := make(map[string]bool)
	env.RegisterActivityWithOptions(func(_ context.Context, in petactivities.DeleteMediaObjectInput) error {
		deleted[in.Key] = true
		return nil
	}, activity.RegisterOptions{Name: petactivities.DeleteMediaObjectActivityName})

	input := petstypes.MediaCleanupInput{PetID: uuid.New(), Keys: []string{"pets/gallery/a.jpg", "pets/videos/b.mp4"}, Reason: "pet deleted"}
	env.ExecuteWorkflow(MediaCleanupWorkflow, input)

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var result sequences.MediaCleanupResult
	require.NoError(t, env.GetWorkflowResult(&result))
	require.ElementsMatch(t, input.Keys, result.Deleted)
	require.Empty(t, result.Failed)
	require.True(t, deleted["pets/gallery/a.jpg"])
	require.True(t, deleted["pets/videos/b.mp4"])
}

func TestMediaCleanupWorkflow_ReportsFailedKeys(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	activities := &petactivities.Activities{}
	env.RegisterActivityWithOptions(activities.DeleteMediaObject, activity.RegisterOptions{Name: petactivities.DeleteMediaObjectActivityName})

	petID := uuid.New()
	env.OnActivity(petactivities.DeleteMediaObjectActivityName, mock.Anything,
		petactivities.DeleteMediaObjectInput{PetID: petID.String(), Key: "bad"}).
		Return(temporal.NewNonRetryableApplicationError("storage down", "storage", errors.New("boom")))
	env.OnActivity(petactivities.DeleteMediaObjectActivityName, mock.Anything,
		petactivities.DeleteMediaObjectInput{PetID: petID.String(), Key: "good"}).
		Return(nil)

	env.ExecuteWorkflow(MediaCleanupWorkflow, petstypes.MediaCleanupInput{PetID: petID, Keys: []string{"bad", "good"}})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var result sequences.MediaCleanupResult
	require.NoError(t, env.GetWorkflowResult(&result))
	require.Equal(t, []string{"good"}, result.Deleted)
	require.Equal(t, []string{"bad"}, result.Failed)
}

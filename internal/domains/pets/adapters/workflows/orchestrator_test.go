package workflows

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	petstypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	petworkflows "github.com/Apurer/pethub-api/internal/platform/temporal/workflows/pets"
)

type fakeStarter struct {
	options  []client.StartWorkflowOptions
	workflow []interface{}
	err      error
}

func (f *fakeStarter) ExecuteWorkflow(_ context.Context, options client.StartWorkflowOptions, workflow interface{}, _ ...interface{}) (client.WorkflowRun, error) {
	f.options = append(f.options, options)
	f.workflow = append(f.workflow, workflow)
	return nil, f.err
}

func TestTemporalMediaCleaner_StartsDeterministicWorkflow(t *testing.T) {
	starter := &fakeStarter{}
	cleaner := &TemporalMediaCleaner{client: starter, taskQueue: petworkflows.MediaCleanupTaskQueue}
	petID := uuid.New()

	require.NoError(t, cleaner.CleanupMedia(context.Background(), petstypes.MediaCleanupInput{PetID: petID, Keys: []string{"b", "a"}}))
	require.NoError(t, cleaner.CleanupMedia(context.Background(), petstypes.MediaCleanupInput{PetID: petID, Keys: []string{"a", "b"}}))

	require.Len(t, starter.options, 2)
	require.Equal(t, starter.options[0].ID, starter.options[1].ID)
	require.Contains(t, starter.options[0].ID, petID.String())
	require.Equal(t, petworkflows.MediaCleanupTaskQueue, starter.options[0].TaskQueue)
	require.Equal(t, petworkflows.MediaCleanupWorkflowName, starter.workflow[0])
}

func TestTemporalMediaCleaner_AlreadyStartedIsSuccess(t *testing.T) {
	starter := &fakeStarter{err: serviceerror.NewWorkflowExecutionAlreadyStarted("exists", "", "run")}
	cleaner := &TemporalMediaCleaner{client: starter}
	require.NoError(t, cleaner.CleanupMedia(context.Background(), petstypes.MediaCleanupInput{Keys: []string{"a"}}))

	starter.err = errors.New("unavailable")
	require.Error(t, cleaner.CleanupMedia(context.Background(), petstypes.MediaCleanupInput{Keys: []string{"a"}}))
}

func TestTemporalMediaCleaner_NoKeysIsNoop(t *testing.T) {
	starter := &fakeStarter{}
	cleaner := &TemporalMediaCleaner{client: starter}
	require.NoError(t, cleaner.CleanupMedia(context.Background(), petstypes.MediaCleanupInput{}))
	require.Empty(t, starter.options)
}

type flakyStorage struct {
	deleted []string
}

func (s *flakyStorage) Save(context.Context, string, io.Reader, int64, string) error { return nil }

func (s *flakyStorage) Delete(_ context.Context, key string) error {
	if key == "bad" {
		return errors.New("denied")
	}
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *flakyStorage) URL(key string) string { return key }

func TestInlineMediaCleaner_AttemptsEveryKey(t *testing.T) {
	storage := &flakyStorage{}
	cleaner := NewInlineMediaCleaner(storage, nil)

	err := cleaner.CleanupMedia(context.Background(), petstypes.MediaCleanupInput{Keys: []string{"a", "bad", "c"}})
	require.ErrorContains(t, err, "bad: denied")
	require.Equal(t, []string{"a", "c"}, storage.deleted)
}

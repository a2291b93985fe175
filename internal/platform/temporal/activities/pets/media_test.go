package pets

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"
)

type recordingStorage struct {
	deleted []string
	err     error
}

func (s *recordingStorage) Save(context.Context, string, io.Reader, int64, string) error { return nil }

func (s *recordingStorage) Delete(_ context.Context, key string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *recordingStorage) URL(key string) string { return key }

func TestDeleteMediaObject(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestActivityEnvironment()
	storage := &recordingStorage{}
	activities := NewActivities(storage)
	env.RegisterActivity(activities.DeleteMediaObject)

	_, err := env.ExecuteActivity(activities.DeleteMediaObject, DeleteMediaObjectInput{PetID: "p1", Key: "pets/gallery/a.jpg"})
	require.NoError(t, err)
	require.Equal(t, []string{"pets/gallery/a.jpg"}, storage.deleted)
}

func TestDeleteMediaObject_PropagatesStorageErrors(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestActivityEnvironment()
	activities := NewActivities(&recordingStorage{err: errors.New("bucket unreachable")})
	env.RegisterActivity(activities.DeleteMediaObject)

	_, err := env.ExecuteActivity(activities.DeleteMediaObject, DeleteMediaObjectInput{Key: "k"})
	require.ErrorContains(t, err, "bucket unreachable")
}

func TestDeleteMediaObject_RequiresStorage(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestActivityEnvironment()
	activities := NewActivities(nil)
	env.RegisterActivity(activities.DeleteMediaObject)

	_, err := env.ExecuteActivity(activities.DeleteMediaObject, DeleteMediaObjectInput{Key: "k"})
	require.Error(t, err)
}

package pets

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	petsports "github.com/Apurer/pethub-api/internal/domains/pets/ports"
)

const (
	// DeleteMediaObjectActivityName removes a single stored object.
	DeleteMediaObjectActivityName = "pets.activities.DeleteMediaObject"
)

// DeleteMediaObjectInput addresses one object owned by a pet.
type DeleteMediaObjectInput struct {
	PetID string
	Key   string
}

// Activities groups activities that operate on the pets bounded context.
type Activities struct {
	storage petsports.MediaStorage
}

// NewActivities wires the media storage into the Temporal activities bundle.
func NewActivities(storage petsports.MediaStorage) *Activities {
	return &Activities{storage: storage}
}

// DeleteMediaObject deletes the object; deleting a missing object succeeds so retries are safe.
func (a *Activities) DeleteMediaObject(ctx context.Context, input DeleteMediaObjectInput) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.storage == nil {
		logger.Error("media cleanup activity not initialized", "petId", input.PetID)
		return errors.New("media cleanup activity not initialized")
	}
	logger.Info("DeleteMediaObject activity started", "petId", input.PetID, "key", input.Key)
	if err := a.storage.Delete(ctx, input.Key); err != nil {
		logger.Error("DeleteMediaObject activity failed", "petId", input.PetID, "key", input.Key, "error", err)
		return err
	}
	logger.Info("DeleteMediaObject activity completed", "petId", input.PetID, "key", input.Key)
	return nil
}

package ports

import (
	"context"

	petstypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
)

// MediaCleaner removes stored objects that no record references anymore.
type MediaCleaner interface {
	CleanupMedia(ctx context.Context, input petstypes.MediaCleanupInput) error
}

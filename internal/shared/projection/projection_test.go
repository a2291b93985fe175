package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetadataLifecycle(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	meta := NewMetadata(created)
	assert.Equal(t, created, meta.UpdatedAt)
	assert.False(t, meta.Deleted())

	meta.Touch(created.Add(time.Hour))
	assert.Equal(t, created, meta.CreatedAt)
	assert.Equal(t, created.Add(time.Hour), meta.UpdatedAt)

	meta.MarkDeleted(created.Add(2 * time.Hour))
	assert.True(t, meta.Deleted())

	p := Of("buddy", meta)
	assert.Equal(t, "buddy", p.Entity)
	assert.True(t, p.Metadata.Deleted())
}

package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	petsports "github.com/Apurer/pethub-api/internal/domains/pets/ports"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 12, cfg.PageSize)
	assert.Equal(t, 1200*time.Second, cfg.CacheListTTL)
	assert.Equal(t, 9200*time.Second, cfg.CacheFiltersTTL)
	assert.Equal(t, petsports.DeleteHard, cfg.DeleteMode)
	assert.Equal(t, MediaLocal, cfg.MediaStorage)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.True(t, cfg.MigrateOnStart)
	assert.Equal(t, int64(50<<20), cfg.MaxUploadBytes)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PAGE_SIZE", "24")
	t.Setenv("PET_DELETE_MODE", "SOFT")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("CACHE_DISABLED", "yes")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 24, cfg.PageSize)
	assert.Equal(t, petsports.DeleteSoft, cfg.DeleteMode)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.CacheDisabled)
}

func TestLoadConfig_CollectsEveryProblem(t *testing.T) {
	t.Setenv("PAGE_SIZE", "zero")
	t.Setenv("PET_DELETE_MODE", "archive")
	t.Setenv("MEDIA_STORAGE", "s3")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAGE_SIZE")
	assert.Contains(t, err.Error(), "PET_DELETE_MODE")
	assert.Contains(t, err.Error(), "AWS_S3_BUCKET")
}

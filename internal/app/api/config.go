package api

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	petsports "github.com/Apurer/pethub-api/internal/domains/pets/ports"
)

// Media backends.
const (
	MediaLocal = "local"
	MediaS3    = "s3"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port        string
	Environment string
	LogLevel    string
	LogFormat   string

	PostgresDSN          string
	MigrateOnStart       bool
	SeedBreeds           bool
	IdempotencyRetention time.Duration

	RedisURL        string
	CacheDisabled   bool
	CacheListTTL    time.Duration
	CacheFiltersTTL time.Duration

	PageSize       int
	DeleteMode     petsports.DeleteMode
	MaxUploadBytes int64
	RequestTimeout time.Duration

	MediaStorage       string
	MediaRoot          string
	MediaURL           string
	AWSRegion          string
	AWSEndpoint        string
	S3Bucket           string
	S3Prefix           string
	S3PublicBaseURL    string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	AllowedOrigins     []string
	RateLimitPerMinute int

	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	OTLPEndpoint string
	OTLPInsecure bool
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	var errs []error
	cfg := Config{
		Port:        envDefault("PORT", "8080"),
		Environment: envDefault("ENVIRONMENT", "local"),
		LogLevel:    envDefault("LOG_LEVEL", "info"),
		LogFormat:   envDefault("LOG_FORMAT", "json"),

		PostgresDSN:    strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		MigrateOnStart: envBool("MIGRATE_ON_START", true),
		SeedBreeds:     envBool("SEED_BREEDS", false),

		RedisURL:      strings.TrimSpace(os.Getenv("REDIS_URL")),
		CacheDisabled: envBool("CACHE_DISABLED", false),

		DeleteMode: petsports.DeleteMode(strings.ToLower(envDefault("PET_DELETE_MODE", string(petsports.DeleteHard)))),

		MediaStorage:       strings.ToLower(envDefault("MEDIA_STORAGE", MediaLocal)),
		MediaRoot:          envDefault("MEDIA_ROOT", "./media"),
		MediaURL:           envDefault("MEDIA_URL", "/media/"),
		AWSRegion:          envDefault("AWS_REGION", "us-east-1"),
		AWSEndpoint:        strings.TrimSpace(os.Getenv("AWS_ENDPOINT")),
		S3Bucket:           strings.TrimSpace(os.Getenv("AWS_S3_BUCKET")),
		S3Prefix:           strings.TrimSpace(os.Getenv("AWS_S3_PREFIX")),
		S3PublicBaseURL:    strings.TrimSpace(os.Getenv("AWS_PUBLIC_BASE_URL")),
		AWSAccessKeyID:     strings.TrimSpace(os.Getenv("AWS_ACCESS_KEY_ID")),
		AWSSecretAccessKey: strings.TrimSpace(os.Getenv("AWS_SECRET_ACCESS_KEY")),

		AllowedOrigins: splitList(envDefault("ALLOWED_ORIGINS", "*")),

		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  envBool("TEMPORAL_DISABLED", false),

		OTLPEndpoint: strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTLPInsecure: envBool("OTEL_EXPORTER_OTLP_INSECURE", false),
	}

	cfg.CacheListTTL = time.Duration(envInt("CACHE_LIST_TTL_SECONDS", 1200, 1, &errs)) * time.Second
	cfg.CacheFiltersTTL = time.Duration(envInt("CACHE_FILTERS_TTL_SECONDS", 9200, 1, &errs)) * time.Second
	cfg.PageSize = envInt("PAGE_SIZE", 12, 1, &errs)
	cfg.MaxUploadBytes = int64(envInt("MAX_UPLOAD_BYTES", 50<<20, 1, &errs))
	cfg.RequestTimeout = time.Duration(envInt("REQUEST_TIMEOUT_SECONDS", 30, 0, &errs)) * time.Second
	cfg.RateLimitPerMinute = envInt("RATE_LIMIT_PER_MINUTE", 0, 0, &errs)
	cfg.IdempotencyRetention = time.Duration(envInt("IDEMPOTENCY_RETENTION_HOURS", 24, 1, &errs)) * time.Hour

	if !cfg.DeleteMode.Valid() {
		errs = append(errs, fmt.Errorf("PET_DELETE_MODE must be %q or %q", petsports.DeleteHard, petsports.DeleteSoft))
	}
	switch cfg.MediaStorage {
	case MediaLocal:
	case MediaS3:
		if cfg.S3Bucket == "" {
			errs = append(errs, errors.New("AWS_S3_BUCKET is required when MEDIA_STORAGE=s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("MEDIA_STORAGE must be %q or %q", MediaLocal, MediaS3))
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	return isTruthy(raw)
}

func envInt(key string, fallback, min int, errs *[]error) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min {
		*errs = append(*errs, fmt.Errorf("%s must be an integer >= %d", key, min))
		return fallback
	}
	return v
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

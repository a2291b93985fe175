package pethubserver

import (
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Apurer/pethub-api/internal/domains/pets/adapters/http/mapper"
	pettypes "github.com/Apurer/pethub-api/internal/domains/pets/application/types"
	apierrors "github.com/Apurer/pethub-api/internal/shared/errors"
)

// DefaultMaxUploadBytes bounds multipart bodies when no limit is configured.
const DefaultMaxUploadBytes int64 = 50 << 20

type apiConfig struct {
	responder *apierrors.Responder
	mediaURL  func(key string) string
	pageSize  int
	maxUpload int64
}

// Option configures the resource handlers.
type Option func(*apiConfig)

// WithResponder sets the problem responder.
func WithResponder(r *apierrors.Responder) Option {
	return func(cfg *apiConfig) {
		if r != nil {
			cfg.responder = r
		}
	}
}

// WithMediaURL sets how storage keys become client URLs.
func WithMediaURL(resolve func(key string) string) Option {
	return func(cfg *apiConfig) {
		if resolve != nil {
			cfg.mediaURL = resolve
		}
	}
}

// WithPageSize sets the list page size.
func WithPageSize(size int) Option {
	return func(cfg *apiConfig) {
		if size > 0 {
			cfg.pageSize = size
		}
	}
}

// WithMaxUploadBytes bounds multipart request bodies.
func WithMaxUploadBytes(limit int64) Option {
	return func(cfg *apiConfig) {
		if limit > 0 {
			cfg.maxUpload = limit
		}
	}
}

func newAPIConfig(opts []Option) apiConfig {
	cfg := apiConfig{
		mediaURL:  func(key string) string { return "/media/" + key },
		pageSize:  pettypes.DefaultPageSize,
		maxUpload: DefaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.responder == nil {
		cfg.responder = NewResponder(slog.Default())
	}
	return cfg
}

// urlFor makes storage-relative media URLs absolute for the requesting host.
func (cfg *apiConfig) urlFor(c *gin.Context) mapper.URLFunc {
	origin := requestOrigin(c)
	return func(key string) string {
		resolved := cfg.mediaURL(key)
		if origin == "" || !strings.HasPrefix(resolved, "/") {
			return resolved
		}
		return origin + resolved
	}
}

func requestOrigin(c *gin.Context) string {
	host := c.Request.Host
	if forwarded := c.GetHeader("X-Forwarded-Host"); forwarded != "" {
		host = forwarded
	}
	if host == "" {
		return ""
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + host
}

// pageLink rebuilds the request URL pointing at another page; page 1 drops the parameter.
func pageLink(c *gin.Context, page int) *string {
	u := url.URL{Path: c.Request.URL.Path}
	if origin := requestOrigin(c); origin != "" {
		if parsed, err := url.Parse(origin); err == nil {
			u.Scheme, u.Host = parsed.Scheme, parsed.Host
		}
	}
	values := c.Request.URL.Query()
	if page <= 1 {
		values.Del("page")
	} else {
		values.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = values.Encode()
	link := u.String()
	return &link
}

func paginate[T, R any](c *gin.Context, page pettypes.Page[T], results []R) mapper.Paginated[R] {
	out := mapper.Paginated[R]{Count: page.Total, Results: results}
	if page.HasNext() {
		out.Next = pageLink(c, page.Page+1)
	}
	if page.HasPrevious() {
		out.Previous = pageLink(c, page.Page-1)
	}
	return out
}

func (cfg *apiConfig) idParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		// Malformed ids can never match a row.
		cfg.responder.Respond(c, apierrors.ErrNotFound.WithDetail("Not found."))
		return uuid.Nil, false
	}
	return id, true
}

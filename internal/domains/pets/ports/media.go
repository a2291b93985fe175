package ports

import (
	"context"
	"io"
)

// MediaStorage stores uploaded files under opaque keys.
type MediaStorage interface {
	Save(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL resolves a key to a public URL. Relative URLs are made absolute by the transport.
	URL(key string) string
}

// Package cache provides the key/value store behind response caching.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by a store used after Close.
var ErrClosed = errors.New("cache closed")

// Store is a byte-oriented cache with expiring entries and atomic counters.
type Store interface {
	// Get returns the value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key; a zero ttl keeps it until overwritten.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Incr atomically increments the integer at key and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)
	Close() error
}

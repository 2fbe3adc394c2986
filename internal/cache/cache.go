// Package cache is a string cache with per-key TTLs.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss reports that a key has no live value. Callers treat it as
// "go compute the real thing", never as a failure.
var ErrMiss = errors.New("cache: miss")

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

package services

import (
	"context"
	"time"
)

// CacheService is the slice of the cache the repositories and services
// consume. pkg/cache provides the Redis implementation; a nil
// CacheService is valid everywhere and simply disables caching.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
}

package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CacheStats is a snapshot of cache usage
type CacheStats struct {
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

// CacheStatsReporter is implemented by caches that count their hits and misses
type CacheStatsReporter interface {
	Stats() CacheStats
}

// CatalogueSource loads the full perfume catalogue in row order
type CatalogueSource interface {
	Load(ctx context.Context) ([]Perfume, error)
	Name() string
}

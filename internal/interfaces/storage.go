package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/sridhs21/PCVF/internal/models"
)

// ErrCacheMiss is returned when no fresh cached response exists.
var ErrCacheMiss = errors.New("cache miss")

// ErrKeyNotFound is returned when a key/value pair does not exist.
var ErrKeyNotFound = errors.New("key not found")

// CachedResponse is one raw provider response held in the cache.
type CachedResponse struct {
	Key       string             `json:"key"` // provider|location
	Provider  string             `json:"provider"`
	Location  string             `json:"location"`
	Records   []models.RawRecord `json:"records"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// CacheStorage persists raw provider responses with a freshness window.
type CacheStorage interface {
	Get(ctx context.Context, provider, location string, ttl time.Duration) ([]models.RawRecord, error)
	Put(ctx context.Context, provider, location string, records []models.RawRecord) error
	// SweepExpired deletes entries older than ttl and returns the count removed.
	SweepExpired(ctx context.Context, ttl time.Duration) (int, error)
	Clear(ctx context.Context) error
}

// KeyValuePair is a stored key/value entry (API keys, tunables).
type KeyValuePair struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// KeyValueStorage provides case-insensitive key/value persistence.
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value, description string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]KeyValuePair, error)
}

// StorageManager bundles the storage backends behind one lifecycle.
type StorageManager interface {
	CacheStorage() CacheStorage
	KeyValueStorage() KeyValueStorage
	Close() error
}

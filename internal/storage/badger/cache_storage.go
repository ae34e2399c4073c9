package badger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/sridhs21/PCVF/internal/interfaces"
	"github.com/sridhs21/PCVF/internal/models"
)

// CacheStorage implements interfaces.CacheStorage for Badger. Entries
// are keyed by provider and normalized location; freshness is judged
// against the caller's TTL at read time so different callers can apply
// different windows to the same data.
type CacheStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewCacheStorage creates a new CacheStorage instance
func NewCacheStorage(db *BadgerDB, logger arbor.ILogger) interfaces.CacheStorage {
	return &CacheStorage{
		db:     db,
		logger: logger,
	}
}

func cacheKey(provider, location string) string {
	return provider + "|" + strings.ToLower(strings.TrimSpace(location))
}

// Get retrieves a cached provider response newer than ttl.
func (s *CacheStorage) Get(ctx context.Context, provider, location string, ttl time.Duration) ([]models.RawRecord, error) {
	key := cacheKey(provider, location)

	var entry interfaces.CachedResponse
	err := s.db.Store().Get(key, &entry)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	if ttl > 0 && time.Since(entry.FetchedAt) > ttl {
		return nil, interfaces.ErrCacheMiss
	}

	return entry.Records, nil
}

// Put stores a provider response, replacing any previous entry for the
// same provider and location.
func (s *CacheStorage) Put(ctx context.Context, provider, location string, records []models.RawRecord) error {
	key := cacheKey(provider, location)

	entry := interfaces.CachedResponse{
		Key:       key,
		Provider:  provider,
		Location:  strings.ToLower(strings.TrimSpace(location)),
		Records:   records,
		FetchedAt: time.Now(),
	}

	if err := s.db.Store().Upsert(key, &entry); err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}

	return nil
}

// SweepExpired deletes entries older than ttl and returns the count
// removed.
func (s *CacheStorage) SweepExpired(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := time.Now().Add(-ttl)

	var expired []interfaces.CachedResponse
	err := s.db.Store().Find(&expired, badgerhold.Where("FetchedAt").Lt(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to find expired cache entries: %w", err)
	}

	removed := 0
	for _, entry := range expired {
		if err := s.db.Store().Delete(entry.Key, &interfaces.CachedResponse{}); err != nil {
			if s.logger != nil {
				s.logger.Warn().Str("key", entry.Key).Err(err).Msg("Failed to delete expired cache entry")
			}
			continue
		}
		removed++
	}

	if removed > 0 && s.logger != nil {
		s.logger.Info().Int("removed", removed).Msg("Swept expired cache entries")
	}

	return removed, nil
}

// Clear removes every cache entry.
func (s *CacheStorage) Clear(ctx context.Context) error {
	var entries []interfaces.CachedResponse
	if err := s.db.Store().Find(&entries, nil); err != nil {
		return fmt.Errorf("failed to list cache entries for clear: %w", err)
	}

	for _, entry := range entries {
		if err := s.db.Store().Delete(entry.Key, &interfaces.CachedResponse{}); err != nil {
			if s.logger != nil {
				s.logger.Warn().Str("key", entry.Key).Err(err).Msg("Failed to delete cache entry during clear")
			}
		}
	}

	if s.logger != nil {
		s.logger.Info().Int("count", len(entries)).Msg("Cleared provider response cache")
	}
	return nil
}

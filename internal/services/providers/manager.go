package providers

import (
	"context"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/sridhs21/PCVF/internal/interfaces"
	"github.com/sridhs21/PCVF/internal/models"
)

// Manager fans a search out across the configured providers with
// bounded concurrency. Raw responses are cached per provider and
// location; when every provider comes back empty the optional fallback
// provider fills in synthetic data.
type Manager struct {
	providers   []interfaces.Provider
	fallback    interfaces.Provider
	cache       interfaces.CacheStorage
	cacheTTL    time.Duration
	concurrency int
	logger      arbor.ILogger
}

// ManagerOption configures the Manager.
type ManagerOption func(*Manager)

// WithCache enables raw-response caching with the given TTL.
func WithCache(cache interfaces.CacheStorage, ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		m.cache = cache
		m.cacheTTL = ttl
	}
}

// WithFallback sets the provider used when all others return nothing.
func WithFallback(fallback interfaces.Provider) ManagerOption {
	return func(m *Manager) {
		m.fallback = fallback
	}
}

// WithConcurrency bounds the number of parallel provider fetches.
func WithConcurrency(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

// NewManager creates a provider manager over the given providers.
func NewManager(providers []interfaces.Provider, logger arbor.ILogger, opts ...ManagerOption) *Manager {
	m := &Manager{
		providers:   providers,
		concurrency: 4,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// EnabledSources implements interfaces.ProviderManager.
func (m *Manager) EnabledSources() []string {
	sources := make([]string, 0, len(m.providers))
	for _, provider := range m.providers {
		sources = append(sources, provider.Name())
	}
	return sources
}

// FetchAll implements interfaces.ProviderManager. Provider failures are
// logged and skipped so one flaky source never empties the response.
// Result order follows provider registration order, not completion
// order, keeping downstream dedup deterministic.
func (m *Manager) FetchAll(ctx context.Context, location string, maxResults int) ([]models.RawRecord, error) {
	results := make([][]models.RawRecord, len(m.providers))

	var wg sync.WaitGroup
	sem := make(chan struct{}, m.concurrency)

	for i, provider := range m.providers {
		wg.Add(1)
		go func(i int, provider interfaces.Provider) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = m.fetchOne(ctx, provider, location, maxResults)
		}(i, provider)
	}
	wg.Wait()

	var all []models.RawRecord
	for _, records := range results {
		all = append(all, records...)
	}

	if len(all) == 0 && m.fallback != nil {
		if m.logger != nil {
			m.logger.Warn().
				Str("location", location).
				Msg("No data from any provider, using fallback data")
		}
		fallback, err := m.fallback.Fetch(ctx, location, maxResults)
		if err != nil {
			return nil, err
		}
		all = fallback
	}

	if m.logger != nil {
		m.logger.Info().
			Str("location", location).
			Int("providers", len(m.providers)).
			Int("records", len(all)).
			Msg("Provider fan-out complete")
	}

	return all, nil
}

// fetchOne serves one provider from cache when fresh, falling back to a
// live fetch. Cache failures degrade to live fetches; fetch failures
// degrade to no records.
func (m *Manager) fetchOne(ctx context.Context, provider interfaces.Provider, location string, maxResults int) []models.RawRecord {
	if m.cache != nil {
		cached, err := m.cache.Get(ctx, provider.Name(), location, m.cacheTTL)
		if err == nil {
			if m.logger != nil {
				m.logger.Debug().
					Str("provider", provider.Name()).
					Str("location", location).
					Int("records", len(cached)).
					Msg("Serving provider response from cache")
			}
			return capRecords(cached, maxResults)
		}
		if err != interfaces.ErrCacheMiss && m.logger != nil {
			m.logger.Warn().
				Str("provider", provider.Name()).
				Err(err).
				Msg("Cache read failed, fetching live")
		}
	}

	records, err := provider.Fetch(ctx, location, maxResults)
	if err != nil {
		if m.logger != nil {
			m.logger.Warn().
				Str("provider", provider.Name()).
				Str("location", location).
				Err(err).
				Msg("Provider fetch failed, skipping source")
		}
		return nil
	}

	if m.cache != nil && len(records) > 0 {
		if err := m.cache.Put(ctx, provider.Name(), location, records); err != nil && m.logger != nil {
			m.logger.Warn().
				Str("provider", provider.Name()).
				Err(err).
				Msg("Failed to cache provider response")
		}
	}

	return capRecords(records, maxResults)
}

func capRecords(records []models.RawRecord, maxResults int) []models.RawRecord {
	if maxResults > 0 && len(records) > maxResults {
		return records[:maxResults]
	}
	return records
}

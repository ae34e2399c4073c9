package providers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sridhs21/PCVF/internal/interfaces"
	"github.com/sridhs21/PCVF/internal/models"
)

// stubProvider returns canned records or a canned error.
type stubProvider struct {
	name    string
	records []models.RawRecord
	err     error
	calls   int
	mu      sync.Mutex
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Fetch(ctx context.Context, location string, maxResults int) ([]models.RawRecord, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	return p.records, p.err
}

// memoryCache is an in-memory interfaces.CacheStorage for tests.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]models.RawRecord
	puts    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]models.RawRecord)}
}

func (c *memoryCache) Get(ctx context.Context, provider, location string, ttl time.Duration) ([]models.RawRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	records, ok := c.entries[provider+"|"+location]
	if !ok {
		return nil, interfaces.ErrCacheMiss
	}
	return records, nil
}

func (c *memoryCache) Put(ctx context.Context, provider, location string, records []models.RawRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[provider+"|"+location] = records
	c.puts++
	return nil
}

func (c *memoryCache) SweepExpired(ctx context.Context, ttl time.Duration) (int, error) {
	return 0, nil
}

func (c *memoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]models.RawRecord)
	return nil
}

func TestManager_FetchAllCombinesProviders(t *testing.T) {
	a := &stubProvider{name: "a", records: []models.RawRecord{{"name": "A1", "source": "a"}}}
	b := &stubProvider{name: "b", records: []models.RawRecord{{"name": "B1", "source": "b"}, {"name": "B2", "source": "b"}}}

	m := NewManager([]interfaces.Provider{a, b}, nil)

	records, err := m.FetchAll(context.Background(), "Boston", 10)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Registration order, not completion order.
	assert.Equal(t, "A1", records[0].GetString("name"))
	assert.Equal(t, "B1", records[1].GetString("name"))
}

func TestManager_ProviderFailureIsSkipped(t *testing.T) {
	ok := &stubProvider{name: "ok", records: []models.RawRecord{{"name": "kept"}}}
	bad := &stubProvider{name: "bad", err: errors.New("boom")}

	m := NewManager([]interfaces.Provider{bad, ok}, nil)

	records, err := m.FetchAll(context.Background(), "Boston", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "kept", records[0].GetString("name"))
}

func TestManager_FallbackWhenAllEmpty(t *testing.T) {
	empty := &stubProvider{name: "empty"}
	fallback := &stubProvider{name: "mock_data", records: []models.RawRecord{{"name": "synthetic"}}}

	m := NewManager([]interfaces.Provider{empty}, nil, WithFallback(fallback))

	records, err := m.FetchAll(context.Background(), "Boston", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "synthetic", records[0].GetString("name"))

	// The fallback never lists as an enabled source.
	assert.Equal(t, []string{"empty"}, m.EnabledSources())
}

func TestManager_FallbackNotUsedWhenDataExists(t *testing.T) {
	real := &stubProvider{name: "real", records: []models.RawRecord{{"name": "real1"}}}
	fallback := &stubProvider{name: "mock_data", records: []models.RawRecord{{"name": "synthetic"}}}

	m := NewManager([]interfaces.Provider{real}, nil, WithFallback(fallback))

	records, err := m.FetchAll(context.Background(), "Boston", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "real1", records[0].GetString("name"))
	assert.Equal(t, 0, fallback.calls)
}

func TestManager_CacheHitSkipsFetch(t *testing.T) {
	p := &stubProvider{name: "p", records: []models.RawRecord{{"name": "live"}}}
	cache := newMemoryCache()

	m := NewManager([]interfaces.Provider{p}, nil, WithCache(cache, time.Minute))

	_, err := m.FetchAll(context.Background(), "Boston", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, 1, cache.puts)

	_, err = m.FetchAll(context.Background(), "Boston", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, p.calls, "second fetch must come from cache")

	// A different location misses.
	_, err = m.FetchAll(context.Background(), "Denver", 10)
	require.NoError(t, err)
	assert.Equal(t, 2, p.calls)
}

func TestManager_CapsPerProvider(t *testing.T) {
	p := &stubProvider{name: "p", records: []models.RawRecord{
		{"name": "1"}, {"name": "2"}, {"name": "3"},
	}}

	m := NewManager([]interfaces.Provider{p}, nil)

	records, err := m.FetchAll(context.Background(), "Boston", 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/sridhs21/PCVF/internal/interfaces"
	"github.com/sridhs21/PCVF/internal/models"
)

func openTestDB(t *testing.T) *BadgerDB {
	t.Helper()
	tmpDir := t.TempDir()

	options := badgerhold.DefaultOptions
	options.Dir = tmpDir
	options.ValueDir = tmpDir
	options.Logger = nil

	store, err := badgerhold.Open(options)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return &BadgerDB{store: store, logger: arbor.NewLogger()}
}

func TestCacheStorage_PutGet(t *testing.T) {
	db := openTestDB(t)
	cache := NewCacheStorage(db, arbor.NewLogger())
	ctx := context.Background()

	records := []models.RawRecord{
		{"name": "City Vet", "source": "here"},
	}
	require.NoError(t, cache.Put(ctx, "here", "Boston", records))

	got, err := cache.Get(ctx, "here", "Boston", time.Minute)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "City Vet", got[0].GetString("name"))

	// Location keys are case-insensitive.
	got, err = cache.Get(ctx, "here", "BOSTON", time.Minute)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCacheStorage_MissAndExpiry(t *testing.T) {
	db := openTestDB(t)
	cache := NewCacheStorage(db, arbor.NewLogger())
	ctx := context.Background()

	_, err := cache.Get(ctx, "here", "Boston", time.Minute)
	assert.ErrorIs(t, err, interfaces.ErrCacheMiss)

	require.NoError(t, cache.Put(ctx, "here", "Boston", []models.RawRecord{{"name": "x"}}))

	// Any measurable age exceeds a nanosecond window.
	time.Sleep(5 * time.Millisecond)
	_, err = cache.Get(ctx, "here", "Boston", time.Nanosecond)
	assert.ErrorIs(t, err, interfaces.ErrCacheMiss)
}

func TestCacheStorage_ProviderIsolation(t *testing.T) {
	db := openTestDB(t)
	cache := NewCacheStorage(db, arbor.NewLogger())
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "here", "Boston", []models.RawRecord{{"name": "h"}}))

	_, err := cache.Get(ctx, "tomtom", "Boston", time.Minute)
	assert.ErrorIs(t, err, interfaces.ErrCacheMiss)
}

func TestCacheStorage_SweepExpired(t *testing.T) {
	db := openTestDB(t)
	cache := NewCacheStorage(db, arbor.NewLogger())
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "here", "Boston", []models.RawRecord{{"name": "x"}}))
	require.NoError(t, cache.Put(ctx, "tomtom", "Denver", []models.RawRecord{{"name": "y"}}))

	// Nothing is older than a minute yet.
	removed, err := cache.SweepExpired(ctx, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	// Everything is older than a negative cutoff.
	removed, err = cache.SweepExpired(ctx, -time.Second)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = cache.Get(ctx, "here", "Boston", time.Minute)
	assert.ErrorIs(t, err, interfaces.ErrCacheMiss)
}

func TestCacheStorage_Clear(t *testing.T) {
	db := openTestDB(t)
	cache := NewCacheStorage(db, arbor.NewLogger())
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "here", "Boston", []models.RawRecord{{"name": "x"}}))
	require.NoError(t, cache.Clear(ctx))

	_, err := cache.Get(ctx, "here", "Boston", time.Minute)
	assert.ErrorIs(t, err, interfaces.ErrCacheMiss)
}

func TestKVStorage_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	kv := NewKVStorage(db, arbor.NewLogger())
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "Here_API_Key", "secret", "HERE credentials"))

	value, err := kv.Get(ctx, "here_api_key")
	require.NoError(t, err)
	assert.Equal(t, "secret", value)

	pairs, err := kv.List(ctx)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "here_api_key", pairs[0].Key)

	require.NoError(t, kv.Delete(ctx, "HERE_API_KEY"))
	_, err = kv.Get(ctx, "here_api_key")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
}

package database_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propmatch/search-service/internal/adapters/database"
	"github.com/propmatch/search-service/internal/domain/entities"
)

type memoryCache struct {
	mu    sync.Mutex
	data  map[string][]byte
	drops []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("cache miss")
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.drops = append(c.drops, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

type countingPopularRepo struct {
	rows      []*entities.PopularSearch
	listCalls int
	refreshes int
}

func (r *countingPopularRepo) Refresh(ctx context.Context, windowDays, minOccurrences, limit int) error {
	r.refreshes++
	return nil
}

func (r *countingPopularRepo) List(ctx context.Context, limit int) ([]*entities.PopularSearch, error) {
	r.listCalls++
	return r.rows, nil
}

func TestCachedPopularSearchAdapter_ListServesFromCache(t *testing.T) {
	inner := &countingPopularRepo{
		rows: []*entities.PopularSearch{{Query: "logistics partner", SearchCount: 42}},
	}
	cache := newMemoryCache()
	adapter := database.NewCachedPopularSearchAdapter(inner, cache, 300)

	// Seed the cache the same way the adapter would
	data, err := json.Marshal(inner.rows)
	require.NoError(t, err)
	require.NoError(t, cache.Set(context.Background(), "popular_searches:10", data, 300))

	rows, err := adapter.List(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "logistics partner", rows[0].Query)
	assert.Zero(t, inner.listCalls)
}

func TestCachedPopularSearchAdapter_ListFallsThroughOnMiss(t *testing.T) {
	inner := &countingPopularRepo{
		rows: []*entities.PopularSearch{{Query: "warehouse space", SearchCount: 17}},
	}
	adapter := database.NewCachedPopularSearchAdapter(inner, newMemoryCache(), 300)

	rows, err := adapter.List(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, inner.listCalls)

	// The cache write is asynchronous; give it a moment
	time.Sleep(50 * time.Millisecond)
}

func TestCachedPopularSearchAdapter_RefreshInvalidatesCache(t *testing.T) {
	inner := &countingPopularRepo{}
	cache := newMemoryCache()
	adapter := database.NewCachedPopularSearchAdapter(inner, cache, 300)

	err := adapter.Refresh(context.Background(), 30, 5, 100)

	require.NoError(t, err)
	assert.Equal(t, 1, inner.refreshes)
	assert.Contains(t, cache.drops, "popular_searches:100")
}

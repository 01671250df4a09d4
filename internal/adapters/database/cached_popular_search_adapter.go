package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/propmatch/search-service/internal/domain/entities"
	"github.com/propmatch/search-service/internal/domain/providers"
	"github.com/propmatch/search-service/internal/domain/repositories"
)

// CachedPopularSearchAdapter wraps PopularSearchRepository with caching.
// The summary only changes on refresh, so reads are cheap to cache; a
// refresh invalidates the cached lists.
type CachedPopularSearchAdapter struct {
	adapter repositories.PopularSearchRepository
	cache   providers.CacheProvider
	ttl     int
}

// NewCachedPopularSearchAdapter creates a new cached popular search adapter
func NewCachedPopularSearchAdapter(adapter repositories.PopularSearchRepository, cache providers.CacheProvider, ttlSeconds int) repositories.PopularSearchRepository {
	if ttlSeconds <= 0 {
		ttlSeconds = 300
	}
	return &CachedPopularSearchAdapter{
		adapter: adapter,
		cache:   cache,
		ttl:     ttlSeconds,
	}
}

func popularSearchCacheKey(limit int) string {
	return fmt.Sprintf("popular_searches:%d", limit)
}

// Refresh rebuilds the summary and drops the cached lists so the next read
// sees the new aggregate.
func (a *CachedPopularSearchAdapter) Refresh(ctx context.Context, windowDays, minOccurrences, limit int) error {
	if err := a.adapter.Refresh(ctx, windowDays, minOccurrences, limit); err != nil {
		return err
	}

	if err := a.cache.Delete(ctx, popularSearchCacheKey(limit)); err != nil {
		log.Printf("Failed to invalidate popular search cache: %v", err)
	}

	return nil
}

// List returns the current summary, from cache when possible.
func (a *CachedPopularSearchAdapter) List(ctx context.Context, limit int) ([]*entities.PopularSearch, error) {
	cacheKey := popularSearchCacheKey(limit)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var popular []*entities.PopularSearch
		if err := json.Unmarshal(cached, &popular); err == nil {
			return popular, nil
		}
		log.Printf("Failed to unmarshal cached popular searches: %v", err)
	}

	popular, err := a.adapter.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(popular); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, a.ttl); err != nil {
				log.Printf("Failed to cache popular searches: %v", err)
			}
		}
	}()

	return popular, nil
}

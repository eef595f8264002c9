package capability

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/RAJITHAREDDYTIRUTHANI/meal-planning-agent/core"
)

// CachedCatalogSearch memoizes catalog queries in an LRU cache. Meal plans
// repeat common dishes across days and users, so identical queries are
// frequent and catalog results change slowly.
type CachedCatalogSearch struct {
	inner CatalogSearch
	cache *lru.Cache[string, []core.Recipe]
}

// NewCachedCatalogSearch caches up to size successful query results.
func NewCachedCatalogSearch(inner CatalogSearch, size int) (*CachedCatalogSearch, error) {
	cache, err := lru.New[string, []core.Recipe](size)
	if err != nil {
		return nil, err
	}
	return &CachedCatalogSearch{inner: inner, cache: cache}, nil
}

// Search returns a cached result when the full query matches; only
// successful lookups are cached so transient failures stay retryable.
func (c *CachedCatalogSearch) Search(ctx context.Context, query CatalogQuery) ([]core.Recipe, error) {
	key := cacheKey(query)
	if recipes, ok := c.cache.Get(key); ok {
		return recipes, nil
	}
	recipes, err := c.inner.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, recipes)
	return recipes, nil
}

func cacheKey(q CatalogQuery) string {
	parts := append([]string{q.Query, q.Cuisine}, q.DietaryRestrictions...)
	return strings.ToLower(strings.Join(parts, "|"))
}

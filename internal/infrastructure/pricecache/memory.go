package pricecache

import (
	"context"
	"strings"
	"time"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/pkg/metrics"

	"github.com/patrickmn/go-cache"
)

// MemoryCache keeps price records in process memory.
type MemoryCache struct {
	store *cache.Cache
}

// NewMemoryCache creates an in-process cache with the given TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{store: cache.New(ttl, 2*ttl)}
}

// Get implements port.PriceCache.
func (c *MemoryCache) Get(_ context.Context, symbol string) (entity.TokenPriceRecord, bool) {
	v, found := c.store.Get(strings.ToUpper(symbol))
	if !found {
		return entity.TokenPriceRecord{}, false
	}
	rec, ok := v.(entity.TokenPriceRecord)
	if ok {
		metrics.CacheHits.WithLabelValues("memory").Inc()
	}
	return rec, ok
}

// Set implements port.PriceCache.
func (c *MemoryCache) Set(_ context.Context, record entity.TokenPriceRecord) {
	c.store.Set(strings.ToUpper(record.Symbol), record, cache.DefaultExpiration)
}

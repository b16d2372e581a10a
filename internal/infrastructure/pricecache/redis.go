package pricecache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/app/port"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/pkg/metrics"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RedisCache shares price records between agent instances. Redis errors are
// logged and treated as misses.
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	logger port.Logger
}

// NewRedisCache wraps an existing redis client.
func NewRedisCache(rdb *redis.Client, ttl time.Duration, prefix string, log port.Logger) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl, prefix: prefix, logger: log}
}

func (c *RedisCache) key(symbol string) string {
	return c.prefix + strings.ToUpper(symbol)
}

// Get implements port.PriceCache.
func (c *RedisCache) Get(ctx context.Context, symbol string) (entity.TokenPriceRecord, bool) {
	data, err := c.rdb.Get(ctx, c.key(symbol)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Redis price cache read failed", "symbol", symbol, "error", err)
		}
		return entity.TokenPriceRecord{}, false
	}
	var rec entity.TokenPriceRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		c.logger.Warn("Discarding undecodable cached price", "symbol", symbol, "error", err)
		return entity.TokenPriceRecord{}, false
	}
	metrics.CacheHits.WithLabelValues("redis").Inc()
	return rec, true
}

// Set implements port.PriceCache.
func (c *RedisCache) Set(ctx context.Context, record entity.TokenPriceRecord) {
	data, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.key(record.Symbol), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Redis price cache write failed", "symbol", record.Symbol, "error", err)
	}
}

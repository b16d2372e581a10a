package pricecache

import (
	"fmt"
	"time"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/app/port"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/infrastructure/configloader"

	"github.com/redis/go-redis/v9"
)

// New builds the configured cache backend. It returns nil for "none".
// The returned closer releases the redis connection pool, if any.
func New(cfg configloader.PriceCacheConfig, log port.Logger) (port.PriceCache, func() error, error) {
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	noop := func() error { return nil }

	switch cfg.Backend {
	case "", "none":
		return nil, noop, nil
	case "memory":
		log.Info("Price cache enabled", "backend", "memory", "ttl", ttl)
		return NewMemoryCache(ttl), noop, nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		log.Info("Price cache enabled", "backend", "redis", "addr", cfg.RedisAddr, "ttl", ttl)
		return NewRedisCache(rdb, ttl, cfg.KeyPrefix, log), rdb.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown price cache backend %q", cfg.Backend)
	}
}

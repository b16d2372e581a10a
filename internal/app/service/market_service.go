package service

import (
	"context"
	"time"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/app/port"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/pkg/metrics"

	"github.com/patrickmn/go-cache"
)

const overviewCacheKey = "global"

// fallbackOverview is served when global market figures are unavailable.
var fallbackOverview = entity.MarketOverview{
	TotalMarketCapUSD: 2.5e12,
	TotalVolumeUSD:    5e10,
	BTCDominance:      45,
	ETHDominance:      18,
}

// MarketServiceImpl implements port.MarketService.
type MarketServiceImpl struct {
	provider port.GlobalMarketProvider
	memo     *cache.Cache
	timeout  time.Duration
	logger   port.Logger
}

// NewMarketService creates a new instance of MarketServiceImpl. provider may be nil.
func NewMarketService(provider port.GlobalMarketProvider, ttl, timeout time.Duration, l port.Logger) *MarketServiceImpl {
	return &MarketServiceImpl{
		provider: provider,
		memo:     cache.New(ttl, 2*ttl),
		timeout:  timeout,
		logger:   l,
	}
}

// GetOverview returns the memoized overview or fetches a fresh one.
// Failures are not memoized.
func (s *MarketServiceImpl) GetOverview(ctx context.Context) entity.MarketOverview {
	if v, ok := s.memo.Get(overviewCacheKey); ok {
		if ov, ok := v.(entity.MarketOverview); ok {
			return ov
		}
	}

	if s.provider == nil {
		return s.fallback(entity.StatusNotConfigured, nil)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	ov, err := s.provider.FetchGlobal(callCtx)
	status := entity.ClassifyError(err)
	metrics.ObserveFetch("coingecko_global", string(status), started)
	if err != nil {
		return s.fallback(status, err)
	}

	ov.Status = entity.StatusOK
	s.memo.Set(overviewCacheKey, ov, cache.DefaultExpiration)
	return ov
}

func (s *MarketServiceImpl) fallback(status entity.FetchStatus, err error) entity.MarketOverview {
	metrics.FallbackTotal.WithLabelValues("market").Inc()
	s.logger.Warn("Global market data unavailable, using fallback figures", "status", status, "error", err)
	ov := fallbackOverview
	ov.Status = status
	ov.FetchedAt = time.Now()
	return ov
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/app/port"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/pkg/metrics"
)

const (
	sourceStablecoin = "stablecoin"
	sourceCache      = "cache"
)

// stablecoinSymbols are pegged to $1.00 regardless of the alias table.
var stablecoinSymbols = map[string]struct{}{
	"USDC": {}, "USDT": {}, "DAI": {}, "BUSD": {}, "TUSD": {}, "USDP": {}, "FDUSD": {},
}

// IsStablecoin reports whether the symbol is treated as a $1.00 stablecoin.
func IsStablecoin(symbol string) bool {
	_, ok := stablecoinSymbols[strings.ToUpper(symbol)]
	return ok
}

// PriceServiceImpl implements port.PriceService.
type PriceServiceImpl struct {
	resolver port.SymbolResolver
	provider port.PriceProvider
	cache    port.PriceCache
	timeout  time.Duration
	logger   port.Logger
	now      func() time.Time
}

// NewPriceService creates a new instance of PriceServiceImpl.
// provider may be nil (every lookup is then NotConfigured); cache may be nil.
func NewPriceService(
	resolver port.SymbolResolver,
	provider port.PriceProvider,
	cache port.PriceCache,
	timeout time.Duration,
	l port.Logger,
) *PriceServiceImpl {
	return &PriceServiceImpl{
		resolver: resolver,
		provider: provider,
		cache:    cache,
		timeout:  timeout,
		logger:   l,
		now:      time.Now,
	}
}

// GetPrice performs one provider lookup. It never returns an error: failures
// give a zero-priced record with a non-OK status.
func (s *PriceServiceImpl) GetPrice(ctx context.Context, ref entity.TokenRef) entity.PriceResult {
	if ref.Symbol == "" {
		return s.failed(ref, "", fmt.Errorf("empty token reference: %w", entity.ErrSymbolNotFound))
	}

	if ref.Stablecoin || IsStablecoin(ref.Symbol) {
		return entity.PriceResult{
			Record: entity.TokenPriceRecord{
				Symbol:      ref.Symbol,
				DisplayName: ref.Name,
				PriceUSD:    1.0,
				FetchedAt:   s.now(),
			},
			Status: entity.StatusOK,
			Source: sourceStablecoin,
		}
	}

	if s.cache != nil {
		if rec, ok := s.cache.Get(ctx, ref.Symbol); ok {
			return entity.PriceResult{Record: rec, Status: entity.StatusOK, Source: sourceCache}
		}
	}

	if s.provider == nil {
		return s.failed(ref, "", fmt.Errorf("no market data provider: %w", entity.ErrNotConfigured))
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	rec, err := s.provider.FetchPrice(callCtx, ref)
	if err == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		err = callCtx.Err()
	}
	status := entity.ClassifyError(err)
	metrics.ObserveFetch(s.provider.Name(), string(status), started)

	if err != nil {
		return s.failed(ref, s.provider.Name(), err)
	}

	if rec.Symbol == "" {
		rec.Symbol = ref.Symbol
	}
	if rec.DisplayName == "" {
		rec.DisplayName = ref.Name
	}
	if rec.FetchedAt.IsZero() {
		rec.FetchedAt = s.now()
	}
	if s.cache != nil {
		s.cache.Set(ctx, rec)
	}
	s.logger.Debug("Price fetched", "symbol", rec.Symbol, "price", rec.PriceUSD, "source", s.provider.Name())
	return entity.PriceResult{Record: rec, Status: entity.StatusOK, Source: s.provider.Name()}
}

// GetPriceBySymbol resolves an exact ticker and fetches its price.
func (s *PriceServiceImpl) GetPriceBySymbol(ctx context.Context, symbol string) entity.PriceResult {
	ref, ok := s.resolver.ResolveSymbol(symbol)
	if !ok {
		return s.failed(entity.TokenRef{Symbol: strings.ToUpper(symbol)}, "", fmt.Errorf("unresolvable symbol %q: %w", symbol, entity.ErrSymbolNotFound))
	}
	return s.GetPrice(ctx, ref)
}

func (s *PriceServiceImpl) failed(ref entity.TokenRef, source string, err error) entity.PriceResult {
	status := entity.ClassifyError(err)
	metrics.FallbackTotal.WithLabelValues("price").Inc()
	s.logger.Warn("Price lookup failed, using zero price", "symbol", ref.Symbol, "status", status, "error", err)
	return entity.PriceResult{
		Record: entity.TokenPriceRecord{
			Symbol:      ref.Symbol,
			DisplayName: ref.Name,
			FetchedAt:   s.now(),
		},
		Status: status,
		Source: source,
		Err:    err,
	}
}

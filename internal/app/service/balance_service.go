package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/app/port"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/infrastructure/configloader"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/pkg/metrics"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/pkg/utils"

	"golang.org/x/sync/errgroup"
)

// demoBalances are served whenever live balances cannot be fetched.
var demoBalances = []entity.TokenBalance{
	entity.NewTokenBalance("ETH", 2.5, 2400),
	entity.NewTokenBalance("USDC", 1500, 1),
}

type heldAsset struct {
	symbol   string
	quantity float64
}

// BalanceServiceImpl implements port.BalanceService.
type BalanceServiceImpl struct {
	clients              port.ChainDataClientProvider
	networks             port.NetworkProvider
	prices               port.PriceService
	maxTokensPerCall     int
	dustThreshold        float64
	maxConcurrentPricing int
	logger               port.Logger
}

// NewBalanceService creates a new instance of BalanceServiceImpl.
func NewBalanceService(
	cp port.ChainDataClientProvider,
	np port.NetworkProvider,
	ps port.PriceService,
	cfg configloader.ChainDataConfig,
	l port.Logger,
) *BalanceServiceImpl {
	maxPricing := cfg.MaxConcurrentPricing
	if maxPricing <= 0 {
		maxPricing = 1
	}
	return &BalanceServiceImpl{
		clients:              cp,
		networks:             np,
		prices:               ps,
		maxTokensPerCall:     cfg.MaxTokensPerCall,
		dustThreshold:        cfg.DustThreshold,
		maxConcurrentPricing: maxPricing,
		logger:               l,
	}
}

// DemoBalances returns a copy of the fixed demo holdings.
func (s *BalanceServiceImpl) DemoBalances() []entity.TokenBalance {
	return append([]entity.TokenBalance(nil), demoBalances...)
}

// FetchBalances returns the valued holdings of an address on the active
// network. Any pipeline failure replaces the whole result with the demo list.
func (s *BalanceServiceImpl) FetchBalances(ctx context.Context, walletAddress string) entity.BalanceResult {
	profile := s.networks.Current()

	client, err := s.clients.GetClient(profile)
	if err != nil {
		return s.fallback(walletAddress, err)
	}

	assets, err := s.collectAssets(ctx, client, profile, walletAddress)
	if err != nil {
		return s.fallback(walletAddress, err)
	}

	balances, err := s.valueAssets(ctx, assets)
	if err != nil {
		return s.fallback(walletAddress, err)
	}

	s.logger.Info("Live balances fetched", "address", walletAddress, "network", profile.Key, "assets", len(balances))
	return entity.BalanceResult{Balances: balances, Status: entity.StatusOK}
}

// collectAssets reads native and token balances, drops dust and spam.
// The native coin is always included.
func (s *BalanceServiceImpl) collectAssets(
	ctx context.Context,
	client port.ChainDataClient,
	profile entity.NetworkProfile,
	walletAddress string,
) ([]heldAsset, error) {
	wb, err := client.GetWalletBalances(ctx, walletAddress)
	if err != nil {
		return nil, fmt.Errorf("wallet balances: %w", err)
	}

	assets := []heldAsset{{
		symbol:   profile.NativeCurrencySymbol,
		quantity: utils.ToFloat(wb.Native, profile.NativeDecimals),
	}}

	nonZero := utils.Filter(wb.Tokens, func(t entity.RawTokenBalance) bool {
		return t.Balance != nil && t.Balance.Sign() > 0
	})

	// Метаданные запрашиваются последовательно, чтобы не превышать лимиты провайдера.
	for _, tb := range utils.FirstN(nonZero, s.maxTokensPerCall) {
		meta, err := client.GetTokenMetadata(ctx, tb.ContractAddress)
		if errors.Is(err, entity.ErrUnusableToken) {
			s.logger.Debug("Skipping token with unusable metadata", "contract", tb.ContractAddress, "error", err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("token metadata: %w", err)
		}

		qty := utils.ToFloat(tb.Balance, meta.Decimals)
		if qty < s.dustThreshold {
			s.logger.Debug("Skipping dust balance", "contract", tb.ContractAddress, "symbol", meta.Symbol, "quantity", qty)
			continue
		}
		if !ValidTokenSymbol(meta.Symbol) {
			s.logger.Debug("Skipping token with suspicious symbol", "contract", tb.ContractAddress, "symbol", meta.Symbol)
			continue
		}
		// Контракт не может быть нативной монетой сети.
		if strings.EqualFold(meta.Symbol, profile.NativeCurrencySymbol) {
			s.logger.Debug("Skipping token impersonating the native coin", "contract", tb.ContractAddress, "symbol", meta.Symbol)
			continue
		}
		assets = append(assets, heldAsset{symbol: strings.ToUpper(meta.Symbol), quantity: qty})
	}
	return assets, nil
}

// valueAssets prices every asset. A failed price yields value 0 for that
// asset; only context cancellation aborts.
func (s *BalanceServiceImpl) valueAssets(ctx context.Context, assets []heldAsset) ([]entity.TokenBalance, error) {
	out := make([]entity.TokenBalance, len(assets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrentPricing)
	for i, a := range assets {
		g.Go(func() error {
			pr := s.prices.GetPriceBySymbol(gctx, a.symbol)
			if !pr.Known() {
				s.logger.Warn("No price for held asset, valuing at zero", "symbol", a.symbol, "status", pr.Status)
			}
			out[i] = entity.NewTokenBalance(a.symbol, a.quantity, pr.Record.PriceUSD)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BalanceServiceImpl) fallback(walletAddress string, err error) entity.BalanceResult {
	status := entity.ClassifyError(err)
	if status == entity.StatusOK || status == entity.StatusNotFound {
		status = entity.StatusTransientFailure
	}
	metrics.FallbackTotal.WithLabelValues("balances").Inc()
	s.logger.Warn("Balance fetch failed, serving demo balances", "address", walletAddress, "status", status, "error", err)
	return entity.BalanceResult{
		Balances: s.DemoBalances(),
		Status:   status,
		Demo:     true,
		Err:      err,
	}
}

package service

import (
	"context"
	"strings"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/app/port"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/pkg/metrics"

	"golang.org/x/sync/errgroup"
)

// RiskScore grades concentration in the native coin: >80% gives 8, >60% gives 6,
// >40% gives 4, anything else 3.
func RiskScore(nativeValueUSD, totalValueUSD float64) int {
	if totalValueUSD <= 0 {
		return 3
	}
	pct := nativeValueUSD / totalValueUSD
	switch {
	case pct > 0.8:
		return 8
	case pct > 0.6:
		return 6
	case pct > 0.4:
		return 4
	default:
		return 3
	}
}

// BuildSnapshot sums balances and positions and scores the result. It
// performs no I/O.
func BuildSnapshot(balances []entity.TokenBalance, positions []entity.ProtocolPosition, nativeSymbol string) entity.PortfolioSnapshot {
	var total, native float64
	for _, b := range balances {
		total += b.ValueUSD
		if strings.EqualFold(b.Symbol, nativeSymbol) {
			native += b.ValueUSD
		}
	}
	for _, p := range positions {
		total += p.ValueUSD
	}

	if balances == nil {
		balances = []entity.TokenBalance{}
	}
	if positions == nil {
		positions = []entity.ProtocolPosition{}
	}
	return entity.PortfolioSnapshot{
		TotalValueUSD: total,
		Balances:      balances,
		Positions:     positions,
		RiskScore:     RiskScore(native, total),
		Source:        entity.SourceLive,
	}
}

// PortfolioServiceImpl implements port.PortfolioService.
type PortfolioServiceImpl struct {
	balances      port.BalanceService
	positions     port.PositionProvider
	networks      port.NetworkProvider
	walletAddress string
	logger        port.Logger
}

// NewPortfolioService creates a new instance of PortfolioServiceImpl.
// walletAddress is used when a request names no address.
func NewPortfolioService(
	bs port.BalanceService,
	pp port.PositionProvider,
	np port.NetworkProvider,
	walletAddress string,
	l port.Logger,
) *PortfolioServiceImpl {
	return &PortfolioServiceImpl{
		balances:      bs,
		positions:     pp,
		networks:      np,
		walletAddress: walletAddress,
		logger:        l,
	}
}

// DefaultAddress implements port.PortfolioService.
func (s *PortfolioServiceImpl) DefaultAddress() string {
	return s.walletAddress
}

// DemoSnapshot is the snapshot served without a usable wallet: demo
// balances plus the demo liquidity position.
func (s *PortfolioServiceImpl) DemoSnapshot() entity.PortfolioSnapshot {
	snap := BuildSnapshot(s.balances.DemoBalances(), s.positions.DemoPositions(), s.networks.Current().NativeCurrencySymbol)
	snap.Source = entity.SourceDemo
	return snap
}

// GetPortfolioData fetches balances and positions concurrently and aggregates them.
func (s *PortfolioServiceImpl) GetPortfolioData(ctx context.Context, walletAddress string) entity.PortfolioResult {
	address := strings.TrimSpace(walletAddress)
	if address == "" {
		s.logger.Debug("No wallet address, serving demo portfolio")
		metrics.FallbackTotal.WithLabelValues("portfolio").Inc()
		return entity.PortfolioResult{Snapshot: s.DemoSnapshot(), Status: entity.StatusNotConfigured}
	}

	var (
		balanceRes entity.BalanceResult
		positions  []entity.ProtocolPosition
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		balanceRes = s.balances.FetchBalances(gctx, address)
		return nil
	})
	g.Go(func() error {
		var err error
		positions, err = s.positions.GetPositions(gctx, address)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("Position lookup failed, serving demo portfolio", "address", address, "error", err)
		metrics.FallbackTotal.WithLabelValues("portfolio").Inc()
		return entity.PortfolioResult{Snapshot: s.DemoSnapshot(), Status: entity.ClassifyError(err), Err: err}
	}

	if balanceRes.Demo {
		metrics.FallbackTotal.WithLabelValues("portfolio").Inc()
		return entity.PortfolioResult{Snapshot: s.DemoSnapshot(), Status: balanceRes.Status, Err: balanceRes.Err}
	}

	snap := BuildSnapshot(balanceRes.Balances, positions, s.networks.Current().NativeCurrencySymbol)
	s.logger.Info("Portfolio snapshot built", "address", address, "total_usd", snap.TotalValueUSD, "risk", snap.RiskScore)
	return entity.PortfolioResult{Snapshot: snap, Status: entity.StatusOK}
}

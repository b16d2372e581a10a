package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/app/port"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPortfolioService(bs port.BalanceService, positions []entity.ProtocolPosition, address string) *PortfolioServiceImpl {
	return NewPortfolioService(bs, NewConfigPositionProvider(positions), fakeNetworks{profile: testProfile}, address, logger.NewNop())
}

func assertDemoSnapshot(t *testing.T, snap entity.PortfolioSnapshot) {
	t.Helper()
	assert.Equal(t, entity.SourceDemo, snap.Source)
	assert.InDelta(t, 9500, snap.TotalValueUSD, 1e-9)
	assert.Equal(t, 6, snap.RiskScore)
	require.Len(t, snap.Balances, 2)
	require.Len(t, snap.Positions, 1)
	assert.Equal(t, "Uniswap V3", snap.Positions[0].ProtocolName)
	assert.Equal(t, "ETH/USDC", *snap.Positions[0].PairLabel)
}

func TestGetPortfolioDataWithoutAddress(t *testing.T) {
	svc := newTestPortfolioService(staticBalances{}, nil, "")

	res := svc.GetPortfolioData(context.Background(), "  ")
	assert.Equal(t, entity.StatusNotConfigured, res.Status)
	assertDemoSnapshot(t, res.Snapshot)
}

func TestGetPortfolioDataFailingClientServesDemo(t *testing.T) {
	bs := newTestBalanceService(t,
		fakeClientProvider{client: &fakeChainClient{err: errors.New("dial tcp: i/o timeout")}},
		map[string]float64{"ETH": 2400}, testChainData)
	svc := newTestPortfolioService(bs, nil, "0xabc")

	res := svc.GetPortfolioData(context.Background(), "0xabc")
	assert.Equal(t, entity.StatusTransientFailure, res.Status)
	assert.Error(t, res.Err)
	assertDemoSnapshot(t, res.Snapshot)
}

func TestGetPortfolioDataLive(t *testing.T) {
	bs := staticBalances{res: entity.BalanceResult{
		Balances: []entity.TokenBalance{
			entity.NewTokenBalance("ETH", 2.5, 2400),
			entity.NewTokenBalance("USDC", 1500, 1),
		},
		Status: entity.StatusOK,
	}}
	positions := []entity.ProtocolPosition{{ProtocolName: "Aave V3", PositionType: entity.PositionLending, ValueUSD: 500}}
	svc := newTestPortfolioService(bs, positions, "0xabc")

	res := svc.GetPortfolioData(context.Background(), "0xabc")
	require.Equal(t, entity.StatusOK, res.Status)
	snap := res.Snapshot
	assert.Equal(t, entity.SourceLive, snap.Source)
	assert.InDelta(t, 8000, snap.TotalValueUSD, 1e-9)
	// 6000 / 8000 = 75% native
	assert.Equal(t, 6, snap.RiskScore)
	assert.Len(t, snap.Positions, 1)
}

func TestGetPortfolioDataCancelledContext(t *testing.T) {
	bs := staticBalances{res: entity.BalanceResult{Status: entity.StatusOK}}
	svc := newTestPortfolioService(bs, nil, "0xabc")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := svc.GetPortfolioData(ctx, "0xabc")
	assert.Equal(t, entity.StatusTransientFailure, res.Status)
	assertDemoSnapshot(t, res.Snapshot)
}

func TestDefaultAddress(t *testing.T) {
	svc := newTestPortfolioService(staticBalances{}, nil, "0xdefault")
	assert.Equal(t, "0xdefault", svc.DefaultAddress())
}

func TestRiskScoreBoundaries(t *testing.T) {
	tests := []struct {
		native, total float64
		want          int
	}{
		{100, 100, 8},
		{80.01, 100, 8},
		{80, 100, 6},
		{60.01, 100, 6},
		{60, 100, 4},
		{40.01, 100, 4},
		{40, 100, 3},
		{0, 100, 3},
		{0, 0, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskScore(tt.native, tt.total), "%v/%v", tt.native, tt.total)
	}
}

func TestBuildSnapshotEmpty(t *testing.T) {
	snap := BuildSnapshot(nil, nil, "ETH")
	assert.Zero(t, snap.TotalValueUSD)
	assert.Equal(t, 3, snap.RiskScore)
	assert.NotNil(t, snap.Balances)
	assert.NotNil(t, snap.Positions)
}

func TestBuildSnapshotTotalIsSum(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	symbols := []string{"ETH", "USDC", "LINK", "UNI"}

	for round := 0; round < 50; round++ {
		var want float64
		balances := make([]entity.TokenBalance, 0, len(symbols))
		for _, s := range symbols[:rng.Intn(len(symbols)+1)] {
			b := entity.NewTokenBalance(s, rng.Float64()*10, rng.Float64()*3000)
			want += b.ValueUSD
			balances = append(balances, b)
		}
		positions := make([]entity.ProtocolPosition, rng.Intn(3))
		for i := range positions {
			positions[i] = entity.ProtocolPosition{ProtocolName: "P", ValueUSD: rng.Float64() * 1000}
			want += positions[i].ValueUSD
		}

		snap := BuildSnapshot(balances, positions, "eth")
		assert.InDelta(t, want, snap.TotalValueUSD, 1e-6)
		assert.Contains(t, []int{3, 4, 6, 8}, snap.RiskScore)
	}
}

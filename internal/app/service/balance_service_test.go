package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"math/rand"
	"testing"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/infrastructure/configloader"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testChainData = configloader.ChainDataConfig{
	MaxTokensPerCall:     5,
	DustThreshold:        0.001,
	MaxConcurrentPricing: 3,
}

func newTestBalanceService(t *testing.T, cp fakeClientProvider, prices map[string]float64, cfg configloader.ChainDataConfig) *BalanceServiceImpl {
	t.Helper()
	ps := newTestPriceService(t, &fakePriceProvider{prices: prices}, nil)
	return NewBalanceService(cp, fakeNetworks{profile: testProfile}, ps, cfg, logger.NewNop())
}

func sumValues(balances []entity.TokenBalance) float64 {
	var total float64
	for _, b := range balances {
		total += b.ValueUSD
	}
	return total
}

func TestFetchBalancesSkipsDustAndSpam(t *testing.T) {
	client := &fakeChainClient{
		balances: entity.WalletBalances{
			Native: wei(2.5),
			Tokens: []entity.RawTokenBalance{
				{ContractAddress: "0xdust", Balance: big.NewInt(100)},
				{ContractAddress: "0xzero", Balance: big.NewInt(0)},
				{ContractAddress: "0xspam", Balance: big.NewInt(1_000_000_000)},
			},
		},
		meta: map[string]entity.TokenMetadata{
			"0xdust": {Name: "Dust", Symbol: "DST", Decimals: 6},
			"0xspam": {Name: "Free", Symbol: "FREEAIRDROP", Decimals: 6},
		},
	}
	svc := newTestBalanceService(t, fakeClientProvider{client: client}, map[string]float64{"ETH": 2400}, testChainData)

	res := svc.FetchBalances(context.Background(), "0xabc")
	require.Equal(t, entity.StatusOK, res.Status)
	assert.False(t, res.Demo)
	require.Len(t, res.Balances, 1)
	assert.Equal(t, "ETH", res.Balances[0].Symbol)
	assert.InDelta(t, 2.5, res.Balances[0].Quantity, 1e-9)
	assert.InDelta(t, 6000, res.Balances[0].ValueUSD, 1e-6)
}

func TestFetchBalancesSkipsNativeTickerTokens(t *testing.T) {
	client := &fakeChainClient{
		balances: entity.WalletBalances{
			Native: wei(0.1),
			Tokens: []entity.RawTokenBalance{
				{ContractAddress: "0xfakeeth", Balance: wei(1_000_000)},
				{ContractAddress: "0xusdc", Balance: big.NewInt(1000_000000)},
			},
		},
		meta: map[string]entity.TokenMetadata{
			"0xfakeeth": {Name: "Ether", Symbol: "eth", Decimals: 18},
			"0xusdc":    {Name: "USD Coin", Symbol: "USDC", Decimals: 6},
		},
	}
	svc := newTestBalanceService(t, fakeClientProvider{client: client}, map[string]float64{"ETH": 2400}, testChainData)

	res := svc.FetchBalances(context.Background(), "0xabc")
	require.Equal(t, entity.StatusOK, res.Status)
	require.Len(t, res.Balances, 2)
	assert.Equal(t, "ETH", res.Balances[0].Symbol)
	assert.InDelta(t, 0.1, res.Balances[0].Quantity, 1e-12)
	assert.Equal(t, "USDC", res.Balances[1].Symbol)
	assert.InDelta(t, 1240, sumValues(res.Balances), 1e-6)

	snap := BuildSnapshot(res.Balances, nil, testProfile.NativeCurrencySymbol)
	assert.InDelta(t, 1240, snap.TotalValueUSD, 1e-6)
	assert.Equal(t, 3, snap.RiskScore)
}

func TestFetchBalancesSkipsTokenWithUnusableMetadata(t *testing.T) {
	client := &fakeChainClient{
		balances: entity.WalletBalances{
			Native: wei(2.5),
			Tokens: []entity.RawTokenBalance{
				{ContractAddress: "0xjunk", Balance: big.NewInt(1_000_000_000)},
				{ContractAddress: "0xusdc", Balance: big.NewInt(1500_000000)},
			},
		},
		meta: map[string]entity.TokenMetadata{
			"0xusdc": {Name: "USD Coin", Symbol: "USDC", Decimals: 6},
		},
		metaErrs: map[string]error{
			"0xjunk": fmt.Errorf("metadata for 0xjunk has no usable decimals: %w", entity.ErrUnusableToken),
		},
	}
	svc := newTestBalanceService(t, fakeClientProvider{client: client}, map[string]float64{"ETH": 2400}, testChainData)

	res := svc.FetchBalances(context.Background(), "0xabc")
	require.Equal(t, entity.StatusOK, res.Status)
	assert.False(t, res.Demo)
	require.Len(t, res.Balances, 2)
	assert.Equal(t, "USDC", res.Balances[1].Symbol)
	assert.InDelta(t, 7500, sumValues(res.Balances), 1e-6)
}

func TestFetchBalancesValuesTokens(t *testing.T) {
	client := &fakeChainClient{
		balances: entity.WalletBalances{
			Native: wei(1),
			Tokens: []entity.RawTokenBalance{
				{ContractAddress: "0xusdc", Balance: big.NewInt(1500_000000)},
				{ContractAddress: "0xfoo", Balance: big.NewInt(10_000000)},
			},
		},
		meta: map[string]entity.TokenMetadata{
			"0xusdc": {Name: "USD Coin", Symbol: "USDC", Decimals: 6},
			"0xfoo":  {Name: "Foo", Symbol: "foo", Decimals: 6},
		},
	}
	svc := newTestBalanceService(t, fakeClientProvider{client: client}, map[string]float64{"ETH": 2000}, testChainData)

	res := svc.FetchBalances(context.Background(), "0xabc")
	require.Equal(t, entity.StatusOK, res.Status)
	require.Len(t, res.Balances, 3)

	bySymbol := map[string]entity.TokenBalance{}
	for _, b := range res.Balances {
		bySymbol[b.Symbol] = b
	}
	assert.InDelta(t, 2000, bySymbol["ETH"].ValueUSD, 1e-6)
	assert.InDelta(t, 1500, bySymbol["USDC"].ValueUSD, 1e-6)
	// unpriced tokens stay in the list at zero value
	assert.InDelta(t, 10, bySymbol["FOO"].Quantity, 1e-9)
	assert.Zero(t, bySymbol["FOO"].ValueUSD)
}

func TestFetchBalancesCapsTokenLookups(t *testing.T) {
	tokens := make([]entity.RawTokenBalance, 0, 4)
	meta := map[string]entity.TokenMetadata{}
	for i := 0; i < 4; i++ {
		addr := fmt.Sprintf("0x%d", i)
		tokens = append(tokens, entity.RawTokenBalance{ContractAddress: addr, Balance: big.NewInt(5_000000)})
		meta[addr] = entity.TokenMetadata{Symbol: fmt.Sprintf("TK%d", i), Decimals: 6}
	}
	client := &fakeChainClient{balances: entity.WalletBalances{Native: big.NewInt(0), Tokens: tokens}, meta: meta}

	cfg := testChainData
	cfg.MaxTokensPerCall = 2
	svc := newTestBalanceService(t, fakeClientProvider{client: client}, nil, cfg)

	res := svc.FetchBalances(context.Background(), "0xabc")
	require.Equal(t, entity.StatusOK, res.Status)
	assert.Len(t, res.Balances, 3)
}

func TestFetchBalancesFallsBackToDemo(t *testing.T) {
	tests := []struct {
		name   string
		cp     fakeClientProvider
		status entity.FetchStatus
	}{
		{
			name:   "not configured",
			cp:     fakeClientProvider{err: entity.ErrNotConfigured},
			status: entity.StatusNotConfigured,
		},
		{
			name:   "rpc failure",
			cp:     fakeClientProvider{client: &fakeChainClient{err: errors.New("rpc down")}},
			status: entity.StatusTransientFailure,
		},
		{
			name: "metadata failure",
			cp: fakeClientProvider{client: &fakeChainClient{
				balances: entity.WalletBalances{
					Native: wei(1),
					Tokens: []entity.RawTokenBalance{{ContractAddress: "0xbad", Balance: big.NewInt(1)}},
				},
				metaErr: errors.New("timeout"),
			}},
			status: entity.StatusTransientFailure,
		},
		{
			name: "malformed metadata",
			cp: fakeClientProvider{client: &fakeChainClient{
				balances: entity.WalletBalances{
					Native: wei(1),
					Tokens: []entity.RawTokenBalance{{ContractAddress: "0xunknown", Balance: big.NewInt(1)}},
				},
			}},
			status: entity.StatusTransientFailure,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestBalanceService(t, tt.cp, map[string]float64{"ETH": 2400}, testChainData)

			res := svc.FetchBalances(context.Background(), "0xabc")
			assert.True(t, res.Demo)
			assert.Equal(t, tt.status, res.Status)
			assert.Error(t, res.Err)
			require.Len(t, res.Balances, 2)
			assert.InDelta(t, 7500, sumValues(res.Balances), 1e-9)
		})
	}
}

func TestFetchBalancesTotalEqualsSumOfHoldings(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 20; round++ {
		n := rng.Intn(5)
		prices := map[string]float64{"ETH": rng.Float64() * 5000}
		tokens := make([]entity.RawTokenBalance, 0, n)
		meta := map[string]entity.TokenMetadata{}
		for i := 0; i < n; i++ {
			addr := fmt.Sprintf("0x%d", i)
			symbol := fmt.Sprintf("TK%d", i)
			tokens = append(tokens, entity.RawTokenBalance{ContractAddress: addr, Balance: big.NewInt(rng.Int63n(1e12) + 1e4)})
			meta[addr] = entity.TokenMetadata{Symbol: symbol, Decimals: 6}
			prices[symbol] = rng.Float64() * 100
		}
		client := &fakeChainClient{
			balances: entity.WalletBalances{Native: big.NewInt(rng.Int63n(1e18)), Tokens: tokens},
			meta:     meta,
		}
		svc := newTestBalanceService(t, fakeClientProvider{client: client}, prices, testChainData)

		res := svc.FetchBalances(context.Background(), "0xabc")
		require.Equal(t, entity.StatusOK, res.Status, "round %d", round)

		var want float64
		for _, b := range res.Balances {
			want += b.Quantity * prices[b.Symbol]
		}
		assert.InDelta(t, want, sumValues(res.Balances), 1e-6, "round %d", round)
	}
}

func TestDemoBalancesReturnsCopy(t *testing.T) {
	svc := newTestBalanceService(t, fakeClientProvider{}, nil, testChainData)

	demo := svc.DemoBalances()
	demo[0].ValueUSD = 0
	assert.InDelta(t, 6000, svc.DemoBalances()[0].ValueUSD, 1e-9)
}

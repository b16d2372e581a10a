package service

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/app/port"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"
)

var testProfile = entity.NetworkProfile{
	Key:                  "testnet",
	Name:                 "Ethereum Sepolia Testnet",
	Type:                 entity.NetworkTestnet,
	ChainID:              11155111,
	NativeCurrencySymbol: "ETH",
	NativeDecimals:       18,
	IsTestnet:            true,
}

type fakeNetworks struct {
	profile entity.NetworkProfile
}

func (f fakeNetworks) Current() entity.NetworkProfile              { return f.profile }
func (f fakeNetworks) All() []entity.NetworkProfile                { return []entity.NetworkProfile{f.profile} }
func (f fakeNetworks) ByName(string) (entity.NetworkProfile, bool) { return f.profile, true }

type fakePriceProvider struct {
	prices  map[string]float64
	changes map[string]float64
	err     error
	calls   atomic.Int32
}

func (f *fakePriceProvider) Name() string { return "fake" }

func (f *fakePriceProvider) FetchPrice(ctx context.Context, ref entity.TokenRef) (entity.TokenPriceRecord, error) {
	f.calls.Add(1)
	if f.err != nil {
		return entity.TokenPriceRecord{}, f.err
	}
	p, ok := f.prices[ref.Symbol]
	if !ok {
		return entity.TokenPriceRecord{}, entity.ErrSymbolNotFound
	}
	change, ok := f.changes[ref.Symbol]
	if !ok {
		change = 1.5
	}
	return entity.TokenPriceRecord{Symbol: ref.Symbol, PriceUSD: p, Change24hPercent: change}, nil
}

type mapCache struct {
	mu   sync.Mutex
	data map[string]entity.TokenPriceRecord
}

func newMapCache() *mapCache { return &mapCache{data: map[string]entity.TokenPriceRecord{}} }

func (c *mapCache) Get(_ context.Context, symbol string) (entity.TokenPriceRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.data[strings.ToUpper(symbol)]
	return r, ok
}

func (c *mapCache) Set(_ context.Context, r entity.TokenPriceRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[strings.ToUpper(r.Symbol)] = r
}

type fakeChainClient struct {
	balances entity.WalletBalances
	meta     map[string]entity.TokenMetadata
	err      error
	metaErr  error
	metaErrs map[string]error
}

func (f *fakeChainClient) GetWalletBalances(context.Context, string) (entity.WalletBalances, error) {
	return f.balances, f.err
}

func (f *fakeChainClient) GetTokenMetadata(_ context.Context, contract string) (entity.TokenMetadata, error) {
	if f.metaErr != nil {
		return entity.TokenMetadata{}, f.metaErr
	}
	if err, ok := f.metaErrs[contract]; ok {
		return entity.TokenMetadata{}, err
	}
	m, ok := f.meta[contract]
	if !ok {
		return entity.TokenMetadata{}, entity.ErrMalformedResponse
	}
	return m, nil
}

type fakeClientProvider struct {
	client port.ChainDataClient
	err    error
}

func (f fakeClientProvider) GetClient(entity.NetworkProfile) (port.ChainDataClient, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.client, nil
}

func (f fakeClientProvider) Configured() bool { return f.err == nil }
func (f fakeClientProvider) Close()           {}

type fakeGlobal struct {
	ov    entity.MarketOverview
	err   error
	calls atomic.Int32
}

func (f *fakeGlobal) FetchGlobal(context.Context) (entity.MarketOverview, error) {
	f.calls.Add(1)
	return f.ov, f.err
}

type staticBalances struct {
	res entity.BalanceResult
}

func (s staticBalances) FetchBalances(context.Context, string) entity.BalanceResult { return s.res }
func (s staticBalances) DemoBalances() []entity.TokenBalance {
	return append([]entity.TokenBalance(nil), demoBalances...)
}

// wei converts whole units to an 18-decimal integer amount.
func wei(units float64) *big.Int {
	f := new(big.Float).Mul(big.NewFloat(units), big.NewFloat(1e18))
	i, _ := f.Int(nil)
	return i
}

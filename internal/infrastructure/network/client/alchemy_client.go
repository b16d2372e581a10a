package client

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/app/port"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/pkg/metrics"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/time/rate"
)

const metricsSource = "alchemy"

type alchemyTokenBalance struct {
	ContractAddress string  `json:"contractAddress"`
	TokenBalance    *string `json:"tokenBalance"`
	Error           *string `json:"error"`
}

type alchemyTokenBalances struct {
	Address       string                `json:"address"`
	TokenBalances []alchemyTokenBalance `json:"tokenBalances"`
}

type alchemyTokenMetadata struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals *int   `json:"decimals"`
}

// AlchemyClient implements port.ChainDataClient over Alchemy's enhanced JSON-RPC API.
type AlchemyClient struct {
	rpcClient      *rpc.Client
	profile        entity.NetworkProfile
	limiter        *rate.Limiter
	rpcCallTimeout time.Duration
	logger         port.Logger
}

// NewAlchemyClient creates a client for endpoint (chain-data URL with the API key appended).
// The HTTP transport connects lazily, so no request is made here.
func NewAlchemyClient(endpoint string, profile entity.NetworkProfile, limiter *rate.Limiter, rpcCallTimeout time.Duration, log port.Logger) (*AlchemyClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), rpcCallTimeout)
	defer cancel()

	rc, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create chain-data client for %s: %w", profile.Name, err)
	}
	return &AlchemyClient{
		rpcClient:      rc,
		profile:        profile,
		limiter:        limiter,
		rpcCallTimeout: rpcCallTimeout,
		logger:         log,
	}, nil
}

// Close releases the underlying RPC client.
func (c *AlchemyClient) Close() {
	c.rpcClient.Close()
}

// GetWalletBalances fetches the native balance and the token balance list in one JSON-RPC batch.
func (c *AlchemyClient) GetWalletBalances(ctx context.Context, walletAddress string) (entity.WalletBalances, error) {
	started := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		return entity.WalletBalances{}, fmt.Errorf("rate limiter: %w", err)
	}

	var native hexutil.Big
	var tokens alchemyTokenBalances
	batch := []rpc.BatchElem{
		{
			Method: "eth_getBalance",
			Args:   []interface{}{walletAddress, "latest"},
			Result: &native,
		},
		{
			Method: "alchemy_getTokenBalances",
			Args:   []interface{}{walletAddress, "erc20"},
			Result: &tokens,
		},
	}

	rpcCallCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	if err := c.rpcClient.BatchCallContext(rpcCallCtx, batch); err != nil {
		metrics.ObserveFetch(metricsSource, string(entity.ClassifyError(err)), started)
		return entity.WalletBalances{}, fmt.Errorf("RPC batch call failed: %w", err)
	}
	for _, elem := range batch {
		if elem.Error != nil {
			metrics.ObserveFetch(metricsSource, string(entity.StatusTransientFailure), started)
			return entity.WalletBalances{}, fmt.Errorf("%s for %s failed: %w", elem.Method, walletAddress, elem.Error)
		}
	}

	out := entity.WalletBalances{
		Native: new(big.Int).Set((*big.Int)(&native)),
		Tokens: make([]entity.RawTokenBalance, 0, len(tokens.TokenBalances)),
	}
	for _, tb := range tokens.TokenBalances {
		if tb.Error != nil || tb.TokenBalance == nil {
			c.logger.Debug("Skipping token balance with error", "contract", tb.ContractAddress)
			continue
		}
		v, err := utils.ParseHexBig(*tb.TokenBalance)
		if err != nil {
			metrics.ObserveFetch(metricsSource, string(entity.StatusTransientFailure), started)
			return entity.WalletBalances{}, fmt.Errorf("token balance of %s: %w: %v", tb.ContractAddress, entity.ErrMalformedResponse, err)
		}
		out.Tokens = append(out.Tokens, entity.RawTokenBalance{
			ContractAddress: normalizeAddress(tb.ContractAddress),
			Balance:         v,
		})
	}

	metrics.ObserveFetch(metricsSource, string(entity.StatusOK), started)
	c.logger.Debug("Fetched wallet balances", "network", c.profile.Key, "tokens", len(out.Tokens))
	return out, nil
}

// GetTokenMetadata fetches name, symbol and decimals of a token contract.
func (c *AlchemyClient) GetTokenMetadata(ctx context.Context, contractAddress string) (entity.TokenMetadata, error) {
	started := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		return entity.TokenMetadata{}, fmt.Errorf("rate limiter: %w", err)
	}

	rpcCallCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	var meta alchemyTokenMetadata
	if err := c.rpcClient.CallContext(rpcCallCtx, &meta, "alchemy_getTokenMetadata", contractAddress); err != nil {
		metrics.ObserveFetch(metricsSource, string(entity.ClassifyError(err)), started)
		return entity.TokenMetadata{}, fmt.Errorf("alchemy_getTokenMetadata for %s failed: %w", contractAddress, err)
	}
	if meta.Decimals == nil || *meta.Decimals < 0 || *meta.Decimals > 255 {
		metrics.ObserveFetch(metricsSource, string(entity.StatusTransientFailure), started)
		return entity.TokenMetadata{}, fmt.Errorf("metadata for %s has no usable decimals: %w", contractAddress, entity.ErrUnusableToken)
	}

	metrics.ObserveFetch(metricsSource, string(entity.StatusOK), started)
	return entity.TokenMetadata{
		Name:     meta.Name,
		Symbol:   strings.TrimSpace(meta.Symbol),
		Decimals: uint8(*meta.Decimals),
	}, nil
}

// normalizeAddress returns the checksummed form of hex addresses and leaves anything else untouched.
func normalizeAddress(addr string) string {
	if common.IsHexAddress(addr) {
		return common.HexToAddress(addr).Hex()
	}
	return addr
}

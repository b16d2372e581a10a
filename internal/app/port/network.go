package port

import (
	"context"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"
)

// ChainDataClient defines the interface for an indexed chain-data provider
// (Alchemy-style JSON-RPC).
type ChainDataClient interface {
	// GetWalletBalances fetches the native balance and the raw token balances of an address.
	GetWalletBalances(ctx context.Context, walletAddress string) (entity.WalletBalances, error)

	// GetTokenMetadata fetches name, symbol and decimals of a token contract.
	GetTokenMetadata(ctx context.Context, contractAddress string) (entity.TokenMetadata, error)
}

// NetworkProvider defines the interface for accessing network profiles.
type NetworkProvider interface {
	// Current returns the active network profile.
	Current() entity.NetworkProfile

	// All returns every known profile.
	All() []entity.NetworkProfile

	// ByName returns a profile by key or type ("mainnet", "polygon_mainnet", "sepolia").
	// Возвращает профиль и true, если найден, иначе false.
	ByName(nameOrKey string) (entity.NetworkProfile, bool)
}

// ChainDataClientProvider defines the interface for providing chain-data clients.
type ChainDataClientProvider interface {
	// GetClient returns entity.ErrNotConfigured when credentials or the endpoint are missing.
	GetClient(profile entity.NetworkProfile) (ChainDataClient, error)
	Configured() bool
	Close()
}

// NetworkStatusProvider reports the active network together with its configuration warnings.
type NetworkStatusProvider interface {
	NetworkProvider
	Status(chainDataConfigured bool, marketDataProvider string) entity.NetworkStatus
}

package networkdefinition

import (
	"fmt"
	"sort"
	"strings"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/app/port"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"
)

// Predefined network profiles
var ( //nolint:gochecknoglobals // Global for definitions
	Devnet = entity.NetworkProfile{
		Key:                  "devnet",
		Name:                 "Ethereum Local Devnet",
		Type:                 entity.NetworkDevnet,
		ChainID:              1337,
		RPCURL:               "http://localhost:8545",
		ExplorerURL:          "http://localhost:8545",
		NativeCurrencyName:   "Ether",
		NativeCurrencySymbol: "ETH",
		NativeDecimals:       18,
		IsTestnet:            true,
	}
	Sepolia = entity.NetworkProfile{
		Key:                  "testnet",
		Name:                 "Ethereum Sepolia Testnet",
		Type:                 entity.NetworkTestnet,
		ChainID:              11155111,
		RPCURL:               "https://sepolia.infura.io/v3/",
		ChainDataURL:         "https://eth-sepolia.g.alchemy.com/v2",
		ExplorerURL:          "https://sepolia.etherscan.io",
		NativeCurrencyName:   "Sepolia Ether",
		NativeCurrencySymbol: "ETH",
		NativeDecimals:       18,
		IsTestnet:            true,
	}
	Mainnet = entity.NetworkProfile{
		Key:                  "mainnet",
		Name:                 "Ethereum Mainnet",
		Type:                 entity.NetworkMainnet,
		ChainID:              1,
		RPCURL:               "https://mainnet.infura.io/v3/",
		ChainDataURL:         "https://eth-mainnet.g.alchemy.com/v2",
		ExplorerURL:          "https://etherscan.io",
		NativeCurrencyName:   "Ether",
		NativeCurrencySymbol: "ETH",
		NativeDecimals:       18,
		IsTestnet:            false,
	}
	Polygon = entity.NetworkProfile{
		Key:                  "polygon_mainnet",
		Name:                 "Polygon Mainnet",
		Type:                 entity.NetworkMainnet,
		ChainID:              137,
		RPCURL:               "https://polygon-mainnet.infura.io/v3/",
		ChainDataURL:         "https://polygon-mainnet.g.alchemy.com/v2",
		ExplorerURL:          "https://polygonscan.com",
		NativeCurrencyName:   "MATIC",
		NativeCurrencySymbol: "MATIC",
		NativeDecimals:       18,
		IsTestnet:            false,
	}
	Arbitrum = entity.NetworkProfile{
		Key:                  "arbitrum_mainnet",
		Name:                 "Arbitrum One",
		Type:                 entity.NetworkMainnet,
		ChainID:              42161,
		RPCURL:               "https://arbitrum-mainnet.infura.io/v3/",
		ChainDataURL:         "https://arb-mainnet.g.alchemy.com/v2",
		ExplorerURL:          "https://arbiscan.io",
		NativeCurrencyName:   "Ether",
		NativeCurrencySymbol: "ETH",
		NativeDecimals:       18,
		IsTestnet:            false,
	}
)

// allKnownProfiles is a helper to quickly access all hardcoded profiles.
var allKnownProfiles = map[string]entity.NetworkProfile{
	Devnet.Key:   Devnet,
	Sepolia.Key:  Sepolia,
	Mainnet.Key:  Mainnet,
	Polygon.Key:  Polygon,
	Arbitrum.Key: Arbitrum,
}

// aliases maps informal names onto profile keys.
var aliases = map[string]string{
	"local":    Devnet.Key,
	"sepolia":  Sepolia.Key,
	"ethereum": Mainnet.Key,
	"polygon":  Polygon.Key,
	"arbitrum": Arbitrum.Key,
}

// MainnetWarning is attached to the status of every mainnet profile.
const MainnetWarning = "MAINNET: Real funds at risk"

// NetworkProvider serves the static network table and the active profile.
type NetworkProvider struct {
	logger          port.Logger
	current         entity.NetworkProfile
	infuraProjectID string
}

// NewNetworkProvider creates a provider with the given active network.
// An unknown name falls back to the testnet profile.
func NewNetworkProvider(log port.Logger, active, infuraProjectID string) *NetworkProvider {
	p := &NetworkProvider{
		logger:          log,
		infuraProjectID: infuraProjectID,
	}

	profile, ok := p.ByName(active)
	if !ok {
		p.logger.Warn("Unknown network, defaulting to testnet", "network", active)
		profile, _ = p.ByName(string(entity.NetworkTestnet))
	}
	p.current = profile

	p.logger.Info(fmt.Sprintf("NetworkProvider initialized. Active network: %s", profile.Name),
		"chainId", profile.ChainID, "testnet", profile.IsTestnet)
	if !profile.IsTestnet {
		p.logger.Warn(MainnetWarning, "network", profile.Key)
	}
	return p
}

// Current returns the active network profile.
func (p *NetworkProvider) Current() entity.NetworkProfile {
	return p.current
}

// All returns every known profile ordered by chain ID.
func (p *NetworkProvider) All() []entity.NetworkProfile {
	out := make([]entity.NetworkProfile, 0, len(allKnownProfiles))
	for _, def := range allKnownProfiles {
		out = append(out, p.withRPC(def))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChainID < out[j].ChainID })
	return out
}

// ByName returns a profile by key, network type or alias.
func (p *NetworkProvider) ByName(nameOrKey string) (entity.NetworkProfile, bool) {
	key := strings.ToLower(strings.TrimSpace(nameOrKey))
	if mapped, ok := aliases[key]; ok {
		key = mapped
	}
	def, ok := allKnownProfiles[key]
	if !ok {
		return entity.NetworkProfile{}, false
	}
	return p.withRPC(def), true
}

// withRPC completes Infura-style RPC URLs with the project ID.
func (p *NetworkProvider) withRPC(def entity.NetworkProfile) entity.NetworkProfile {
	if strings.Contains(def.RPCURL, "infura.io") && p.infuraProjectID != "" {
		def.RPCURL += p.infuraProjectID
	}
	return def
}

// Status describes the active network for display.
func (p *NetworkProvider) Status(chainDataConfigured bool, marketDataProvider string) entity.NetworkStatus {
	cur := p.current
	var warnings []string
	if !cur.IsTestnet {
		warnings = append(warnings, MainnetWarning)
	}
	if strings.HasSuffix(cur.RPCURL, "/v3/") {
		warnings = append(warnings, "RPC URL incomplete: INFURA_PROJECT_ID not set")
	}
	if !chainDataConfigured {
		warnings = append(warnings, "ALCHEMY_API_KEY not set: balances use demo data")
	}
	return entity.NetworkStatus{
		Profile:             cur,
		ChainDataConfigured: chainDataConfigured,
		MarketDataProvider:  marketDataProvider,
		Warnings:            warnings,
	}
}

// SwitchInstructions lists the steps to move to another network.
func SwitchInstructions(target entity.NetworkType) []string {
	steps := []string{
		fmt.Sprintf("To switch to %s:", target),
		fmt.Sprintf("1. Set NETWORK=%s in your .env file", target),
	}
	switch target {
	case entity.NetworkMainnet:
		steps = append(steps,
			"2. Set ALCHEMY_API_KEY for live balances",
			"3. Verify your mainnet RPC URL is correct",
			"4. WARNING: This will read real funds!",
		)
	case entity.NetworkTestnet:
		steps = append(steps,
			"2. Set ALCHEMY_API_KEY for live Sepolia balances (optional)",
			"3. Set INFURA_PROJECT_ID for the RPC URL (optional)",
		)
	case entity.NetworkDevnet:
		steps = append(steps, "2. Start a local node on http://localhost:8545")
	}
	return append(steps, fmt.Sprintf("%d. Restart the application", len(steps)))
}

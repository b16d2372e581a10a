package entity

// NetworkType selects one of the supported network environments.
type NetworkType string

const (
	NetworkDevnet  NetworkType = "devnet"
	NetworkTestnet NetworkType = "testnet"
	NetworkMainnet NetworkType = "mainnet"
)

// NetworkProfile holds the static parameters of a blockchain network.
// Profiles are loaded once from a fixed table and never mutated.
type NetworkProfile struct {
	Key                  string      `json:"key" yaml:"key"` // e.g. "mainnet", "polygon_mainnet"
	Name                 string      `json:"name" yaml:"name"`
	Type                 NetworkType `json:"type" yaml:"type"`
	ChainID              uint64      `json:"chainId" yaml:"chainId"`
	RPCURL               string      `json:"rpcUrl" yaml:"rpcUrl"`
	ChainDataURL         string      `json:"chainDataUrl,omitempty" yaml:"chainDataUrl,omitempty"` // Alchemy-style endpoint, API key appended
	ExplorerURL          string      `json:"explorerUrl" yaml:"explorerUrl"`
	NativeCurrencyName   string      `json:"nativeCurrencyName" yaml:"nativeCurrencyName"`
	NativeCurrencySymbol string      `json:"nativeCurrencySymbol" yaml:"nativeCurrencySymbol"`
	NativeDecimals       uint8       `json:"nativeDecimals" yaml:"nativeDecimals"`
	IsTestnet            bool        `json:"isTestnet" yaml:"isTestnet"`
}

// NetworkStatus describes the active network and how it is configured.
type NetworkStatus struct {
	Profile             NetworkProfile `json:"profile"`
	ChainDataConfigured bool           `json:"chainDataConfigured"`
	MarketDataProvider  string         `json:"marketDataProvider"`
	Warnings            []string       `json:"warnings,omitempty"`
}

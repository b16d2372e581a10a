package entity

// TokenAlias is one row of the symbol alias table.
type TokenAlias struct {
	Symbol      string   `yaml:"symbol" json:"symbol"`
	Name        string   `yaml:"name" json:"name"`
	Aliases     []string `yaml:"aliases" json:"aliases"`
	Pair        string   `yaml:"pair,omitempty" json:"pair,omitempty"`
	CoinGeckoID string   `yaml:"coingeckoId,omitempty" json:"coingeckoId,omitempty"`
	Stablecoin  bool     `yaml:"stablecoin,omitempty" json:"stablecoin,omitempty"`
}

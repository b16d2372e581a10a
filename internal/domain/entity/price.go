package entity

import "time"

// TokenRef is the canonical price-feed identity of a token.
type TokenRef struct {
	Symbol      string `json:"symbol"`               // canonical ticker, e.g. "BTC"
	Name        string `json:"name"`                 // display name, e.g. "Bitcoin"
	PairSymbol  string `json:"pairSymbol"`           // exchange pair, e.g. "BTCUSDT"
	ProviderID  string `json:"providerId"`           // aggregator id, e.g. "bitcoin"
	Stablecoin  bool   `json:"stablecoin,omitempty"` // priced at $1.00 without a lookup
	Constructed bool   `json:"constructed,omitempty"`
}

// TokenPriceRecord is an immutable price snapshot for one token.
type TokenPriceRecord struct {
	Symbol           string    `json:"symbol"`
	DisplayName      string    `json:"displayName"`
	PriceUSD         float64   `json:"priceUsd"`
	Change24hPercent float64   `json:"change24hPercent"`
	Volume24hUSD     float64   `json:"volume24hUsd"`
	MarketCapUSD     float64   `json:"marketCapUsd"`
	FetchedAt        time.Time `json:"fetchedAt"`
}

// PriceResult pairs a price record with the outcome of its lookup.
// A non-OK status always carries a record whose numeric fields are zero.
type PriceResult struct {
	Record TokenPriceRecord `json:"record"`
	Status FetchStatus      `json:"status"`
	Source string           `json:"source"`
	Err    error            `json:"-"`
}

// Known reports whether the record holds a real price.
func (r PriceResult) Known() bool {
	return r.Status == StatusOK
}

// MarketOverview summarizes the global crypto market.
type MarketOverview struct {
	TotalMarketCapUSD float64     `json:"totalMarketCapUsd"`
	TotalVolumeUSD    float64     `json:"totalVolumeUsd"`
	BTCDominance      float64     `json:"btcDominance"`
	ETHDominance      float64     `json:"ethDominance"`
	Status            FetchStatus `json:"status"`
	FetchedAt         time.Time   `json:"fetchedAt"`
}

package entity

import "math/big"

// TokenBalance represents one held asset valued in USD.
type TokenBalance struct {
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
	PriceUSD float64 `json:"priceUsd"`
	ValueUSD float64 `json:"valueUsd"`
}

// NewTokenBalance builds a balance whose value is always quantity × price.
func NewTokenBalance(symbol string, quantity, priceUSD float64) TokenBalance {
	return TokenBalance{
		Symbol:   symbol,
		Quantity: quantity,
		PriceUSD: priceUSD,
		ValueUSD: quantity * priceUSD,
	}
}

// RawTokenBalance is a token balance as reported by the chain-data provider,
// still in base units.
type RawTokenBalance struct {
	ContractAddress string
	Balance         *big.Int
}

// WalletBalances groups the native and token balances of one address.
type WalletBalances struct {
	Native *big.Int
	Tokens []RawTokenBalance
}

// TokenMetadata holds the descriptive fields of a token contract.
type TokenMetadata struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// BalanceResult is the outcome of a balance fetch.
// Demo is set when the fixed demo list was substituted.
type BalanceResult struct {
	Balances []TokenBalance
	Status   FetchStatus
	Demo     bool
	Err      error
}

package entity

// Intent is the kind of question a query asks.
type Intent string

const (
	IntentPortfolio Intent = "portfolio"
	IntentPrice     Intent = "price"
	IntentRisk      Intent = "risk"
	IntentOptimize  Intent = "optimize"
	IntentPositions Intent = "positions"
	IntentMarket    Intent = "market"
	IntentHelp      Intent = "help"
)

// QueryRequest is a natural-language question about a portfolio.
type QueryRequest struct {
	Text          string `json:"text" binding:"required"`
	WalletAddress string `json:"walletAddress,omitempty"`
}

// QueryResponse is the rendered answer to a query.
type QueryResponse struct {
	RequestID string `json:"requestId"`
	Intent    Intent `json:"intent"`
	Text      string `json:"text"`
	Data      any    `json:"data,omitempty"`
}

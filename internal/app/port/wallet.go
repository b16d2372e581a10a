package port

import (
	"context"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"
)

// BalanceService fetches and values the holdings of a wallet.
type BalanceService interface {
	// FetchBalances never returns a partial list: on any failure the demo list is returned.
	FetchBalances(ctx context.Context, walletAddress string) entity.BalanceResult
	// DemoBalances returns the fixed demo holdings.
	DemoBalances() []entity.TokenBalance
}

// PositionProvider lists DeFi protocol positions held by a wallet.
type PositionProvider interface {
	GetPositions(ctx context.Context, walletAddress string) ([]entity.ProtocolPosition, error)
	DemoPositions() []entity.ProtocolPosition
}

package port

import (
	"context"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"
)

// PortfolioService defines the interface for building portfolio snapshots.
type PortfolioService interface {
	// GetPortfolioData returns the demo snapshot when the address is empty or balances fell back.
	GetPortfolioData(ctx context.Context, walletAddress string) entity.PortfolioResult
	// DefaultAddress is the configured wallet, possibly empty.
	DefaultAddress() string
}

// RiskAnalyzer scores the concentration risk of a snapshot.
type RiskAnalyzer interface {
	Analyze(snapshot entity.PortfolioSnapshot) entity.RiskReport
}

// Optimizer compares a snapshot against the target allocation.
type Optimizer interface {
	Optimize(snapshot entity.PortfolioSnapshot) entity.OptimizationPlan
}

// QueryService answers natural-language questions.
type QueryService interface {
	Handle(ctx context.Context, req entity.QueryRequest) entity.QueryResponse
}

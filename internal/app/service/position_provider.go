package service

import (
	"context"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

// demoPositions accompany the demo balances.
var demoPositions = []entity.ProtocolPosition{
	{
		ProtocolName: "Uniswap V3",
		PositionType: entity.PositionLiquidityPool,
		PairLabel:    strPtr("ETH/USDC"),
		ValueUSD:     2000,
		APYPercent:   floatPtr(15.5),
		FeeTier:      "0.3%",
	},
}

// ConfigPositionProvider serves protocol positions declared in configuration.
// No protocol is queried on-chain.
type ConfigPositionProvider struct {
	positions []entity.ProtocolPosition
}

// NewConfigPositionProvider creates a provider for the given positions.
func NewConfigPositionProvider(positions []entity.ProtocolPosition) *ConfigPositionProvider {
	return &ConfigPositionProvider{positions: append([]entity.ProtocolPosition(nil), positions...)}
}

// GetPositions implements port.PositionProvider.
func (p *ConfigPositionProvider) GetPositions(ctx context.Context, _ string) ([]entity.ProtocolPosition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]entity.ProtocolPosition{}, p.positions...), nil
}

// DemoPositions implements port.PositionProvider.
func (p *ConfigPositionProvider) DemoPositions() []entity.ProtocolPosition {
	return append([]entity.ProtocolPosition(nil), demoPositions...)
}

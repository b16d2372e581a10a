package service

import (
	"fmt"
	"strings"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/app/port"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"
)

// nativeConcentrationAlert is the native share (percent) above which rebalancing is suggested.
const nativeConcentrationAlert = 70.0

// minStablecoinShare is the stablecoin share (percent) below which more stables are suggested.
const minStablecoinShare = 10.0

// RiskAnalyzerImpl implements port.RiskAnalyzer.
type RiskAnalyzerImpl struct {
	networks port.NetworkProvider
}

// NewRiskAnalyzer creates a new instance of RiskAnalyzerImpl.
func NewRiskAnalyzer(np port.NetworkProvider) *RiskAnalyzerImpl {
	return &RiskAnalyzerImpl{networks: np}
}

// Analyze breaks the snapshot down by exposure.
func (a *RiskAnalyzerImpl) Analyze(snapshot entity.PortfolioSnapshot) entity.RiskReport {
	native := a.networks.Current().NativeCurrencySymbol
	alloc := allocate(snapshot, native)

	report := entity.RiskReport{
		Score:             snapshot.RiskScore,
		Level:             entity.RiskLevelFor(snapshot.RiskScore),
		NativeSymbol:      native,
		NativePercent:     alloc.percent(alloc.native),
		StablecoinPercent: alloc.percent(alloc.stable),
		PositionsPercent:  alloc.percent(alloc.positions),
		Source:            snapshot.Source,
	}

	var recs []string
	if report.NativePercent > nativeConcentrationAlert {
		recs = append(recs, fmt.Sprintf("Consider rebalancing: %s is %.0f%% of the portfolio", native, report.NativePercent))
	}
	if alloc.total > 0 && report.StablecoinPercent < minStablecoinShare {
		recs = append(recs, "Consider diversifying into stablecoins")
	}
	if len(snapshot.Positions) > 0 {
		protocols := make([]string, 0, len(snapshot.Positions))
		for _, p := range snapshot.Positions {
			protocols = append(protocols, p.ProtocolName)
		}
		recs = append(recs, "Monitor protocol health for "+strings.Join(protocols, ", "))
	}
	recs = append(recs,
		"Monitor gas fees for optimal transaction timing",
		"Set up price alerts for major holdings",
	)
	report.Recommendations = recs
	return report
}

// allocation is the USD value of a snapshot per rebalancing bucket.
type allocation struct {
	native, stable, positions, other, total float64
}

func (a allocation) percent(v float64) float64 {
	if a.total <= 0 {
		return 0
	}
	return v / a.total * 100
}

func allocate(snapshot entity.PortfolioSnapshot, nativeSymbol string) allocation {
	var a allocation
	for _, b := range snapshot.Balances {
		switch {
		case strings.EqualFold(b.Symbol, nativeSymbol):
			a.native += b.ValueUSD
		case IsStablecoin(b.Symbol):
			a.stable += b.ValueUSD
		default:
			a.other += b.ValueUSD
		}
	}
	for _, p := range snapshot.Positions {
		a.positions += p.ValueUSD
	}
	a.total = a.native + a.stable + a.positions + a.other
	return a
}

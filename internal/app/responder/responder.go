// Package responder renders query results as chat text.
package responder

import (
	"fmt"
	"strings"
	"time"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Money formats a USD amount with thousands separators ("65,000.00").
// Amounts under one dollar keep six decimals.
func Money(v float64) string {
	if v != 0 && v < 1 && v > -1 {
		return printer.Sprintf("$%.6f", v)
	}
	return printer.Sprintf("$%.2f", v)
}

// Compact formats large USD amounts as "$35.0B" or "$120.5M".
func Compact(v float64) string {
	switch {
	case v >= 1e12:
		return printer.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9:
		return printer.Sprintf("$%.1fB", v/1e9)
	case v >= 1e6:
		return printer.Sprintf("$%.1fM", v/1e6)
	default:
		return Money(v)
	}
}

// SignedPercent formats a change with an explicit "+" for gains.
func SignedPercent(v float64) string {
	if v > 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

// ChangeIndicator is 📈 for gains and 📉 otherwise.
func ChangeIndicator(v float64) string {
	if v > 0 {
		return "📈"
	}
	return "📉"
}

func quantity(v float64) string {
	return printer.Sprintf("%.4f", v)
}

// Price renders a price lookup.
func Price(res entity.PriceResult) string {
	rec := res.Record
	name := rec.DisplayName
	if name == "" {
		name = rec.Symbol
	}

	switch res.Status {
	case entity.StatusOK:
	case entity.StatusNotFound:
		return fmt.Sprintf("❌ I couldn't find a price for %s. Check the ticker and try again.", rec.Symbol)
	case entity.StatusNotConfigured:
		return "⚠️ Market data is not configured right now, so I can't look up prices."
	default:
		return fmt.Sprintf("❌ Sorry, I couldn't fetch the current %s price. Please try again.", rec.Symbol)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "💰 **%s (%s) Price**\n\n", name, rec.Symbol)
	fmt.Fprintf(&b, "🏷️ **Current Price:** %s\n", Money(rec.PriceUSD))
	fmt.Fprintf(&b, "%s **24h Change:** %s\n", ChangeIndicator(rec.Change24hPercent), SignedPercent(rec.Change24hPercent))
	if rec.Volume24hUSD > 0 {
		fmt.Fprintf(&b, "📊 **24h Volume:** %s\n", Compact(rec.Volume24hUSD))
	}
	if rec.MarketCapUSD > 0 {
		fmt.Fprintf(&b, "🏦 **Market Cap:** %s\n", Compact(rec.MarketCapUSD))
	}
	fmt.Fprintf(&b, "\n⏰ **Last Updated:** %s", rec.FetchedAt.UTC().Format(time.TimeOnly+" MST"))
	return b.String()
}

// Unresolved asks the user which token they meant.
func Unresolved() string {
	return "🤔 I couldn't tell which token you mean. Try something like 'btc price', 'price of solana' or 'get ETH price'."
}

func sourceNote(source entity.SnapshotSource, status entity.FetchStatus) string {
	if source != entity.SourceDemo {
		return ""
	}
	switch status {
	case entity.StatusNotConfigured:
		return "\n\nℹ️ Showing demo data: no wallet address or chain-data API key is configured."
	default:
		return "\n\nℹ️ Showing demo data: live balances are temporarily unavailable."
	}
}

func positionLine(p entity.ProtocolPosition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "• %s %s", p.ProtocolName, p.PositionType)
	if p.PairLabel != nil {
		fmt.Fprintf(&b, " %s", *p.PairLabel)
	}
	fmt.Fprintf(&b, ": %s", Money(p.ValueUSD))
	var extra []string
	if p.APYPercent != nil {
		extra = append(extra, fmt.Sprintf("%.1f%% APY", *p.APYPercent))
	}
	if p.FeeTier != "" {
		extra = append(extra, p.FeeTier+" fee tier")
	}
	if len(extra) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(extra, ", "))
	}
	return b.String()
}

// Portfolio renders a snapshot.
func Portfolio(res entity.PortfolioResult) string {
	snap := res.Snapshot
	var b strings.Builder
	b.WriteString("📊 **Portfolio Analysis Complete**\n\n")
	fmt.Fprintf(&b, "💰 **Total Portfolio Value:** %s\n\n", Money(snap.TotalValueUSD))

	b.WriteString("🪙 **Holdings:**\n")
	for _, bal := range snap.Balances {
		fmt.Fprintf(&b, "• %s: %s %s (~%s)\n", bal.Symbol, quantity(bal.Quantity), bal.Symbol, Money(bal.ValueUSD))
	}
	for _, p := range snap.Positions {
		b.WriteString(positionLine(p) + "\n")
	}

	fmt.Fprintf(&b, "\n⚖️ **Risk Assessment:** %d/10 (%s)", snap.RiskScore, entity.RiskLevelFor(snap.RiskScore))
	b.WriteString(sourceNote(snap.Source, res.Status))
	return b.String()
}

// Risk renders a risk report.
func Risk(r entity.RiskReport) string {
	var b strings.Builder
	b.WriteString("⚠️ **Portfolio Risk Analysis**\n\n")
	fmt.Fprintf(&b, "🎯 **Overall Risk Score:** %d/10 (%s)\n\n", r.Score, r.Level)
	b.WriteString("📊 **Exposure Breakdown:**\n")
	fmt.Fprintf(&b, "• %s: %.1f%%\n", r.NativeSymbol, r.NativePercent)
	fmt.Fprintf(&b, "• Stablecoins: %.1f%%\n", r.StablecoinPercent)
	fmt.Fprintf(&b, "• DeFi positions: %.1f%%\n\n", r.PositionsPercent)
	b.WriteString("💡 **Recommendations:**\n")
	for _, rec := range r.Recommendations {
		fmt.Fprintf(&b, "• %s\n", rec)
	}
	return strings.TrimRight(b.String(), "\n")
}

var bucketLabels = map[entity.AllocationBucket]string{
	entity.BucketNative:      "Native coin",
	entity.BucketStablecoins: "Stablecoins",
	entity.BucketPositions:   "DeFi positions",
	entity.BucketOther:       "Other tokens",
}

// Optimization renders a rebalancing plan.
func Optimization(plan entity.OptimizationPlan) string {
	var b strings.Builder
	b.WriteString("🔧 **Portfolio Optimization**\n\n")
	fmt.Fprintf(&b, "💰 **Portfolio Value:** %s\n\n", Money(plan.TotalValueUSD))
	b.WriteString("📐 **Current vs Target Allocation:**\n")
	for _, s := range plan.Suggestions {
		line := fmt.Sprintf("• %s: %.1f%% → %.0f%%", bucketLabels[s.Bucket], s.CurrentPercent, s.TargetPercent)
		switch s.Action {
		case entity.ActionIncrease:
			line += fmt.Sprintf(" (buy ~%s)", Money(s.DeltaUSD))
		case entity.ActionReduce:
			line += fmt.Sprintf(" (sell ~%s)", Money(-s.DeltaUSD))
		default:
			line += " (hold)"
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Positions renders the DeFi positions of a snapshot.
func Positions(snap entity.PortfolioSnapshot) string {
	if len(snap.Positions) == 0 {
		return "🏦 No DeFi positions found."
	}
	var b strings.Builder
	b.WriteString("🏦 **Active Positions:**\n")
	for _, p := range snap.Positions {
		b.WriteString(positionLine(p) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Market renders the global market overview.
func Market(ov entity.MarketOverview) string {
	var b strings.Builder
	b.WriteString("🌐 **Global Crypto Market**\n\n")
	fmt.Fprintf(&b, "🏦 **Total Market Cap:** %s\n", Compact(ov.TotalMarketCapUSD))
	fmt.Fprintf(&b, "📊 **24h Volume:** %s\n", Compact(ov.TotalVolumeUSD))
	fmt.Fprintf(&b, "₿ **BTC Dominance:** %.1f%%\n", ov.BTCDominance)
	fmt.Fprintf(&b, "Ξ **ETH Dominance:** %.1f%%", ov.ETHDominance)
	if ov.Status != entity.StatusOK {
		b.WriteString("\n\nℹ️ Live market data unavailable, showing reference figures.")
	}
	return b.String()
}

// Network renders the active network status.
func Network(st entity.NetworkStatus) string {
	p := st.Profile
	var b strings.Builder
	b.WriteString("Network Status:\n")
	fmt.Fprintf(&b, "Network: %s (%s)\n", p.Name, p.Type)
	fmt.Fprintf(&b, "Chain ID: %d\n", p.ChainID)
	fmt.Fprintf(&b, "RPC URL: %s\n", p.RPCURL)
	fmt.Fprintf(&b, "Explorer: %s\n", p.ExplorerURL)
	fmt.Fprintf(&b, "Chain data: %s\n", map[bool]string{true: "configured", false: "missing"}[st.ChainDataConfigured])
	fmt.Fprintf(&b, "Market data: %s", st.MarketDataProvider)
	if len(st.Warnings) > 0 {
		b.WriteString("\n\nWarnings:")
		for _, w := range st.Warnings {
			fmt.Fprintf(&b, "\n  %s", w)
		}
	}
	return b.String()
}

// Help lists what the agent can answer.
func Help() string {
	return strings.Join([]string{
		"As a DeFi Portfolio Manager, I can help you with:",
		"  • check portfolio     - portfolio value and holdings",
		"  • get [token] price   - price for any cryptocurrency (BTC, ETH, SOL, ...)",
		"  • analyze risk        - concentration risk and recommendations",
		"  • optimize portfolio  - rebalancing against the target allocation",
		"  • show positions      - DeFi protocol positions",
		"  • market overview     - global market cap and dominance",
		"",
		"Examples: 'btc price', 'what's the solana price?', 'price of cardano'",
	}, "\n")
}

package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/app/port"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/app/responder"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"

	"github.com/google/uuid"
)

// intentRule routes a message to an intent when any keyword matches as a whole word.
type intentRule struct {
	intent entity.Intent
	re     *regexp.Regexp
}

func keywords(words ...string) *regexp.Regexp {
	return regexp.MustCompile(`\b(?:` + strings.Join(words, "|") + `)\b`)
}

// Rules are checked in order; the first match wins.
var intentRules = []intentRule{
	{entity.IntentRisk, keywords("risk", "risks", "risky", "analyze", "analyse", "analysis")},
	{entity.IntentOptimize, keywords("optimize", "optimise", "optimization", "rebalance", "rebalancing")},
	{entity.IntentPositions, keywords("position", "positions")},
	{entity.IntentPortfolio, keywords("portfolio", "balance", "balances", "holdings")},
	{entity.IntentPrice, keywords("price", "prices", "cost", "worth", "value", "how much", "btc", "bitcoin", "eth", "ethereum", "token", "coin")},
	{entity.IntentMarket, keywords("market", "dominance")},
}

// QueryServiceImpl implements port.QueryService.
type QueryServiceImpl struct {
	resolver  port.SymbolResolver
	prices    port.PriceService
	portfolio port.PortfolioService
	risk      port.RiskAnalyzer
	optimizer port.Optimizer
	market    port.MarketService
	logger    port.Logger
}

// NewQueryService creates a new instance of QueryServiceImpl.
func NewQueryService(
	resolver port.SymbolResolver,
	prices port.PriceService,
	portfolio port.PortfolioService,
	risk port.RiskAnalyzer,
	optimizer port.Optimizer,
	market port.MarketService,
	l port.Logger,
) *QueryServiceImpl {
	return &QueryServiceImpl{
		resolver:  resolver,
		prices:    prices,
		portfolio: portfolio,
		risk:      risk,
		optimizer: optimizer,
		market:    market,
		logger:    l,
	}
}

// ClassifyIntent maps a message to an intent. A message that names a known
// token but no other keyword is a price question.
func (s *QueryServiceImpl) ClassifyIntent(text string) entity.Intent {
	msg := strings.ToLower(text)
	for _, rule := range intentRules {
		if rule.re.MatchString(msg) {
			if rule.intent == entity.IntentMarket {
				if _, ok := s.resolver.Resolve(msg); ok {
					return entity.IntentPrice
				}
			}
			return rule.intent
		}
	}
	if ref, ok := s.resolver.Resolve(msg); ok && !ref.Constructed {
		return entity.IntentPrice
	}
	return entity.IntentHelp
}

// Handle answers one message.
func (s *QueryServiceImpl) Handle(ctx context.Context, req entity.QueryRequest) entity.QueryResponse {
	resp := entity.QueryResponse{
		RequestID: uuid.NewString(),
		Intent:    s.ClassifyIntent(req.Text),
	}
	address := strings.TrimSpace(req.WalletAddress)
	if address == "" {
		address = s.portfolio.DefaultAddress()
	}
	s.logger.Debug("Handling query", "request_id", resp.RequestID, "intent", resp.Intent)

	switch resp.Intent {
	case entity.IntentPrice:
		ref, ok := s.resolver.Resolve(req.Text)
		if !ok {
			resp.Text = responder.Unresolved()
			return resp
		}
		res := s.prices.GetPrice(ctx, ref)
		resp.Text = responder.Price(res)
		resp.Data = res
	case entity.IntentPortfolio:
		res := s.portfolio.GetPortfolioData(ctx, address)
		resp.Text = responder.Portfolio(res)
		resp.Data = res
	case entity.IntentRisk:
		report := s.risk.Analyze(s.portfolio.GetPortfolioData(ctx, address).Snapshot)
		resp.Text = responder.Risk(report)
		resp.Data = report
	case entity.IntentOptimize:
		plan := s.optimizer.Optimize(s.portfolio.GetPortfolioData(ctx, address).Snapshot)
		resp.Text = responder.Optimization(plan)
		resp.Data = plan
	case entity.IntentPositions:
		snap := s.portfolio.GetPortfolioData(ctx, address).Snapshot
		resp.Text = responder.Positions(snap)
		resp.Data = snap.Positions
	case entity.IntentMarket:
		ov := s.market.GetOverview(ctx)
		resp.Text = responder.Market(ov)
		resp.Data = ov
	default:
		resp.Text = responder.Help()
	}
	return resp
}

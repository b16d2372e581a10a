package restapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/infrastructure/configloader"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type stubPrices struct{}

func (stubPrices) GetPrice(ctx context.Context, ref entity.TokenRef) entity.PriceResult {
	return stubPrices{}.GetPriceBySymbol(ctx, ref.Symbol)
}

func (stubPrices) GetPriceBySymbol(_ context.Context, symbol string) entity.PriceResult {
	if strings.EqualFold(symbol, "btc") {
		return entity.PriceResult{
			Record: entity.TokenPriceRecord{Symbol: "BTC", DisplayName: "Bitcoin", PriceUSD: 65000},
			Status: entity.StatusOK,
			Source: "binance",
		}
	}
	return entity.PriceResult{Record: entity.TokenPriceRecord{Symbol: strings.ToUpper(symbol)}, Status: entity.StatusNotFound}
}

type stubPortfolio struct {
	lastAddress string
}

func (s *stubPortfolio) GetPortfolioData(_ context.Context, address string) entity.PortfolioResult {
	s.lastAddress = address
	return entity.PortfolioResult{
		Snapshot: entity.PortfolioSnapshot{
			TotalValueUSD: 9500,
			Balances:      []entity.TokenBalance{entity.NewTokenBalance("ETH", 2.5, 2400), entity.NewTokenBalance("USDC", 1500, 1)},
			Positions:     []entity.ProtocolPosition{{ProtocolName: "Uniswap V3", PositionType: entity.PositionLiquidityPool, ValueUSD: 2000}},
			RiskScore:     6,
			Source:        entity.SourceDemo,
		},
		Status: entity.StatusNotConfigured,
	}
}

func (s *stubPortfolio) DefaultAddress() string { return "0xdefault" }

type stubRisk struct{}

func (stubRisk) Analyze(snap entity.PortfolioSnapshot) entity.RiskReport {
	return entity.RiskReport{Score: snap.RiskScore, Level: entity.RiskLevelFor(snap.RiskScore), NativeSymbol: "ETH"}
}

type stubOptimizer struct{}

func (stubOptimizer) Optimize(snap entity.PortfolioSnapshot) entity.OptimizationPlan {
	return entity.OptimizationPlan{TotalValueUSD: snap.TotalValueUSD, Source: snap.Source}
}

type stubMarket struct{}

func (stubMarket) GetOverview(context.Context) entity.MarketOverview {
	return entity.MarketOverview{TotalMarketCapUSD: 2.5e12, BTCDominance: 45, Status: entity.StatusOK}
}

type stubQuery struct{}

func (stubQuery) Handle(_ context.Context, req entity.QueryRequest) entity.QueryResponse {
	return entity.QueryResponse{RequestID: "internal", Intent: entity.IntentHelp, Text: "echo: " + req.Text}
}

type stubNetworks struct{}

var sepolia = entity.NetworkProfile{Key: "testnet", Name: "Ethereum Sepolia Testnet", Type: entity.NetworkTestnet, ChainID: 11155111, IsTestnet: true}

func (stubNetworks) Current() entity.NetworkProfile              { return sepolia }
func (stubNetworks) All() []entity.NetworkProfile                { return []entity.NetworkProfile{sepolia} }
func (stubNetworks) ByName(string) (entity.NetworkProfile, bool) { return sepolia, true }
func (stubNetworks) Status(configured bool, provider string) entity.NetworkStatus {
	return entity.NetworkStatus{Profile: sepolia, ChainDataConfigured: configured, MarketDataProvider: provider}
}

func newTestRouter(t *testing.T) (*gin.Engine, *stubPortfolio) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	portfolio := &stubPortfolio{}
	h := NewHandler(Services{
		Prices:             stubPrices{},
		Portfolio:          portfolio,
		Risk:               stubRisk{},
		Optimizer:          stubOptimizer{},
		Market:             stubMarket{},
		Query:              stubQuery{},
		Networks:           stubNetworks{},
		MarketDataProvider: "binance",
	}, logger.NewNop())
	return SetupRouter(h, configloader.ServerConfig{}), portfolio
}

func doRequest(r http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestGetPriceHandler(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/v1/prices/btc", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	var resp APIPriceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 65000.0, resp.Data.PriceUSD)
	assert.Equal(t, entity.StatusOK, resp.Status)
	assert.Contains(t, resp.Text, "$65,000.00")

	w = doRequest(r, http.MethodGet, "/api/v1/prices/pepe", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPortfolioHandlers(t *testing.T) {
	r, portfolio := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/v1/portfolio", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0xdefault", portfolio.lastAddress)

	var resp APIPortfolioResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 9500.0, resp.Data.Portfolio.TotalValueUSD)
	assert.Equal(t, entity.SourceDemo, resp.Data.Portfolio.Source)
	assert.Equal(t, entity.StatusNotConfigured, resp.Status)
	assert.Contains(t, resp.Text, "Portfolio Analysis Complete")

	w = doRequest(r, http.MethodGet, "/api/v1/portfolios/0xabc/risk", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0xabc", portfolio.lastAddress)
	var risk APIRiskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &risk))
	assert.Equal(t, entity.RiskMedium, risk.Data.Level)

	w = doRequest(r, http.MethodGet, "/api/v1/portfolios/0xabc/optimization", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/api/v1/portfolio/positions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pos APIPositionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pos))
	require.Len(t, pos.Data.Positions, 1)
	assert.Equal(t, "Uniswap V3", pos.Data.Positions[0].ProtocolName)
}

func TestMarketAndNetworkHandlers(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/v1/market", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var market APIMarketResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &market))
	assert.Equal(t, 45.0, market.Data.BTCDominance)

	w = doRequest(r, http.MethodGet, "/api/v1/networks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var networks APINetworksResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &networks))
	assert.Equal(t, "testnet", networks.Data.Active)
	assert.Len(t, networks.Data.Networks, 1)

	w = doRequest(r, http.MethodGet, "/api/v1/networks/current", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status entity.NetworkStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "binance", status.MarketDataProvider)
}

func TestPostQueryHandler(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodPost, "/api/v1/query", []byte(`{"text":"hello"}`))
	require.Equal(t, http.StatusOK, w.Code)
	var resp entity.QueryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "echo: hello", resp.Text)
	assert.Equal(t, w.Header().Get(requestIDHeader), resp.RequestID)

	w = doRequest(r, http.MethodPost, "/api/v1/query", []byte(`{"text":""}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodPost, "/api/v1/query", []byte(`not json`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	r, _ := newTestRouter(t)

	id := "6f1c2a9e-3b4d-4e5f-8a7b-1c2d3e4f5a6b"
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, id)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, w.Header().Get(requestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	doRequest(r, http.MethodGet, "/healthz", nil)
	w := doRequest(r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "defiagent_http_requests_total")
}

func TestPprofRoutesAreOptIn(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doRequest(r, http.MethodGet, "/debug/pprof/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	h := NewHandler(Services{Networks: stubNetworks{}}, logger.NewNop())
	r = SetupRouter(h, configloader.ServerConfig{EnablePprof: true})
	w = doRequest(r, http.MethodGet, "/debug/pprof/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

package marketdata

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"

	"go.uber.org/zap"
)

const coinGeckoKeyHeader = "x-cg-demo-api-key"

type coinGeckoQuote struct {
	USD          *float64 `json:"usd"`
	USD24hChange float64  `json:"usd_24h_change"`
	USD24hVol    float64  `json:"usd_24h_vol"`
	USDMarketCap float64  `json:"usd_market_cap"`
}

type coinGeckoGlobal struct {
	Data struct {
		TotalMarketCap      map[string]float64 `json:"total_market_cap"`
		TotalVolume         map[string]float64 `json:"total_volume"`
		MarketCapPercentage map[string]float64 `json:"market_cap_percentage"`
	} `json:"data"`
}

// CoinGeckoClient reads simple prices and global market figures from CoinGecko.
type CoinGeckoClient struct {
	http    *httpGetter
	baseURL string
	apiKey  string
	now     func() time.Time
}

// NewCoinGeckoClient creates a new CoinGecko client. apiKey may be empty.
func NewCoinGeckoClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *CoinGeckoClient {
	return &CoinGeckoClient{
		http:    newHTTPGetter(timeout, logger.Named("CoinGeckoClient")),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		now:     time.Now,
	}
}

// Name implements port.PriceProvider.
func (c *CoinGeckoClient) Name() string { return "coingecko" }

func (c *CoinGeckoClient) headers() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	return map[string]string{coinGeckoKeyHeader: c.apiKey}
}

// FetchPrice implements port.PriceProvider.
func (c *CoinGeckoClient) FetchPrice(ctx context.Context, ref entity.TokenRef) (entity.TokenPriceRecord, error) {
	id := ref.ProviderID
	if id == "" {
		id = strings.ToLower(ref.Symbol)
	}

	q := url.Values{}
	q.Set("ids", id)
	q.Set("vs_currencies", "usd")
	q.Set("include_24hr_change", "true")
	q.Set("include_24hr_vol", "true")
	q.Set("include_market_cap", "true")
	requestURL := c.baseURL + "/simple/price?" + q.Encode()

	status, body, err := c.http.get(ctx, requestURL, c.headers())
	if err != nil {
		return entity.TokenPriceRecord{}, err
	}
	if status != 200 {
		c.http.logger.Error("CoinGecko API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", status),
			zap.ByteString("responseBody", body))
		return entity.TokenPriceRecord{}, fmt.Errorf("coingecko request to %s failed with status %d", requestURL, status)
	}

	var quotes map[string]coinGeckoQuote
	if err := json.Unmarshal(body, &quotes); err != nil {
		return entity.TokenPriceRecord{}, fmt.Errorf("coingecko: %w: %v", entity.ErrMalformedResponse, err)
	}
	quote, ok := quotes[id]
	if !ok || quote.USD == nil {
		return entity.TokenPriceRecord{}, fmt.Errorf("coingecko: id %s: %w", id, entity.ErrSymbolNotFound)
	}

	return entity.TokenPriceRecord{
		Symbol:           ref.Symbol,
		DisplayName:      ref.Name,
		PriceUSD:         *quote.USD,
		Change24hPercent: quote.USD24hChange,
		Volume24hUSD:     quote.USD24hVol,
		MarketCapUSD:     quote.USDMarketCap,
		FetchedAt:        c.now(),
	}, nil
}

// FetchGlobal implements port.GlobalMarketProvider.
func (c *CoinGeckoClient) FetchGlobal(ctx context.Context) (entity.MarketOverview, error) {
	requestURL := c.baseURL + "/global"
	status, body, err := c.http.get(ctx, requestURL, c.headers())
	if err != nil {
		return entity.MarketOverview{}, err
	}
	if status != 200 {
		return entity.MarketOverview{}, fmt.Errorf("coingecko request to %s failed with status %d", requestURL, status)
	}

	var g coinGeckoGlobal
	if err := json.Unmarshal(body, &g); err != nil {
		return entity.MarketOverview{}, fmt.Errorf("coingecko global: %w: %v", entity.ErrMalformedResponse, err)
	}
	mc, ok := g.Data.TotalMarketCap["usd"]
	if !ok {
		return entity.MarketOverview{}, fmt.Errorf("coingecko global: total_market_cap.usd missing: %w", entity.ErrMalformedResponse)
	}

	return entity.MarketOverview{
		TotalMarketCapUSD: mc,
		TotalVolumeUSD:    g.Data.TotalVolume["usd"],
		BTCDominance:      g.Data.MarketCapPercentage["btc"],
		ETHDominance:      g.Data.MarketCapPercentage["eth"],
		Status:            entity.StatusOK,
		FetchedAt:         c.now(),
	}, nil
}

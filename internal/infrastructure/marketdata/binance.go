package marketdata

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"

	"go.uber.org/zap"
)

// binanceInvalidSymbol is the API error code for an unlisted pair.
const binanceInvalidSymbol = -1121

type binanceTicker struct {
	Symbol             string `json:"symbol"`
	LastPrice          string `json:"lastPrice"`
	PriceChangePercent string `json:"priceChangePercent"`
	QuoteVolume        string `json:"quoteVolume"`
}

type binanceError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// BinanceClient reads 24h tickers from the Binance public API.
type BinanceClient struct {
	http    *httpGetter
	baseURL string
	now     func() time.Time
}

// NewBinanceClient creates a new Binance ticker client.
func NewBinanceClient(baseURL string, timeout time.Duration, logger *zap.Logger) *BinanceClient {
	return &BinanceClient{
		http:    newHTTPGetter(timeout, logger.Named("BinanceClient")),
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// Name implements port.PriceProvider.
func (c *BinanceClient) Name() string { return "binance" }

// FetchPrice implements port.PriceProvider.
func (c *BinanceClient) FetchPrice(ctx context.Context, ref entity.TokenRef) (entity.TokenPriceRecord, error) {
	if ref.PairSymbol == "" {
		return entity.TokenPriceRecord{}, fmt.Errorf("binance: %s has no trading pair: %w", ref.Symbol, entity.ErrSymbolNotFound)
	}

	requestURL := fmt.Sprintf("%s/api/v3/ticker/24hr?symbol=%s", c.baseURL, url.QueryEscape(ref.PairSymbol))
	status, body, err := c.http.get(ctx, requestURL, nil)
	if err != nil {
		return entity.TokenPriceRecord{}, err
	}

	if status != 200 {
		var apiErr binanceError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Code == binanceInvalidSymbol {
			return entity.TokenPriceRecord{}, fmt.Errorf("binance: pair %s: %w", ref.PairSymbol, entity.ErrSymbolNotFound)
		}
		c.http.logger.Error("Binance API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", status),
			zap.ByteString("responseBody", body))
		return entity.TokenPriceRecord{}, fmt.Errorf("binance request to %s failed with status %d", requestURL, status)
	}

	var t binanceTicker
	if err := json.Unmarshal(body, &t); err != nil {
		return entity.TokenPriceRecord{}, fmt.Errorf("binance: %w: %v", entity.ErrMalformedResponse, err)
	}

	price, err := strconv.ParseFloat(t.LastPrice, 64)
	if err != nil {
		return entity.TokenPriceRecord{}, fmt.Errorf("binance: lastPrice %q: %w", t.LastPrice, entity.ErrMalformedResponse)
	}
	change, _ := strconv.ParseFloat(t.PriceChangePercent, 64)
	volume, _ := strconv.ParseFloat(t.QuoteVolume, 64)

	return entity.TokenPriceRecord{
		Symbol:           ref.Symbol,
		DisplayName:      ref.Name,
		PriceUSD:         price,
		Change24hPercent: change,
		Volume24hUSD:     volume,
		FetchedAt:        c.now(),
	}, nil
}

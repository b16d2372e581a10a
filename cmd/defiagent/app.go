package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/app/port"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/app/service"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/infrastructure/aliasloader"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/infrastructure/configloader"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/infrastructure/marketdata"
	clientprovider "github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/infrastructure/network/client"
	networkdefinition "github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/infrastructure/network/definition"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/infrastructure/pricecache"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/infrastructure/restapi"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/pkg/logger"

	"go.uber.org/zap"
)

// application holds every wired component. Built once per command.
type application struct {
	cfg        *configloader.Config
	zapLogger  *zap.Logger
	networks   *networkdefinition.NetworkProvider
	chainData  port.ChainDataClientProvider
	closeCache func() error

	prices    *service.PriceServiceImpl
	portfolio *service.PortfolioServiceImpl
	risk      *service.RiskAnalyzerImpl
	optimizer *service.OptimizerImpl
	market    *service.MarketServiceImpl
	query     *service.QueryServiceImpl
}

// loadConfig reads the YAML file; a missing file means defaults plus environment.
func loadConfig(path string) (*configloader.Config, error) {
	cfg, err := configloader.Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	cfg = configloader.Default()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newPriceProvider(cfg *configloader.Config, zapLogger *zap.Logger) port.PriceProvider {
	md := cfg.MarketData
	if md.Provider == "coingecko" {
		return marketdata.NewCoinGeckoClient(md.CoinGecko.BaseURL, md.CoinGecko.APIKey, cfg.MarketDataTimeout(), zapLogger)
	}
	return marketdata.NewBinanceClient(md.Binance.BaseURL, cfg.MarketDataTimeout(), zapLogger)
}

func newApplication(cfg *configloader.Config) (*application, error) {
	zapLogger, err := logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	aliases, err := aliasloader.NewAliasLoader(cfg.Resolver.AliasFile, logger.Named("AliasLoader")).Load()
	if err != nil {
		return nil, fmt.Errorf("load symbol aliases: %w", err)
	}

	cache, closeCache, err := pricecache.New(cfg.PriceCache, logger.Named("PriceCache"))
	if err != nil {
		return nil, fmt.Errorf("init price cache: %w", err)
	}

	networks := networkdefinition.NewNetworkProvider(logger.Named("NetworkProvider"), cfg.Network.Active, cfg.Network.InfuraProjectID)
	chainData := clientprovider.NewChainDataClientProvider(cfg, logger.Named("ChainData"))

	resolver := service.NewSymbolResolver(aliases, cfg.MarketData.QuoteSuffix)
	prices := service.NewPriceService(resolver, newPriceProvider(cfg, zapLogger), cache, cfg.MarketDataTimeout(), logger.Named("PriceService"))
	balances := service.NewBalanceService(chainData, networks, prices, cfg.ChainData, logger.Named("BalanceService"))
	positions := service.NewConfigPositionProvider(cfg.Portfolio.Positions)
	portfolio := service.NewPortfolioService(balances, positions, networks, cfg.Portfolio.WalletAddress, logger.Named("PortfolioService"))
	risk := service.NewRiskAnalyzer(networks)
	optimizer := service.NewOptimizer(networks, cfg.Portfolio.Targets, cfg.Portfolio.TolerancePercent)

	// Global figures only exist on CoinGecko, whichever provider serves prices.
	global := marketdata.NewCoinGeckoClient(cfg.MarketData.CoinGecko.BaseURL, cfg.MarketData.CoinGecko.APIKey, cfg.MarketDataTimeout(), zapLogger)
	market := service.NewMarketService(global, time.Duration(cfg.MarketData.MarketOverviewTTLSeconds)*time.Second, cfg.MarketDataTimeout(), logger.Named("MarketService"))

	query := service.NewQueryService(resolver, prices, portfolio, risk, optimizer, market, logger.Named("QueryService"))

	return &application{
		cfg:        cfg,
		zapLogger:  zapLogger,
		networks:   networks,
		chainData:  chainData,
		closeCache: closeCache,
		prices:     prices,
		portfolio:  portfolio,
		risk:       risk,
		optimizer:  optimizer,
		market:     market,
		query:      query,
	}, nil
}

func (a *application) handler() *restapi.Handler {
	return restapi.NewHandler(restapi.Services{
		Prices:              a.prices,
		Portfolio:           a.portfolio,
		Risk:                a.risk,
		Optimizer:           a.optimizer,
		Market:              a.market,
		Query:               a.query,
		Networks:            a.networks,
		ChainDataConfigured: a.chainData.Configured(),
		MarketDataProvider:  a.cfg.MarketData.Provider,
	}, logger.Named("HTTP"))
}

func (a *application) Close() {
	a.chainData.Close()
	if a.closeCache != nil {
		if err := a.closeCache(); err != nil {
			logger.Warn("Failed to close price cache", "error", err)
		}
	}
	_ = a.zapLogger.Sync()
}

package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "config/config.yml"

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port                   string `yaml:"port"`
	ShutdownTimeoutSeconds int    `yaml:"shutdownTimeoutSeconds"`
	EnableSwagger          bool   `yaml:"enableSwagger"`
	SwaggerSpecPath        string `yaml:"swaggerSpecPath"`
	EnablePprof            bool   `yaml:"enablePprof"` // keep off outside debugging
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json | console
}

// NetworkConfig selects the active network.
type NetworkConfig struct {
	Active          string `yaml:"active"` // devnet | testnet | mainnet | network key
	InfuraProjectID string `yaml:"infuraProjectId"`
}

// ChainDataConfig holds Alchemy-style chain-data settings.
type ChainDataConfig struct {
	APIKey               string  `yaml:"apiKey"`
	RequestTimeoutMillis int64   `yaml:"requestTimeoutMillis"`
	MaxTokensPerCall     int     `yaml:"maxTokensPerCall"`
	DustThreshold        float64 `yaml:"dustThreshold"`
	RateLimitPerSecond   float64 `yaml:"rateLimitPerSecond"`
	BurstLimit           int     `yaml:"burstLimit"`
	MaxConcurrentPricing int     `yaml:"maxConcurrentPricing"`
}

// BinanceConfig holds Binance public API settings.
type BinanceConfig struct {
	BaseURL string `yaml:"baseURL"`
}

// CoinGeckoConfig holds CoinGecko API specific configurations.
type CoinGeckoConfig struct {
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseURL"`
}

// MarketDataConfig holds price provider settings.
type MarketDataConfig struct {
	Provider                 string          `yaml:"provider"` // binance | coingecko
	QuoteSuffix              string          `yaml:"quoteSuffix"`
	RequestTimeoutMillis     int64           `yaml:"requestTimeoutMillis"`
	MarketOverviewTTLSeconds int             `yaml:"marketOverviewTTLSeconds"`
	Binance                  BinanceConfig   `yaml:"binance"`
	CoinGecko                CoinGeckoConfig `yaml:"coingecko"`
}

// PriceCacheConfig holds the optional price cache settings.
type PriceCacheConfig struct {
	Backend       string `yaml:"backend"` // none | memory | redis
	TTLSeconds    int    `yaml:"ttlSeconds"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	KeyPrefix     string `yaml:"keyPrefix"`
}

// ResolverConfig points at the alias table.
type ResolverConfig struct {
	AliasFile string `yaml:"aliasFile"` // empty: embedded default table
}

// AllocationTargets are target shares in percent, summing to 100.
type AllocationTargets struct {
	Native      float64 `yaml:"native"`
	Stablecoins float64 `yaml:"stablecoins"`
	Positions   float64 `yaml:"positions"`
	Other       float64 `yaml:"other"`
}

// PortfolioConfig holds wallet and position settings.
type PortfolioConfig struct {
	WalletAddress    string                    `yaml:"walletAddress"`
	Positions        []entity.ProtocolPosition `yaml:"positions"`
	Targets          AllocationTargets         `yaml:"targets"`
	TolerancePercent float64                   `yaml:"tolerancePercent"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Network    NetworkConfig    `yaml:"network"`
	ChainData  ChainDataConfig  `yaml:"chainData"`
	MarketData MarketDataConfig `yaml:"marketData"`
	PriceCache PriceCacheConfig `yaml:"priceCache"`
	Resolver   ResolverConfig   `yaml:"resolver"`
	Portfolio  PortfolioConfig  `yaml:"portfolio"`
}

// ChainDataTimeout returns the per-call timeout for chain-data requests.
func (c *Config) ChainDataTimeout() time.Duration {
	return time.Duration(c.ChainData.RequestTimeoutMillis) * time.Millisecond
}

// MarketDataTimeout returns the per-call timeout for price requests.
func (c *Config) MarketDataTimeout() time.Duration {
	return time.Duration(c.MarketData.RequestTimeoutMillis) * time.Millisecond
}

// Load reads the YAML configuration file from the given path, applies
// defaults and then environment overrides.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	applyDefaults(&cfg)
	ApplyEnv(&cfg, os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

// Default returns a configuration built purely from defaults and the environment.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	ApplyEnv(&cfg, os.LookupEnv)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.ShutdownTimeoutSeconds <= 0 {
		cfg.Server.ShutdownTimeoutSeconds = 5
	}
	if cfg.Server.SwaggerSpecPath == "" {
		cfg.Server.SwaggerSpecPath = "docs/swagger.yaml"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Network.Active == "" {
		cfg.Network.Active = string(entity.NetworkTestnet)
	}

	if cfg.ChainData.RequestTimeoutMillis <= 0 {
		cfg.ChainData.RequestTimeoutMillis = 8000
	}
	if cfg.ChainData.MaxTokensPerCall <= 0 {
		cfg.ChainData.MaxTokensPerCall = 5
	}
	if cfg.ChainData.DustThreshold <= 0 {
		cfg.ChainData.DustThreshold = 0.001
	}
	if cfg.ChainData.RateLimitPerSecond <= 0 {
		cfg.ChainData.RateLimitPerSecond = 10
	}
	if cfg.ChainData.BurstLimit <= 0 {
		cfg.ChainData.BurstLimit = 5
	}
	if cfg.ChainData.MaxConcurrentPricing <= 0 {
		cfg.ChainData.MaxConcurrentPricing = 3
	}

	if cfg.MarketData.Provider == "" {
		cfg.MarketData.Provider = "binance"
	}
	if cfg.MarketData.QuoteSuffix == "" {
		cfg.MarketData.QuoteSuffix = "USDT"
	}
	if cfg.MarketData.RequestTimeoutMillis <= 0 {
		cfg.MarketData.RequestTimeoutMillis = 8000
	}
	if cfg.MarketData.MarketOverviewTTLSeconds <= 0 {
		cfg.MarketData.MarketOverviewTTLSeconds = 300
	}
	if cfg.MarketData.Binance.BaseURL == "" {
		cfg.MarketData.Binance.BaseURL = "https://api.binance.com"
	}
	if cfg.MarketData.CoinGecko.BaseURL == "" {
		cfg.MarketData.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
	}

	if cfg.PriceCache.Backend == "" {
		cfg.PriceCache.Backend = "none"
	}
	if cfg.PriceCache.TTLSeconds <= 0 {
		cfg.PriceCache.TTLSeconds = 60
	}
	if cfg.PriceCache.KeyPrefix == "" {
		cfg.PriceCache.KeyPrefix = "defiagent:price:"
	}

	t := &cfg.Portfolio.Targets
	if t.Native == 0 && t.Stablecoins == 0 && t.Positions == 0 && t.Other == 0 {
		*t = AllocationTargets{Native: 40, Stablecoins: 30, Positions: 20, Other: 10}
	}
	if cfg.Portfolio.TolerancePercent <= 0 {
		cfg.Portfolio.TolerancePercent = 5
	}
}

// ApplyEnv overrides config values from the environment. lookup is
// os.LookupEnv outside of tests.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set("NETWORK", &cfg.Network.Active)
	set("INFURA_PROJECT_ID", &cfg.Network.InfuraProjectID)
	set("ALCHEMY_API_KEY", &cfg.ChainData.APIKey)
	set("COINGECKO_API_KEY", &cfg.MarketData.CoinGecko.APIKey)
	set("WALLET_ADDRESS", &cfg.Portfolio.WalletAddress)

	if v, ok := lookup("REDIS_ADDR"); ok && v != "" {
		cfg.PriceCache.RedisAddr = v
		if cfg.PriceCache.Backend == "none" {
			cfg.PriceCache.Backend = "redis"
		}
	}
	if v, ok := lookup("REQUEST_TIMEOUT_MS"); ok && v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil && ms > 0 {
			cfg.ChainData.RequestTimeoutMillis = ms
			cfg.MarketData.RequestTimeoutMillis = ms
		} else {
			logrus.Warnf("Ignoring invalid REQUEST_TIMEOUT_MS value %q", v)
		}
	}

	cfg.Network.Active = strings.ToLower(cfg.Network.Active)
	cfg.MarketData.Provider = strings.ToLower(cfg.MarketData.Provider)
	cfg.PriceCache.Backend = strings.ToLower(cfg.PriceCache.Backend)
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	switch c.MarketData.Provider {
	case "binance", "coingecko":
	default:
		return fmt.Errorf("unknown marketData.provider %q (want binance or coingecko)", c.MarketData.Provider)
	}
	switch c.PriceCache.Backend {
	case "none", "memory":
	case "redis":
		if c.PriceCache.RedisAddr == "" {
			return fmt.Errorf("priceCache.backend is redis but redisAddr is empty")
		}
	default:
		return fmt.Errorf("unknown priceCache.backend %q", c.PriceCache.Backend)
	}
	t := c.Portfolio.Targets
	if sum := t.Native + t.Stablecoins + t.Positions + t.Other; sum < 99.99 || sum > 100.01 {
		return fmt.Errorf("portfolio.targets must sum to 100, got %.2f", sum)
	}
	for i, p := range c.Portfolio.Positions {
		if p.ValueUSD < 0 {
			return fmt.Errorf("portfolio.positions[%d] (%s) has negative valueUsd", i, p.ProtocolName)
		}
	}
	return nil
}

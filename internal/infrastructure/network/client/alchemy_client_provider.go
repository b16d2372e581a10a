package client

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/app/port"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"
	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/infrastructure/configloader"

	"golang.org/x/time/rate"
)

// chainDataClientProvider implements the port.ChainDataClientProvider interface.
type chainDataClientProvider struct {
	clients        map[string]*AlchemyClient
	mu             sync.Mutex
	apiKey         string
	limiter        *rate.Limiter
	rpcCallTimeout time.Duration
	logger         port.Logger
}

// NewChainDataClientProvider creates a provider that lazily builds one client per network.
// All clients share one rate limiter since they share one API key.
func NewChainDataClientProvider(cfg *configloader.Config, log port.Logger) port.ChainDataClientProvider {
	return &chainDataClientProvider{
		clients:        make(map[string]*AlchemyClient),
		apiKey:         cfg.ChainData.APIKey,
		limiter:        rate.NewLimiter(rate.Limit(cfg.ChainData.RateLimitPerSecond), cfg.ChainData.BurstLimit),
		rpcCallTimeout: cfg.ChainDataTimeout(),
		logger:         log,
	}
}

// Configured reports whether an API key is present.
func (p *chainDataClientProvider) Configured() bool {
	return p.apiKey != ""
}

// GetClient retrieves a chain-data client for the given network profile.
// It returns entity.ErrNotConfigured when the key or endpoint is missing.
func (p *chainDataClientProvider) GetClient(profile entity.NetworkProfile) (port.ChainDataClient, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("ALCHEMY_API_KEY not set: %w", entity.ErrNotConfigured)
	}
	if profile.ChainDataURL == "" {
		return nil, fmt.Errorf("network %s has no chain-data endpoint: %w", profile.Key, entity.ErrNotConfigured)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if c, exists := p.clients[profile.Key]; exists {
		return c, nil
	}

	endpoint := strings.TrimRight(profile.ChainDataURL, "/") + "/" + p.apiKey
	p.logger.Info("Creating new chain-data client", "network", profile.Key)
	c, err := NewAlchemyClient(endpoint, profile, p.limiter, p.rpcCallTimeout, p.logger)
	if err != nil {
		p.logger.Error("Failed to create chain-data client", "network", profile.Key, "error", err)
		return nil, err
	}
	p.clients[profile.Key] = c
	return c, nil
}

// Close closes every cached client.
func (p *chainDataClientProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for k, c := range p.clients {
		c.Close()
		delete(p.clients, k)
	}
}

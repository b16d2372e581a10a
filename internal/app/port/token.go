package port

import (
	"context"

	"github.com/omarespejel/eliza-agent-defi-portfolio-manager/internal/domain/entity"
)

// SymbolResolver maps free text or a ticker to a canonical token reference.
type SymbolResolver interface {
	// Resolve extracts a token from a natural-language message.
	Resolve(text string) (entity.TokenRef, bool)
	// ResolveSymbol resolves an exact ticker or alias.
	ResolveSymbol(symbol string) (entity.TokenRef, bool)
}

// PriceProvider is a single market-data source.
type PriceProvider interface {
	Name() string
	// FetchPrice returns entity.ErrSymbolNotFound for symbols the source does not list.
	FetchPrice(ctx context.Context, ref entity.TokenRef) (entity.TokenPriceRecord, error)
}

// GlobalMarketProvider returns aggregate market figures.
type GlobalMarketProvider interface {
	FetchGlobal(ctx context.Context) (entity.MarketOverview, error)
}

// PriceCache stores successful price lookups for a short TTL.
type PriceCache interface {
	Get(ctx context.Context, symbol string) (entity.TokenPriceRecord, bool)
	Set(ctx context.Context, record entity.TokenPriceRecord)
}

// PriceService определяет интерфейс для получения цен токенов.
type PriceService interface {
	GetPrice(ctx context.Context, ref entity.TokenRef) entity.PriceResult
	// GetPriceBySymbol resolves the ticker first and then fetches it.
	GetPriceBySymbol(ctx context.Context, symbol string) entity.PriceResult
}

// MarketService returns the global market overview.
type MarketService interface {
	GetOverview(ctx context.Context) entity.MarketOverview
}

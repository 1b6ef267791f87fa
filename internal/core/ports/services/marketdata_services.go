package services

import (
	"context"

	"github.com/nestfolio/nestfolio_backend/internal/core/domain"
)

// HealthChecker is implemented by every market-data client. HealthCheck
// issues a lightweight probe and never returns an error; an unreachable
// upstream is reported inside the status.
type HealthChecker interface {
	HealthCheck(ctx context.Context) domain.HealthStatus
}

// StockQuoter fetches live stock quotes. Individual quotes are not cached;
// callers that need request-level reuse batch through BatchQuotes.
type StockQuoter interface {
	// Quote fetches the current price for one ticker symbol.
	Quote(ctx context.Context, symbol string) (*domain.PriceQuote, error)
	// BatchQuotes fetches prices for a set of symbols. Symbols the upstream
	// does not know are absent from the result map, not an error.
	BatchQuotes(ctx context.Context, symbols []string) (map[string]domain.PriceQuote, error)
	// Search performs a free-text symbol lookup. Results are not cached.
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
	HealthChecker
}

// CryptoQuoter fetches live crypto prices keyed by provider coin id.
type CryptoQuoter interface {
	Quote(ctx context.Context, coinID, currency string) (*domain.PriceQuote, error)
	// BatchQuotes issues a single upstream call for the whole id set.
	BatchQuotes(ctx context.Context, coinIDs []string, currency string) (map[string]domain.PriceQuote, error)
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
	HealthChecker
}

// FiatRateSource fetches fiat exchange rates. Successful responses are
// cached inside the client for 24h keyed by (from, targets).
type FiatRateSource interface {
	// Rates returns the rate from one base currency to each target. Targets
	// the upstream does not know are absent from the result map, not an
	// error; the converter degrades those to its fallback table per-target.
	Rates(ctx context.Context, from string, targets []string) (map[string]float64, error)
	HealthChecker
}

// MetalQuoter fetches precious-metal spot prices. Responses are cached for
// 5 minutes keyed by (metal, currency, unit).
type MetalQuoter interface {
	Price(ctx context.Context, metal, currency, unit string) (*domain.PriceQuote, error)
	// WithAPIKey returns a view of the quoter that authenticates upstream
	// with the given key while sharing the rate gate and cache.
	WithAPIKey(key string) MetalQuoter
	HealthChecker
}

// MetalPriceSvcFacade resolves metal spot prices per household, preferring
// the household's own upstream API key when one is configured.
type MetalPriceSvcFacade interface {
	Price(ctx context.Context, householdID, metal, currency, unit string) (*domain.PriceQuote, error)
	HealthChecker
}

package services

import (
	"context"

	"github.com/nestfolio/nestfolio_backend/internal/core/domain"
)

// CurrencyConverterSvcFacade is the currency-conversion facade consumed by
// dashboards, the AI context builder, and the HTTP surface. Lookups resolve
// through an ordered chain: local cache, live fiat-rate source, static
// fallback table. Only when every tier misses does a lookup fail, with
// apperrors.ConversionUnavailableError naming both currencies.
type CurrencyConverterSvcFacade interface {
	// Convert converts an amount between two currencies. A same-currency
	// conversion short-circuits with rate 1 and no network call.
	Convert(ctx context.Context, amount float64, from, to string) (*domain.ConversionResult, error)

	// GetRate resolves the numeric rate for a pair through the same chain.
	GetRate(ctx context.Context, from, to string) (float64, error)

	// GetMultipleRates resolves rates from one base to many targets with at
	// most one upstream call for the cache-missing subset. Partial upstream
	// failure degrades per-target to the fallback table rather than failing
	// the whole batch; targets with no fallback entry are simply absent.
	GetMultipleRates(ctx context.Context, from string, targets []string) (map[string]float64, error)

	// FormatAmount renders an amount in a locale-aware currency format,
	// degrading to "symbol + number" when the locale/currency pair is not
	// supported by the formatting primitive.
	FormatAmount(amount float64, currencyCode, locale string) string

	// Operational introspection. None of these ever returns an error.
	HealthCheck(ctx context.Context) domain.HealthStatus
	ClearCache()
	CacheStats() domain.CacheStats
}

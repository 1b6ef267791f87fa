package services

import (
	"context"
	"strings"
	"time"

	"github.com/nestfolio/nestfolio_backend/internal/apperrors"
	"github.com/nestfolio/nestfolio_backend/internal/core/domain"
	portssvc "github.com/nestfolio/nestfolio_backend/internal/core/ports/services"
	"github.com/nestfolio/nestfolio_backend/internal/platform/metrics"
	"github.com/nestfolio/nestfolio_backend/internal/utils"
	"github.com/shopspring/decimal"
)

// converterCacheTTL bounds how long a live rate is reused before the
// converter asks the fiat-rate source again.
const converterCacheTTL = time.Hour

// rateResolution is the outcome of one tier of the resolution chain.
type rateResolution struct {
	rate   float64
	source domain.RateSource
}

// rateResolver is one tier of the resolution chain. It either produces a
// rate or declines; it never fails.
type rateResolver func(ctx context.Context, from, to string) (rateResolution, bool)

// CurrencyConverter resolves currency conversions through an explicit,
// ordered chain of resolvers: local cache, live fiat-rate source, static
// fallback table. The first tier that produces a rate wins. Live failures of
// any kind are demoted to a fallback lookup; a lookup fails only when the
// fallback table also lacks the pair.
//
// Pairs involving a recognized crypto or metal code never reach the live
// tier: those clients are reserved for instrument pricing in the refresh
// service, and conversion serves such pairs from the fallback table.
type CurrencyConverter struct {
	fiat      portssvc.FiatRateSource
	cache     *rateCache
	resolvers []rateResolver
}

// NewCurrencyConverter creates the converter around an injected fiat-rate
// source. One instance is constructed at process start and shared.
func NewCurrencyConverter(fiat portssvc.FiatRateSource) *CurrencyConverter {
	c := &CurrencyConverter{
		fiat:  fiat,
		cache: newRateCache(converterCacheTTL),
	}
	c.resolvers = []rateResolver{
		c.resolveFromCache,
		c.resolveLive,
		c.resolveFromFallback,
	}
	return c
}

var _ portssvc.CurrencyConverterSvcFacade = (*CurrencyConverter)(nil)

// Convert converts an amount between two currencies.
func (c *CurrencyConverter) Convert(ctx context.Context, amount float64, from, to string) (*domain.ConversionResult, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	if from == to {
		// Identity short-circuit, reported as a cache hit by convention.
		metrics.RateCacheHits.Inc()
		return &domain.ConversionResult{
			ConvertedAmount: amount,
			Rate:            1,
			InverseRate:     1,
			Source:          domain.RateSourceCache,
		}, nil
	}

	resolution, err := c.resolve(ctx, from, to)
	if err != nil {
		return nil, err
	}

	converted := decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(resolution.rate)).
		InexactFloat64()

	return &domain.ConversionResult{
		ConvertedAmount: converted,
		Rate:            resolution.rate,
		InverseRate:     1 / resolution.rate,
		Source:          resolution.source,
	}, nil
}

// GetRate resolves the numeric rate for a pair through the resolution chain.
func (c *CurrencyConverter) GetRate(ctx context.Context, from, to string) (float64, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == to {
		metrics.RateCacheHits.Inc()
		return 1, nil
	}
	resolution, err := c.resolve(ctx, from, to)
	if err != nil {
		return 0, err
	}
	return resolution.rate, nil
}

// GetMultipleRates resolves rates from one base to many targets. Cache hits
// are served individually; the cache-missing remainder is fetched in a
// single upstream call. Partial upstream failure degrades per-target to the
// fallback table; targets with no rate anywhere are absent from the result.
func (c *CurrencyConverter) GetMultipleRates(ctx context.Context, from string, targets []string) (map[string]float64, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	rates := make(map[string]float64, len(targets))

	var missing []string
	for _, target := range targets {
		target = strings.ToUpper(strings.TrimSpace(target))
		if target == from {
			rates[target] = 1
			continue
		}
		if rate, ok := c.cache.get(from, target); ok {
			metrics.RateCacheHits.Inc()
			rates[target] = rate
			continue
		}
		metrics.RateCacheMisses.Inc()
		missing = append(missing, target)
	}
	if len(missing) == 0 {
		return rates, nil
	}

	var liveable []string
	for _, target := range missing {
		if !nonFiatCodes[from] && !nonFiatCodes[target] {
			liveable = append(liveable, target)
		}
	}

	live := map[string]float64{}
	if len(liveable) > 0 {
		fetched, err := c.fiat.Rates(ctx, from, liveable)
		if err == nil {
			live = fetched
			for target, rate := range fetched {
				c.cache.setPair(from, target, rate)
			}
		}
	}

	for _, target := range missing {
		if rate, ok := live[target]; ok {
			rates[target] = rate
			continue
		}
		if rate, ok := fallbackRate(from, target); ok {
			metrics.RateFallbacks.Inc()
			rates[target] = rate
		}
	}
	return rates, nil
}

// FormatAmount renders an amount in a locale-aware currency format.
func (c *CurrencyConverter) FormatAmount(amount float64, currencyCode, locale string) string {
	return utils.FormatCurrencyAmount(amount, currencyCode, locale)
}

// HealthCheck verifies the converter can resolve a well-known pair. It never
// returns an error; an unresolvable pair reports Healthy=false.
func (c *CurrencyConverter) HealthCheck(ctx context.Context) domain.HealthStatus {
	start := time.Now()
	_, err := c.GetRate(ctx, "USD", "EUR")
	status := domain.HealthStatus{
		Provider:  "currency-converter",
		Healthy:   err == nil,
		LatencyMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		status.Error = err.Error()
	}
	return status
}

// ClearCache drops every cached rate pair.
func (c *CurrencyConverter) ClearCache() {
	c.cache.clear()
}

// CacheStats reports a snapshot of the converter cache.
func (c *CurrencyConverter) CacheStats() domain.CacheStats {
	return c.cache.stats()
}

// resolve walks the resolver chain and stops at the first tier that
// produces a rate.
func (c *CurrencyConverter) resolve(ctx context.Context, from, to string) (rateResolution, error) {
	for _, resolver := range c.resolvers {
		if resolution, ok := resolver(ctx, from, to); ok {
			return resolution, nil
		}
	}
	return rateResolution{}, &apperrors.ConversionUnavailableError{From: from, To: to}
}

func (c *CurrencyConverter) resolveFromCache(_ context.Context, from, to string) (rateResolution, bool) {
	if rate, ok := c.cache.get(from, to); ok {
		metrics.RateCacheHits.Inc()
		return rateResolution{rate: rate, source: domain.RateSourceCache}, true
	}
	metrics.RateCacheMisses.Inc()
	return rateResolution{}, false
}

func (c *CurrencyConverter) resolveLive(ctx context.Context, from, to string) (rateResolution, bool) {
	if nonFiatCodes[from] || nonFiatCodes[to] {
		return rateResolution{}, false
	}
	rates, err := c.fiat.Rates(ctx, from, []string{to})
	if err != nil {
		// Any live failure demotes this lookup to the fallback tier.
		return rateResolution{}, false
	}
	rate, ok := rates[to]
	if !ok || rate == 0 {
		return rateResolution{}, false
	}
	c.cache.setPair(from, to, rate)
	return rateResolution{rate: rate, source: domain.RateSourceAPI}, true
}

func (c *CurrencyConverter) resolveFromFallback(_ context.Context, from, to string) (rateResolution, bool) {
	rate, ok := fallbackRate(from, to)
	if !ok {
		return rateResolution{}, false
	}
	metrics.RateFallbacks.Inc()
	return rateResolution{rate: rate, source: domain.RateSourceFallback}, true
}

// Package metrics exposes prometheus instrumentation for the market-data
// core. Counters are registered on the default registry and served from the
// /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RateCacheHits counts converter cache hits (including the
	// same-currency identity short-circuit).
	RateCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "currency_rate_cache_hits_total",
		Help: "Number of rate lookups served from the converter cache.",
	})

	// RateCacheMisses counts converter cache misses.
	RateCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "currency_rate_cache_misses_total",
		Help: "Number of rate lookups that missed the converter cache.",
	})

	// RateFallbacks counts lookups that degraded to the static table.
	RateFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "currency_rate_fallbacks_total",
		Help: "Number of rate lookups served from the static fallback table.",
	})

	// RefreshAccountsUpdated counts accounts updated by price refreshes,
	// labelled by instrument type.
	RefreshAccountsUpdated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "price_refresh_accounts_updated_total",
		Help: "Number of accounts updated by price refresh runs.",
	}, []string{"instrument_type"})

	// RefreshErrors counts refresh error entries, labelled by instrument type.
	RefreshErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "price_refresh_errors_total",
		Help: "Number of error entries produced by price refresh runs.",
	}, []string{"instrument_type"})
)

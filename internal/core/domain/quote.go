package domain

import "time"

// RateSource records which tier of the resolution chain produced a value.
type RateSource string

const (
	RateSourceAPI      RateSource = "api"
	RateSourceCache    RateSource = "cache"
	RateSourceFallback RateSource = "fallback"
)

// PriceQuote is a single observed price for an instrument. Immutable once
// produced; the next refresh cycle supersedes it rather than mutating it.
type PriceQuote struct {
	Symbol       string     `json:"symbol"`
	Price        float64    `json:"price"`
	CurrencyCode string     `json:"currencyCode"`
	ObservedAt   time.Time  `json:"observedAt"`
	Source       RateSource `json:"source"`
	ExchangeName string     `json:"exchangeName,omitempty"`
}

// SearchResult is one entry of a free-text instrument lookup.
type SearchResult struct {
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	ExchangeName string `json:"exchangeName,omitempty"`
	CurrencyCode string `json:"currencyCode,omitempty"`
}

// HealthStatus is the result of a provider connectivity probe.
// Probes never fail; an unreachable provider reports Healthy=false.
type HealthStatus struct {
	Provider  string `json:"provider"`
	Healthy   bool   `json:"healthy"`
	LatencyMS int64  `json:"latencyMs"`
	Error     string `json:"error,omitempty"`
}

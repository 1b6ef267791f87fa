package domain

import "time"

// ExchangeRateEntry is one directional observed rate. Whenever a rate is
// fetched, the inverse pair is derived from the same observation and stored
// alongside it, so the two never drift apart.
type ExchangeRateEntry struct {
	FromCurrencyCode string    `json:"fromCurrencyCode"`
	ToCurrencyCode   string    `json:"toCurrencyCode"`
	Rate             float64   `json:"rate"`
	ObservedAt       time.Time `json:"observedAt"`
}

// ConversionResult is the outcome of a currency conversion.
type ConversionResult struct {
	ConvertedAmount float64    `json:"convertedAmount"`
	Rate            float64    `json:"rate"`
	InverseRate     float64    `json:"inverseRate"`
	Source          RateSource `json:"source"`
}

// CacheStats is a point-in-time snapshot of a rate cache.
type CacheStats struct {
	Entries int      `json:"entries"`
	Keys    []string `json:"keys"`
	TTL     string   `json:"ttl"`
}

package marketdata

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/nestfolio/nestfolio_backend/internal/core/domain"
)

const (
	fiatProviderName = "fiat-rates"

	// Reference rates update once a working day, so a long client-side TTL
	// is safe. The converter layers its own shorter-lived cache on top.
	fiatCacheTTL = 24 * time.Hour
)

// FiatRateClient fetches fiat exchange rates from a Frankfurter-style
// endpoint ({amount, base, date, rates}). Successful responses are cached
// for 24h keyed by (base, sorted targets). No self-throttle.
type FiatRateClient struct {
	api   httpAPI
	cache *ttlCache[map[string]float64]
}

func NewFiatRateClient(baseURL string, timeout time.Duration) *FiatRateClient {
	return &FiatRateClient{
		api:   newHTTPAPI(fiatProviderName, baseURL, timeout),
		cache: newTTLCache[map[string]float64](fiatCacheTTL),
	}
}

type fiatRatesResponse struct {
	Amount float64            `json:"amount"`
	Base   string             `json:"base"`
	Date   string             `json:"date"`
	Rates  map[string]float64 `json:"rates"`
}

// Rates returns the rate from one base currency to each requested target.
// Targets the upstream does not know are absent from the result map; the
// caller decides how to degrade for them.
func (c *FiatRateClient) Rates(ctx context.Context, from string, targets []string) (map[string]float64, error) {
	from = strings.ToUpper(from)
	normalized := make([]string, len(targets))
	for i, t := range targets {
		normalized[i] = strings.ToUpper(t)
	}

	key := fiatCacheKey(from, normalized)
	if cached, ok := c.cache.get(key); ok {
		return cached, nil
	}

	params := url.Values{
		"from": {from},
		"to":   {strings.Join(normalized, ",")},
	}
	var resp fiatRatesResponse
	if err := c.api.getJSON(ctx, "/latest", params, &resp); err != nil {
		return nil, err
	}

	rates := make(map[string]float64, len(normalized))
	for _, target := range normalized {
		if rate, ok := resp.Rates[target]; ok {
			rates[target] = rate
		}
	}

	if len(rates) > 0 {
		c.cache.set(key, rates)
	}
	return rates, nil
}

// HealthCheck probes the latest-rates endpoint with a well-known pair.
func (c *FiatRateClient) HealthCheck(ctx context.Context) domain.HealthStatus {
	params := url.Values{"from": {"USD"}, "to": {"EUR"}}
	latency, errMsg := c.api.probe(ctx, "/latest", params)
	return domain.HealthStatus{
		Provider:  fiatProviderName,
		Healthy:   errMsg == "",
		LatencyMS: latency,
		Error:     errMsg,
	}
}

// ClearCache drops all cached responses.
func (c *FiatRateClient) ClearCache() {
	c.cache.clear()
}

func fiatCacheKey(from string, targets []string) string {
	sorted := make([]string, len(targets))
	copy(sorted, targets)
	sort.Strings(sorted)
	return from + ":" + strings.Join(sorted, ",")
}

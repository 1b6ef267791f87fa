package marketdata

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/nestfolio/nestfolio_backend/internal/core/domain"
	portssvc "github.com/nestfolio/nestfolio_backend/internal/core/ports/services"
)

const (
	metalsProviderName = "metals"

	// The free tier allows 50 requests per day. Combined with the 5 minute
	// response cache this keeps a single household well inside the budget.
	metalsMinInterval = 29 * time.Minute
	metalsCacheTTL    = 5 * time.Minute
)

// MetalsClient fetches precious-metal spot prices. The upstream requires an
// API key passed as a query parameter. Requests are serialized through a
// process-wide interval gate and successful responses are cached briefly
// keyed by (metal, currency, unit).
type MetalsClient struct {
	api    httpAPI
	apiKey string
	gate   *intervalGate
	cache  *ttlCache[domain.PriceQuote]
}

func NewMetalsClient(baseURL, apiKey string, timeout time.Duration) *MetalsClient {
	return &MetalsClient{
		api:    newHTTPAPI(metalsProviderName, baseURL, timeout),
		apiKey: apiKey,
		gate:   newIntervalGate(metalsMinInterval),
		cache:  newTTLCache[domain.PriceQuote](metalsCacheTTL),
	}
}

// WithAPIKey returns a view of the client that authenticates with the given
// key. The interval gate and the response cache stay shared: a household
// bringing its own key does not widen the process-wide request budget.
func (c *MetalsClient) WithAPIKey(key string) portssvc.MetalQuoter {
	clone := *c
	clone.apiKey = key
	return &clone
}

type metalsPriceResponse struct {
	Metal    string  `json:"metal"`
	Currency string  `json:"currency"`
	Unit     string  `json:"unit"`
	Price    float64 `json:"price"`
}

// Price fetches the spot price of one metal in the given currency and unit
// (for example "XAU", "USD", "oz").
func (c *MetalsClient) Price(ctx context.Context, metal, currency, unit string) (*domain.PriceQuote, error) {
	metal = strings.ToUpper(metal)
	currency = strings.ToUpper(currency)

	key := metal + ":" + currency + ":" + unit
	if cached, ok := c.cache.get(key); ok {
		quote := cached
		quote.Source = domain.RateSourceCache
		return &quote, nil
	}

	if err := c.gate.wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"currency": {currency},
		"unit":     {unit},
	}
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	var resp metalsPriceResponse
	if err := c.api.getJSON(ctx, "/price/"+metal, params, &resp); err != nil {
		return nil, err
	}

	quote := domain.PriceQuote{
		Symbol:       metal,
		Price:        resp.Price,
		CurrencyCode: currency,
		ObservedAt:   time.Now(),
		Source:       domain.RateSourceAPI,
	}
	c.cache.set(key, quote)
	return &quote, nil
}

// HealthCheck probes the price endpoint with gold in USD. A cached quote
// counts as healthy without spending a request against the daily budget.
func (c *MetalsClient) HealthCheck(ctx context.Context) domain.HealthStatus {
	start := time.Now()
	_, err := c.Price(ctx, "XAU", "USD", "oz")
	status := domain.HealthStatus{
		Provider:  metalsProviderName,
		Healthy:   err == nil,
		LatencyMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		status.Error = err.Error()
	}
	return status
}

// ClearCache drops all cached quotes.
func (c *MetalsClient) ClearCache() {
	c.cache.clear()
}

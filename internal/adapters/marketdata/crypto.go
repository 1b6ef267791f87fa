package marketdata

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/nestfolio/nestfolio_backend/internal/apperrors"
	"github.com/nestfolio/nestfolio_backend/internal/core/domain"
)

const (
	cryptoProviderName = "crypto"

	// The free tier allows 30 requests per minute.
	cryptoMinInterval = 2 * time.Second
)

// CryptoClient fetches coin prices from a CoinGecko-style simple-price
// endpoint. Requests are serialized through a process-wide interval gate to
// stay inside the free-tier budget. Prices are not cached; the whole point of
// a batch call is one upstream request for many coins.
type CryptoClient struct {
	api  httpAPI
	gate *intervalGate
}

func NewCryptoClient(baseURL string, timeout time.Duration) *CryptoClient {
	return &CryptoClient{
		api:  newHTTPAPI(cryptoProviderName, baseURL, timeout),
		gate: newIntervalGate(cryptoMinInterval),
	}
}

type cryptoSearchResponse struct {
	Coins []struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"coins"`
}

// Quote fetches the current price of one coin in the given currency.
func (c *CryptoClient) Quote(ctx context.Context, coinID, currency string) (*domain.PriceQuote, error) {
	quotes, err := c.BatchQuotes(ctx, []string{coinID}, currency)
	if err != nil {
		return nil, err
	}
	quote, ok := quotes[coinID]
	if !ok {
		return nil, apperrors.NewNotFoundError("coin id " + coinID)
	}
	return &quote, nil
}

// BatchQuotes fetches prices for the whole id set in a single upstream call.
// Ids the upstream omits are absent from the result map.
func (c *CryptoClient) BatchQuotes(ctx context.Context, coinIDs []string, currency string) (map[string]domain.PriceQuote, error) {
	if len(coinIDs) == 0 {
		return map[string]domain.PriceQuote{}, nil
	}
	if err := c.gate.wait(ctx); err != nil {
		return nil, err
	}

	currency = strings.ToLower(currency)
	params := url.Values{
		"ids":           {strings.Join(coinIDs, ",")},
		"vs_currencies": {currency},
	}
	// {coinId: {currencyCode: price}}
	var resp map[string]map[string]float64
	if err := c.api.getJSON(ctx, "/simple/price", params, &resp); err != nil {
		return nil, err
	}

	observedAt := time.Now()
	quotes := make(map[string]domain.PriceQuote, len(resp))
	for _, coinID := range coinIDs {
		prices, ok := resp[coinID]
		if !ok {
			continue
		}
		price, ok := prices[currency]
		if !ok {
			continue
		}
		quotes[coinID] = domain.PriceQuote{
			Symbol:       coinID,
			Price:        price,
			CurrencyCode: strings.ToUpper(currency),
			ObservedAt:   observedAt,
			Source:       domain.RateSourceAPI,
		}
	}
	return quotes, nil
}

// Search performs a free-text coin lookup for UI autocomplete.
func (c *CryptoClient) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	if err := c.gate.wait(ctx); err != nil {
		return nil, err
	}
	var resp cryptoSearchResponse
	if err := c.api.getJSON(ctx, "/search", url.Values{"query": {query}}, &resp); err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, 0, len(resp.Coins))
	for _, coin := range resp.Coins {
		results = append(results, domain.SearchResult{
			Symbol: coin.ID,
			Name:   coin.Name + " (" + strings.ToUpper(coin.Symbol) + ")",
		})
	}
	return results, nil
}

// HealthCheck probes the simple-price endpoint with a well-known coin. The
// probe goes through the gate like any other request.
func (c *CryptoClient) HealthCheck(ctx context.Context) domain.HealthStatus {
	if err := c.gate.wait(ctx); err != nil {
		return domain.HealthStatus{Provider: cryptoProviderName, Healthy: false, Error: err.Error()}
	}
	params := url.Values{"ids": {"bitcoin"}, "vs_currencies": {"usd"}}
	latency, errMsg := c.api.probe(ctx, "/simple/price", params)
	return domain.HealthStatus{
		Provider:  cryptoProviderName,
		Healthy:   errMsg == "",
		LatencyMS: latency,
		Error:     errMsg,
	}
}

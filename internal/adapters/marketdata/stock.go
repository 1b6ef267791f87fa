package marketdata

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/nestfolio/nestfolio_backend/internal/apperrors"
	"github.com/nestfolio/nestfolio_backend/internal/core/domain"
)

const stockProviderName = "stocks"

// StockClient fetches stock quotes from a Yahoo-style quote endpoint.
// The upstream is keyless and treated as effectively unlimited for this
// system's volume, so there is no self-throttle; 429s are still surfaced
// as RateLimitError. Individual quotes are not cached (explicitly requested
// prices are assumed to need near-real-time freshness).
type StockClient struct {
	api httpAPI
}

// NewStockClient creates the stock quote client. One instance is constructed
// at process start and injected everywhere it is needed.
func NewStockClient(baseURL string, timeout time.Duration) *StockClient {
	return &StockClient{api: newHTTPAPI(stockProviderName, baseURL, timeout)}
}

type stockQuoteResponse struct {
	Symbol             string  `json:"symbol"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	Currency           string  `json:"currency"`
	ExchangeName       string  `json:"exchangeName"`
}

type stockSearchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		Exchange  string `json:"exchange"`
		Currency  string `json:"currency"`
	} `json:"quotes"`
}

// Quote fetches the current price for one ticker symbol.
func (c *StockClient) Quote(ctx context.Context, symbol string) (*domain.PriceQuote, error) {
	query := url.Values{"symbol": {symbol}}
	var resp stockQuoteResponse
	if err := c.api.getJSON(ctx, "/quote", query, &resp); err != nil {
		return nil, err
	}
	return &domain.PriceQuote{
		Symbol:       resp.Symbol,
		Price:        resp.RegularMarketPrice,
		CurrencyCode: resp.Currency,
		ObservedAt:   time.Now(),
		Source:       domain.RateSourceAPI,
		ExchangeName: resp.ExchangeName,
	}, nil
}

// BatchQuotes fans out one Quote call per symbol and collects the successes.
// Symbols unknown to the upstream are simply absent from the result map; the
// caller decides how to report them. A top-level error is returned only when
// nothing at all could be fetched for a reason other than unknown symbols.
func (c *StockClient) BatchQuotes(ctx context.Context, symbols []string) (map[string]domain.PriceQuote, error) {
	quotes := make(map[string]domain.PriceQuote, len(symbols))
	var firstErr error

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			quote, err := c.Quote(ctx, symbol)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if !errors.Is(err, apperrors.ErrNotFound) && firstErr == nil {
					firstErr = err
				}
				return
			}
			quotes[symbol] = *quote
		}(symbol)
	}
	wg.Wait()

	if len(quotes) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return quotes, nil
}

// Search performs a free-text symbol lookup for UI autocomplete.
func (c *StockClient) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	params := url.Values{"q": {query}}
	var resp stockSearchResponse
	if err := c.api.getJSON(ctx, "/search", params, &resp); err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, 0, len(resp.Quotes))
	for _, q := range resp.Quotes {
		results = append(results, domain.SearchResult{
			Symbol:       q.Symbol,
			Name:         q.ShortName,
			ExchangeName: q.Exchange,
			CurrencyCode: q.Currency,
		})
	}
	return results, nil
}

// HealthCheck probes the quote endpoint with a well-known symbol.
func (c *StockClient) HealthCheck(ctx context.Context) domain.HealthStatus {
	latency, errMsg := c.api.probe(ctx, "/quote", url.Values{"symbol": {"AAPL"}})
	return domain.HealthStatus{
		Provider:  stockProviderName,
		Healthy:   errMsg == "",
		LatencyMS: latency,
		Error:     errMsg,
	}
}

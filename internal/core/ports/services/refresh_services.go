package services

import (
	"context"

	"github.com/nestfolio/nestfolio_backend/internal/core/domain"
)

// RefreshResult is the always-returned outcome of a price refresh. A refresh
// never escapes with an error: top-level failures become the sole entry of
// Errors with Updated == 0, and per-symbol misses become individual entries
// while the remaining accounts are still processed.
type RefreshResult struct {
	Updated int                `json:"updated"`
	Errors  []string           `json:"errors"`
	Prices  map[string]float64 `json:"prices"`
}

// Merge combines another result into this one.
func (r *RefreshResult) Merge(other RefreshResult) {
	r.Updated += other.Updated
	r.Errors = append(r.Errors, other.Errors...)
	for symbol, price := range other.Prices {
		r.Prices[symbol] = price
	}
}

// PriceRefreshSvcFacade batch-refreshes instrument prices for a household's
// stock and crypto accounts, updating balances and appending valuation rows.
type PriceRefreshSvcFacade interface {
	RefreshStockPrices(ctx context.Context, householdID string) RefreshResult
	RefreshCryptoPrices(ctx context.Context, householdID string) RefreshResult
	// RefreshAllPrices runs both refreshes concurrently and combines the
	// results; a failure in one half does not abort the other.
	RefreshAllPrices(ctx context.Context, householdID string) RefreshResult

	// ListValuationHistory returns an account's valuation rows, newest
	// first, up to limit rows.
	ListValuationHistory(ctx context.Context, accountID string, limit int) ([]domain.ValuationHistory, error)
}

package repositories

import (
	"context"

	"github.com/nestfolio/nestfolio_backend/internal/core/domain"
)

// StockHoldingRepository provides access to the stock detail rows backing
// STOCK accounts.
type StockHoldingRepository interface {
	// FindByAccountID retrieves the stock detail row for a single account.
	FindByAccountID(ctx context.Context, accountID string) (*domain.StockHolding, error)
	// UpdateCachedPrice stores the most recently fetched unit price on the detail row.
	UpdateCachedPrice(ctx context.Context, accountID string, price float64) error
}

// CryptoHoldingRepository provides access to the crypto detail rows backing
// CRYPTO accounts.
type CryptoHoldingRepository interface {
	FindByAccountID(ctx context.Context, accountID string) (*domain.CryptoHolding, error)
	UpdateCachedPrice(ctx context.Context, accountID string, price float64) error
}

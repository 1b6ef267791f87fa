package repositories

import (
	"context"
	"time"

	"github.com/nestfolio/nestfolio_backend/internal/core/domain"
)

// AccountReader defines the read operations the market-data core needs
// against the externally owned accounts table.
type AccountReader interface {
	// ListActiveByType retrieves all active accounts of one type for a household.
	ListActiveByType(ctx context.Context, householdID string, accountType domain.AccountType) ([]domain.Account, error)
}

// AccountBalanceWriter defines the only write this core may perform on an
// account: updating its current balance and updatedAt stamp.
type AccountBalanceWriter interface {
	UpdateBalance(ctx context.Context, accountID string, balance float64, updatedAt time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountBalanceWriter
}

package repositories

import (
	"context"

	"github.com/nestfolio/nestfolio_backend/internal/core/domain"
)

// ValuationHistoryWriter appends valuation rows. The valuation ledger is
// append-only from this core's point of view: no update or delete operation
// is exposed, and re-running a refresh on the same day inserts a second row
// for that date rather than replacing the first.
type ValuationHistoryWriter interface {
	Append(ctx context.Context, row domain.ValuationHistory) error
}

// ValuationHistoryReader reads valuation rows, newest first.
type ValuationHistoryReader interface {
	ListByAccountID(ctx context.Context, accountID string, limit int) ([]domain.ValuationHistory, error)
}

// ValuationHistoryRepositoryFacade combines valuation reader and writer.
type ValuationHistoryRepositoryFacade interface {
	ValuationHistoryReader
	ValuationHistoryWriter
}

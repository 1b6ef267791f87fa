package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/nestfolio/nestfolio_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider constructs all the pgsql adapters around one shared
// connection pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		AccountRepo:       NewAccountRepository(pool),
		StockHoldingRepo:  NewStockHoldingRepository(pool),
		CryptoHoldingRepo: NewCryptoHoldingRepository(pool),
		ValuationRepo:     NewValuationHistoryRepository(pool),
		SettingsRepo:      NewMarketSettingsRepository(pool),
	}
}

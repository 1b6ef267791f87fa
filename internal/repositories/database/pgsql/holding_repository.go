package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nestfolio/nestfolio_backend/internal/apperrors"
	"github.com/nestfolio/nestfolio_backend/internal/core/domain"
	portsrepo "github.com/nestfolio/nestfolio_backend/internal/core/ports/repositories"
)

type stockHoldingRepository struct {
	pool *pgxpool.Pool
}

// NewStockHoldingRepository creates the adapter for stock detail rows.
func NewStockHoldingRepository(pool *pgxpool.Pool) portsrepo.StockHoldingRepository {
	return &stockHoldingRepository{pool: pool}
}

func (r *stockHoldingRepository) FindByAccountID(ctx context.Context, accountID string) (*domain.StockHolding, error) {
	query := `
		SELECT account_id, ticker_symbol, quantity, cached_price
		FROM stock_holdings
		WHERE account_id = $1;
	`
	var holding domain.StockHolding
	err := r.pool.QueryRow(ctx, query, accountID).Scan(
		&holding.AccountID,
		&holding.TickerSymbol,
		&holding.Quantity,
		&holding.CachedPrice,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find stock holding for account %s: %w", accountID, mapNoRows(err, "stock holding"))
	}
	return &holding, nil
}

func (r *stockHoldingRepository) UpdateCachedPrice(ctx context.Context, accountID string, price float64) error {
	query := `UPDATE stock_holdings SET cached_price = $2 WHERE account_id = $1;`
	tag, err := r.pool.Exec(ctx, query, accountID, price)
	if err != nil {
		return fmt.Errorf("failed to update cached stock price for account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("stock holding for account " + accountID)
	}
	return nil
}

type cryptoHoldingRepository struct {
	pool *pgxpool.Pool
}

// NewCryptoHoldingRepository creates the adapter for crypto detail rows.
func NewCryptoHoldingRepository(pool *pgxpool.Pool) portsrepo.CryptoHoldingRepository {
	return &cryptoHoldingRepository{pool: pool}
}

func (r *cryptoHoldingRepository) FindByAccountID(ctx context.Context, accountID string) (*domain.CryptoHolding, error) {
	query := `
		SELECT account_id, coin_id, symbol, quantity, cached_price
		FROM crypto_holdings
		WHERE account_id = $1;
	`
	var holding domain.CryptoHolding
	err := r.pool.QueryRow(ctx, query, accountID).Scan(
		&holding.AccountID,
		&holding.CoinID,
		&holding.Symbol,
		&holding.Quantity,
		&holding.CachedPrice,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find crypto holding for account %s: %w", accountID, mapNoRows(err, "crypto holding"))
	}
	return &holding, nil
}

func (r *cryptoHoldingRepository) UpdateCachedPrice(ctx context.Context, accountID string, price float64) error {
	query := `UPDATE crypto_holdings SET cached_price = $2 WHERE account_id = $1;`
	tag, err := r.pool.Exec(ctx, query, accountID, price)
	if err != nil {
		return fmt.Errorf("failed to update cached crypto price for account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("crypto holding for account " + accountID)
	}
	return nil
}

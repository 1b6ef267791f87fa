package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nestfolio/nestfolio_backend/internal/apperrors"
	"github.com/nestfolio/nestfolio_backend/internal/core/domain"
	portsrepo "github.com/nestfolio/nestfolio_backend/internal/core/ports/repositories"
)

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates the accounts adapter. The accounts table is
// owned by the wider application; this adapter reads the fields the
// market-data core needs and writes only current_balance and updated_at.
func NewAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &accountRepository{pool: pool}
}

func (r *accountRepository) ListActiveByType(ctx context.Context, householdID string, accountType domain.AccountType) ([]domain.Account, error) {
	query := `
		SELECT account_id, household_id, name, account_type, currency_code, current_balance, is_active, updated_at
		FROM accounts
		WHERE household_id = $1 AND account_type = $2 AND is_active = TRUE;
	`
	rows, err := r.pool.Query(ctx, query, householdID, accountType)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s accounts for household %s: %w", accountType, householdID, err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var acc domain.Account
		if err := rows.Scan(
			&acc.AccountID,
			&acc.HouseholdID,
			&acc.Name,
			&acc.AccountType,
			&acc.CurrencyCode,
			&acc.CurrentBalance,
			&acc.IsActive,
			&acc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read account rows: %w", err)
	}
	return accounts, nil
}

func (r *accountRepository) UpdateBalance(ctx context.Context, accountID string, balance float64, updatedAt time.Time) error {
	query := `
		UPDATE accounts
		SET current_balance = $2, updated_at = $3
		WHERE account_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, accountID, balance, updatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + accountID)
	}
	return nil
}

// mapNoRows converts pgx.ErrNoRows into the shared not-found sentinel.
func mapNoRows(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError(what)
	}
	return err
}

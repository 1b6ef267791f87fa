package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nestfolio/nestfolio_backend/internal/core/domain"
	portsrepo "github.com/nestfolio/nestfolio_backend/internal/core/ports/repositories"
)

// valuationDateLayout is the wire format the domain uses for valuation dates.
// The column is a Postgres DATE, so the adapter converts at the boundary:
// pgx scans DATE into time.Time, not string.
const valuationDateLayout = "2006-01-02"

func parseValuationDate(s string) (time.Time, error) {
	t, err := time.Parse(valuationDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid valuation date %q: %w", s, err)
	}
	return t, nil
}

func formatValuationDate(t time.Time) string {
	return t.Format(valuationDateLayout)
}

type valuationHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewValuationHistoryRepository creates the adapter for the append-only
// valuation ledger.
func NewValuationHistoryRepository(pool *pgxpool.Pool) portsrepo.ValuationHistoryRepositoryFacade {
	return &valuationHistoryRepository{pool: pool}
}

// Append inserts one valuation row. This is an INSERT, never an upsert:
// two refreshes on the same day produce two rows for that date, keeping the
// full history for audit while display layers pick the latest.
func (r *valuationHistoryRepository) Append(ctx context.Context, row domain.ValuationHistory) error {
	date, err := parseValuationDate(row.Date)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO valuation_history (valuation_id, account_id, date, value, currency_code, source, underlying_price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = r.pool.Exec(ctx, query,
		row.ValuationID,
		row.AccountID,
		date,
		row.Value,
		row.CurrencyCode,
		row.Source,
		row.UnderlyingPrice,
		row.Quantity,
	)
	if err != nil {
		return fmt.Errorf("failed to append valuation for account %s: %w", row.AccountID, err)
	}
	return nil
}

func (r *valuationHistoryRepository) ListByAccountID(ctx context.Context, accountID string, limit int) ([]domain.ValuationHistory, error) {
	query := `
		SELECT valuation_id, account_id, date, value, currency_code, source, underlying_price, quantity
		FROM valuation_history
		WHERE account_id = $1
		ORDER BY date DESC, valuation_id DESC
		LIMIT $2;
	`
	rows, err := r.pool.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list valuations for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var valuations []domain.ValuationHistory
	for rows.Next() {
		var v domain.ValuationHistory
		var date time.Time
		if err := rows.Scan(
			&v.ValuationID,
			&v.AccountID,
			&date,
			&v.Value,
			&v.CurrencyCode,
			&v.Source,
			&v.UnderlyingPrice,
			&v.Quantity,
		); err != nil {
			return nil, fmt.Errorf("failed to scan valuation row: %w", err)
		}
		v.Date = formatValuationDate(date)
		valuations = append(valuations, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read valuation rows: %w", err)
	}
	return valuations, nil
}

package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nestfolio/nestfolio_backend/internal/core/domain"
	portsrepo "github.com/nestfolio/nestfolio_backend/internal/core/ports/repositories"
)

type marketSettingsRepository struct {
	pool *pgxpool.Pool
}

// NewMarketSettingsRepository creates the adapter for the household-scoped
// data-source settings record.
func NewMarketSettingsRepository(pool *pgxpool.Pool) portsrepo.MarketSettingsRepository {
	return &marketSettingsRepository{pool: pool}
}

func (r *marketSettingsRepository) FindByHouseholdID(ctx context.Context, householdID string) (*domain.MarketSettings, error) {
	query := `
		SELECT household_id, metals_api_key, last_sync_at
		FROM market_settings
		WHERE household_id = $1;
	`
	var settings domain.MarketSettings
	var apiKey *string
	err := r.pool.QueryRow(ctx, query, householdID).Scan(
		&settings.HouseholdID,
		&apiKey,
		&settings.LastSyncAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find market settings for household %s: %w", householdID, mapNoRows(err, "market settings"))
	}
	if apiKey != nil {
		settings.MetalsAPIKey = *apiKey
	}
	return &settings, nil
}

// TouchLastSync upserts the sync timestamp. Households start without a
// settings row, so the first refresh creates one rather than failing.
func (r *marketSettingsRepository) TouchLastSync(ctx context.Context, householdID string, syncedAt time.Time) error {
	query := `
		INSERT INTO market_settings (household_id, last_sync_at)
		VALUES ($1, $2)
		ON CONFLICT (household_id) DO UPDATE SET last_sync_at = EXCLUDED.last_sync_at;
	`
	if _, err := r.pool.Exec(ctx, query, householdID, syncedAt.UTC()); err != nil {
		return fmt.Errorf("failed to stamp last sync for household %s: %w", householdID, err)
	}
	return nil
}

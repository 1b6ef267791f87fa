package repositories

import (
	"context"
	"time"

	"github.com/nestfolio/nestfolio_backend/internal/core/domain"
)

// MarketSettingsRepository provides the household-scoped data-source settings
// record. The refresh service only stamps LastSyncAt after a successful run;
// per-household API keys are read for metals only (stock/crypto/fiat upstreams
// are keyless).
type MarketSettingsRepository interface {
	FindByHouseholdID(ctx context.Context, householdID string) (*domain.MarketSettings, error)
	TouchLastSync(ctx context.Context, householdID string, syncedAt time.Time) error
}

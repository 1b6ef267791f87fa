package services

import (
	"context"
	"errors"

	"github.com/nestfolio/nestfolio_backend/internal/apperrors"
	"github.com/nestfolio/nestfolio_backend/internal/core/domain"
	portsrepo "github.com/nestfolio/nestfolio_backend/internal/core/ports/repositories"
	portssvc "github.com/nestfolio/nestfolio_backend/internal/core/ports/services"
)

// MetalPriceService resolves metal spot prices per household. When the
// household has stored its own upstream API key the quote is fetched with
// that key; otherwise the process-wide default key is used. A household
// without a settings row is treated the same as one without a key.
type MetalPriceService struct {
	settings portsrepo.MarketSettingsRepository
	quoter   portssvc.MetalQuoter
}

func NewMetalPriceService(settings portsrepo.MarketSettingsRepository, quoter portssvc.MetalQuoter) *MetalPriceService {
	return &MetalPriceService{settings: settings, quoter: quoter}
}

var _ portssvc.MetalPriceSvcFacade = (*MetalPriceService)(nil)

func (s *MetalPriceService) Price(ctx context.Context, householdID, metal, currency, unit string) (*domain.PriceQuote, error) {
	quoter, err := s.quoterFor(ctx, householdID)
	if err != nil {
		return nil, err
	}
	return quoter.Price(ctx, metal, currency, unit)
}

func (s *MetalPriceService) quoterFor(ctx context.Context, householdID string) (portssvc.MetalQuoter, error) {
	settings, err := s.settings.FindByHouseholdID(ctx, householdID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.quoter, nil
		}
		return nil, err
	}
	if settings.MetalsAPIKey == "" {
		return s.quoter, nil
	}
	return s.quoter.WithAPIKey(settings.MetalsAPIKey), nil
}

// HealthCheck probes the upstream with the default key.
func (s *MetalPriceService) HealthCheck(ctx context.Context) domain.HealthStatus {
	return s.quoter.HealthCheck(ctx)
}

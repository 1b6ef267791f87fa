package services

import (
	portsrepo "github.com/nestfolio/nestfolio_backend/internal/core/ports/repositories"
	portssvc "github.com/nestfolio/nestfolio_backend/internal/core/ports/services"
)

// NewContainer wires the market-data services from their injected
// dependencies. Every client and service is constructed exactly once here
// and reused for the process lifetime.
func NewContainer(
	repos *portsrepo.RepositoryProvider,
	stocks portssvc.StockQuoter,
	crypto portssvc.CryptoQuoter,
	fiat portssvc.FiatRateSource,
	metals portssvc.MetalQuoter,
) *portssvc.ServiceContainer {
	converter := NewCurrencyConverter(fiat)
	return &portssvc.ServiceContainer{
		Converter: converter,
		Refresh:   NewPriceRefreshService(repos, stocks, crypto, converter),
		Stocks:    stocks,
		Crypto:    crypto,
		Fiat:      fiat,
		Metals:    NewMetalPriceService(repos.SettingsRepo, metals),
	}
}

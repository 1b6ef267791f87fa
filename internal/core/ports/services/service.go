package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Converter CurrencyConverterSvcFacade
	Refresh   PriceRefreshSvcFacade

	// Source clients are exposed for the search and provider-health
	// endpoints; everything else reaches them through the services above.
	Stocks StockQuoter
	Crypto CryptoQuoter
	Fiat   FiatRateSource
	Metals MetalPriceSvcFacade
}

package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nestfolio/nestfolio_backend/internal/core/domain"
	portsrepo "github.com/nestfolio/nestfolio_backend/internal/core/ports/repositories"
	portssvc "github.com/nestfolio/nestfolio_backend/internal/core/ports/services"
	"github.com/nestfolio/nestfolio_backend/internal/platform/metrics"
	"github.com/shopspring/decimal"
)

// PriceRefreshService batch-refreshes instrument prices for a household.
// Every public method always returns a result object: top-level failures
// (network, repository) become the sole error entry with Updated == 0, and
// a missing quote for one symbol is a per-item error entry while the rest
// of the accounts are still processed.
type PriceRefreshService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	stockRepo   portsrepo.StockHoldingRepository
	cryptoRepo  portsrepo.CryptoHoldingRepository
	valuations  portsrepo.ValuationHistoryRepositoryFacade
	settings    portsrepo.MarketSettingsRepository
	stocks      portssvc.StockQuoter
	crypto      portssvc.CryptoQuoter
	converter   portssvc.CurrencyConverterSvcFacade

	now func() time.Time
}

// NewPriceRefreshService creates the refresh service. Clients and
// repositories are constructed once at process start and injected.
func NewPriceRefreshService(
	repos *portsrepo.RepositoryProvider,
	stocks portssvc.StockQuoter,
	crypto portssvc.CryptoQuoter,
	converter portssvc.CurrencyConverterSvcFacade,
) *PriceRefreshService {
	return &PriceRefreshService{
		accountRepo: repos.AccountRepo,
		stockRepo:   repos.StockHoldingRepo,
		cryptoRepo:  repos.CryptoHoldingRepo,
		valuations:  repos.ValuationRepo,
		settings:    repos.SettingsRepo,
		stocks:      stocks,
		crypto:      crypto,
		converter:   converter,
		now:         time.Now,
	}
}

var _ portssvc.PriceRefreshSvcFacade = (*PriceRefreshService)(nil)

// refreshable is one account paired with its upstream identifier and held
// quantity, produced by the per-type detail-row load.
type refreshable struct {
	account    domain.Account
	identifier string
	quantity   float64
	setPrice   func(ctx context.Context, price float64) error
}

// RefreshStockPrices refreshes every active stock account of a household.
func (s *PriceRefreshService) RefreshStockPrices(ctx context.Context, householdID string) portssvc.RefreshResult {
	return s.refresh(ctx, householdID, "stock", s.loadStockRefreshables, func(ctx context.Context, symbols []string) (map[string]domain.PriceQuote, error) {
		return s.stocks.BatchQuotes(ctx, symbols)
	})
}

// RefreshCryptoPrices refreshes every active crypto account of a household.
func (s *PriceRefreshService) RefreshCryptoPrices(ctx context.Context, householdID string) portssvc.RefreshResult {
	return s.refresh(ctx, householdID, "crypto", s.loadCryptoRefreshables, func(ctx context.Context, coinIDs []string) (map[string]domain.PriceQuote, error) {
		return s.crypto.BatchQuotes(ctx, coinIDs, "USD")
	})
}

// RefreshAllPrices runs the stock and crypto refreshes concurrently and
// combines their results. The two halves are independent: a failure in one
// neither aborts nor rolls back the other.
func (s *PriceRefreshService) RefreshAllPrices(ctx context.Context, householdID string) portssvc.RefreshResult {
	var stockResult, cryptoResult portssvc.RefreshResult

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		stockResult = s.RefreshStockPrices(ctx, householdID)
	}()
	go func() {
		defer wg.Done()
		cryptoResult = s.RefreshCryptoPrices(ctx, householdID)
	}()
	wg.Wait()

	combined := portssvc.RefreshResult{Errors: []string{}, Prices: map[string]float64{}}
	combined.Merge(stockResult)
	combined.Merge(cryptoResult)
	return combined
}

// ListValuationHistory returns an account's valuation rows, newest first.
// A limit outside 1..365 is clamped to the default window.
func (s *PriceRefreshService) ListValuationHistory(ctx context.Context, accountID string, limit int) ([]domain.ValuationHistory, error) {
	if limit < 1 || limit > 365 {
		limit = 90
	}
	return s.valuations.ListByAccountID(ctx, accountID, limit)
}

// refresh is the shared per-instrument-type algorithm: load accounts, load
// detail rows concurrently, deduplicate identifiers, issue one batched quote
// request, then update each account that received a quote.
func (s *PriceRefreshService) refresh(
	ctx context.Context,
	householdID string,
	instrumentType string,
	load func(ctx context.Context, householdID string) ([]refreshable, error),
	batchQuotes func(ctx context.Context, identifiers []string) (map[string]domain.PriceQuote, error),
) portssvc.RefreshResult {
	result := portssvc.RefreshResult{Errors: []string{}, Prices: map[string]float64{}}

	holdings, err := load(ctx, householdID)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		metrics.RefreshErrors.WithLabelValues(instrumentType).Inc()
		return result
	}
	if len(holdings) == 0 {
		return result
	}

	seen := map[string]bool{}
	identifiers := make([]string, 0, len(holdings))
	for _, h := range holdings {
		if !seen[h.identifier] {
			seen[h.identifier] = true
			identifiers = append(identifiers, h.identifier)
		}
	}

	quotes, err := batchQuotes(ctx, identifiers)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		metrics.RefreshErrors.WithLabelValues(instrumentType).Inc()
		return result
	}

	today := s.now().Format("2006-01-02")
	for _, h := range holdings {
		quote, ok := quotes[h.identifier]
		if !ok {
			// Unknown symbol or the upstream omitted it: record and move
			// on, leaving this account's balance untouched.
			result.Errors = append(result.Errors, fmt.Sprintf("no quote for %s", h.identifier))
			metrics.RefreshErrors.WithLabelValues(instrumentType).Inc()
			continue
		}

		if err := s.applyQuote(ctx, h, quote, today); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("update account %s: %v", h.account.AccountID, err))
			metrics.RefreshErrors.WithLabelValues(instrumentType).Inc()
			continue
		}

		result.Updated++
		result.Prices[h.identifier] = quote.Price
		metrics.RefreshAccountsUpdated.WithLabelValues(instrumentType).Inc()
	}

	if result.Updated > 0 {
		if err := s.settings.TouchLastSync(ctx, householdID, s.now()); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("stamp last sync: %v", err))
		}
	}
	return result
}

// applyQuote writes one refreshed account: the detail row's cached price,
// the account balance, and one appended valuation row dated today. The
// valuation insert is deliberately not an upsert; re-running a refresh on
// the same day produces a second row for that date.
//
// Quotes arrive in the upstream's currency (USD for crypto). When that
// differs from the account's currency the unit price is converted first,
// so the cached price, balance, and valuation all carry amounts in the
// account's own currency.
func (s *PriceRefreshService) applyQuote(ctx context.Context, h refreshable, quote domain.PriceQuote, today string) error {
	price := quote.Price
	if quote.CurrencyCode != "" && quote.CurrencyCode != h.account.CurrencyCode {
		converted, err := s.converter.Convert(ctx, price, quote.CurrencyCode, h.account.CurrencyCode)
		if err != nil {
			return fmt.Errorf("convert %s to %s: %w", quote.CurrencyCode, h.account.CurrencyCode, err)
		}
		price = converted.ConvertedAmount
	}

	value := decimal.NewFromFloat(h.quantity).
		Mul(decimal.NewFromFloat(price)).
		InexactFloat64()

	if err := h.setPrice(ctx, price); err != nil {
		return err
	}
	if err := s.accountRepo.UpdateBalance(ctx, h.account.AccountID, value, s.now()); err != nil {
		return err
	}

	quantity := h.quantity
	return s.valuations.Append(ctx, domain.ValuationHistory{
		ValuationID:     uuid.NewString(),
		AccountID:       h.account.AccountID,
		Date:            today,
		Value:           value,
		CurrencyCode:    h.account.CurrencyCode,
		Source:          domain.ValuationSourceAPI,
		UnderlyingPrice: &price,
		Quantity:        &quantity,
	})
}

// loadStockRefreshables lists the household's active stock accounts and
// fans out their detail-row lookups concurrently.
func (s *PriceRefreshService) loadStockRefreshables(ctx context.Context, householdID string) ([]refreshable, error) {
	accounts, err := s.accountRepo.ListActiveByType(ctx, householdID, domain.AccountTypeStock)
	if err != nil {
		return nil, fmt.Errorf("list stock accounts: %w", err)
	}
	return s.loadDetails(ctx, accounts, func(ctx context.Context, account domain.Account) (refreshable, error) {
		holding, err := s.stockRepo.FindByAccountID(ctx, account.AccountID)
		if err != nil {
			return refreshable{}, err
		}
		accountID := account.AccountID
		return refreshable{
			account:    account,
			identifier: holding.TickerSymbol,
			quantity:   holding.Quantity,
			setPrice: func(ctx context.Context, price float64) error {
				return s.stockRepo.UpdateCachedPrice(ctx, accountID, price)
			},
		}, nil
	})
}

// loadCryptoRefreshables mirrors loadStockRefreshables for crypto accounts.
func (s *PriceRefreshService) loadCryptoRefreshables(ctx context.Context, householdID string) ([]refreshable, error) {
	accounts, err := s.accountRepo.ListActiveByType(ctx, householdID, domain.AccountTypeCrypto)
	if err != nil {
		return nil, fmt.Errorf("list crypto accounts: %w", err)
	}
	return s.loadDetails(ctx, accounts, func(ctx context.Context, account domain.Account) (refreshable, error) {
		holding, err := s.cryptoRepo.FindByAccountID(ctx, account.AccountID)
		if err != nil {
			return refreshable{}, err
		}
		accountID := account.AccountID
		return refreshable{
			account:    account,
			identifier: holding.CoinID,
			quantity:   holding.Quantity,
			setPrice: func(ctx context.Context, price float64) error {
				return s.cryptoRepo.UpdateCachedPrice(ctx, accountID, price)
			},
		}, nil
	})
}

// loadDetails issues the per-account detail lookups concurrently and awaits
// them all before the batched quote request. Any lookup failure aborts the
// whole load; the caller reports it as the run's sole error.
func (s *PriceRefreshService) loadDetails(
	ctx context.Context,
	accounts []domain.Account,
	loadOne func(ctx context.Context, account domain.Account) (refreshable, error),
) ([]refreshable, error) {
	refreshables := make([]refreshable, len(accounts))
	errs := make([]error, len(accounts))

	var wg sync.WaitGroup
	for i, account := range accounts {
		wg.Add(1)
		go func(i int, account domain.Account) {
			defer wg.Done()
			refreshables[i], errs[i] = loadOne(ctx, account)
		}(i, account)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("load holding for account %s: %w", accounts[i].AccountID, err)
		}
	}
	return refreshables, nil
}

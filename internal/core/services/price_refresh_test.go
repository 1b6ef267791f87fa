package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nestfolio/nestfolio_backend/internal/core/domain"
	portsrepo "github.com/nestfolio/nestfolio_backend/internal/core/ports/repositories"
	"github.com/nestfolio/nestfolio_backend/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock repositories ---

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) ListActiveByType(ctx context.Context, householdID string, accountType domain.AccountType) ([]domain.Account, error) {
	args := m.Called(ctx, householdID, accountType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, accountID string, balance float64, updatedAt time.Time) error {
	args := m.Called(ctx, accountID, balance, updatedAt)
	return args.Error(0)
}

type MockStockHoldingRepository struct {
	mock.Mock
}

func (m *MockStockHoldingRepository) FindByAccountID(ctx context.Context, accountID string) (*domain.StockHolding, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockHolding), args.Error(1)
}

func (m *MockStockHoldingRepository) UpdateCachedPrice(ctx context.Context, accountID string, price float64) error {
	args := m.Called(ctx, accountID, price)
	return args.Error(0)
}

type MockCryptoHoldingRepository struct {
	mock.Mock
}

func (m *MockCryptoHoldingRepository) FindByAccountID(ctx context.Context, accountID string) (*domain.CryptoHolding, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CryptoHolding), args.Error(1)
}

func (m *MockCryptoHoldingRepository) UpdateCachedPrice(ctx context.Context, accountID string, price float64) error {
	args := m.Called(ctx, accountID, price)
	return args.Error(0)
}

type MockValuationRepository struct {
	mock.Mock
}

func (m *MockValuationRepository) Append(ctx context.Context, row domain.ValuationHistory) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockValuationRepository) ListByAccountID(ctx context.Context, accountID string, limit int) ([]domain.ValuationHistory, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ValuationHistory), args.Error(1)
}

type MockMarketSettingsRepository struct {
	mock.Mock
}

func (m *MockMarketSettingsRepository) FindByHouseholdID(ctx context.Context, householdID string) (*domain.MarketSettings, error) {
	args := m.Called(ctx, householdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MarketSettings), args.Error(1)
}

func (m *MockMarketSettingsRepository) TouchLastSync(ctx context.Context, householdID string, syncedAt time.Time) error {
	args := m.Called(ctx, householdID, syncedAt)
	return args.Error(0)
}

// --- Mock quoters ---

type MockStockQuoter struct {
	mock.Mock
}

func (m *MockStockQuoter) Quote(ctx context.Context, symbol string) (*domain.PriceQuote, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PriceQuote), args.Error(1)
}

func (m *MockStockQuoter) BatchQuotes(ctx context.Context, symbols []string) (map[string]domain.PriceQuote, error) {
	args := m.Called(ctx, symbols)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.PriceQuote), args.Error(1)
}

func (m *MockStockQuoter) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SearchResult), args.Error(1)
}

func (m *MockStockQuoter) HealthCheck(ctx context.Context) domain.HealthStatus {
	args := m.Called(ctx)
	return args.Get(0).(domain.HealthStatus)
}

type MockCryptoQuoter struct {
	mock.Mock
}

func (m *MockCryptoQuoter) Quote(ctx context.Context, coinID, currency string) (*domain.PriceQuote, error) {
	args := m.Called(ctx, coinID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PriceQuote), args.Error(1)
}

func (m *MockCryptoQuoter) BatchQuotes(ctx context.Context, coinIDs []string, currency string) (map[string]domain.PriceQuote, error) {
	args := m.Called(ctx, coinIDs, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.PriceQuote), args.Error(1)
}

func (m *MockCryptoQuoter) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SearchResult), args.Error(1)
}

func (m *MockCryptoQuoter) HealthCheck(ctx context.Context) domain.HealthStatus {
	args := m.Called(ctx)
	return args.Get(0).(domain.HealthStatus)
}

// --- Test Suite ---

type PriceRefreshServiceTestSuite struct {
	suite.Suite
	accountRepo *MockAccountRepository
	stockRepo   *MockStockHoldingRepository
	cryptoRepo  *MockCryptoHoldingRepository
	valuations  *MockValuationRepository
	settings    *MockMarketSettingsRepository
	stocks      *MockStockQuoter
	crypto      *MockCryptoQuoter
	fiat        *MockFiatRateSource
	service     *services.PriceRefreshService
}

func (suite *PriceRefreshServiceTestSuite) SetupTest() {
	suite.accountRepo = new(MockAccountRepository)
	suite.stockRepo = new(MockStockHoldingRepository)
	suite.cryptoRepo = new(MockCryptoHoldingRepository)
	suite.valuations = new(MockValuationRepository)
	suite.settings = new(MockMarketSettingsRepository)
	suite.stocks = new(MockStockQuoter)
	suite.crypto = new(MockCryptoQuoter)
	suite.fiat = new(MockFiatRateSource)

	repos := &portsrepo.RepositoryProvider{
		AccountRepo:       suite.accountRepo,
		StockHoldingRepo:  suite.stockRepo,
		CryptoHoldingRepo: suite.cryptoRepo,
		ValuationRepo:     suite.valuations,
		SettingsRepo:      suite.settings,
	}
	converter := services.NewCurrencyConverter(suite.fiat)
	suite.service = services.NewPriceRefreshService(repos, suite.stocks, suite.crypto, converter)
}

func stockAccount(id, symbol string) (domain.Account, *domain.StockHolding) {
	account := domain.Account{
		AccountID:    id,
		HouseholdID:  "hh1",
		AccountType:  domain.AccountTypeStock,
		CurrencyCode: "USD",
		IsActive:     true,
	}
	holding := &domain.StockHolding{AccountID: id, TickerSymbol: symbol, Quantity: 2}
	return account, holding
}

func stockQuote(symbol string, price float64) domain.PriceQuote {
	return domain.PriceQuote{
		Symbol:       symbol,
		Price:        price,
		CurrencyCode: "USD",
		ObservedAt:   time.Now(),
		Source:       domain.RateSourceAPI,
	}
}

func (suite *PriceRefreshServiceTestSuite) TestRefreshStockPrices_PartialSuccess() {
	ctx := context.Background()
	acc1, h1 := stockAccount("a1", "AAPL")
	acc2, h2 := stockAccount("a2", "MSFT")
	acc3, h3 := stockAccount("a3", "ZCORP")

	suite.accountRepo.On("ListActiveByType", mock.Anything, "hh1", domain.AccountTypeStock).
		Return([]domain.Account{acc1, acc2, acc3}, nil).Once()
	suite.stockRepo.On("FindByAccountID", mock.Anything, "a1").Return(h1, nil).Once()
	suite.stockRepo.On("FindByAccountID", mock.Anything, "a2").Return(h2, nil).Once()
	suite.stockRepo.On("FindByAccountID", mock.Anything, "a3").Return(h3, nil).Once()

	// The upstream knows two of the three symbols.
	suite.stocks.On("BatchQuotes", mock.Anything, []string{"AAPL", "MSFT", "ZCORP"}).
		Return(map[string]domain.PriceQuote{
			"AAPL": stockQuote("AAPL", 190),
			"MSFT": stockQuote("MSFT", 420),
		}, nil).Once()

	suite.stockRepo.On("UpdateCachedPrice", mock.Anything, "a1", 190.0).Return(nil).Once()
	suite.stockRepo.On("UpdateCachedPrice", mock.Anything, "a2", 420.0).Return(nil).Once()
	suite.accountRepo.On("UpdateBalance", mock.Anything, "a1", 380.0, mock.Anything).Return(nil).Once()
	suite.accountRepo.On("UpdateBalance", mock.Anything, "a2", 840.0, mock.Anything).Return(nil).Once()

	today := time.Now().Format("2006-01-02")
	suite.valuations.On("Append", mock.Anything, mock.MatchedBy(func(row domain.ValuationHistory) bool {
		return row.Date == today && row.Source == domain.ValuationSourceAPI
	})).Return(nil).Twice()
	suite.settings.On("TouchLastSync", mock.Anything, "hh1", mock.Anything).Return(nil).Once()

	result := suite.service.RefreshStockPrices(ctx, "hh1")

	suite.Equal(2, result.Updated)
	suite.Require().Len(result.Errors, 1)
	suite.Contains(result.Errors[0], "ZCORP")
	suite.Equal(190.0, result.Prices["AAPL"])
	suite.Equal(420.0, result.Prices["MSFT"])

	// The account with the unknown symbol is untouched.
	suite.accountRepo.AssertNumberOfCalls(suite.T(), "UpdateBalance", 2)
	suite.accountRepo.AssertExpectations(suite.T())
	suite.stockRepo.AssertExpectations(suite.T())
	suite.valuations.AssertExpectations(suite.T())
	suite.settings.AssertExpectations(suite.T())
}

func (suite *PriceRefreshServiceTestSuite) TestRefreshStockPrices_TopLevelFailure() {
	ctx := context.Background()
	suite.accountRepo.On("ListActiveByType", mock.Anything, "hh1", domain.AccountTypeStock).
		Return(nil, errors.New("connection refused")).Once()

	result := suite.service.RefreshStockPrices(ctx, "hh1")

	suite.Equal(0, result.Updated)
	suite.Require().Len(result.Errors, 1)
	suite.Contains(result.Errors[0], "connection refused")
	suite.valuations.AssertNotCalled(suite.T(), "Append")
	suite.settings.AssertNotCalled(suite.T(), "TouchLastSync")
}

func (suite *PriceRefreshServiceTestSuite) TestRefreshStockPrices_BatchFailureIsSoleError() {
	ctx := context.Background()
	acc1, h1 := stockAccount("a1", "AAPL")

	suite.accountRepo.On("ListActiveByType", mock.Anything, "hh1", domain.AccountTypeStock).
		Return([]domain.Account{acc1}, nil).Once()
	suite.stockRepo.On("FindByAccountID", mock.Anything, "a1").Return(h1, nil).Once()
	suite.stocks.On("BatchQuotes", mock.Anything, []string{"AAPL"}).
		Return(nil, errors.New("stocks: upstream returned status 503")).Once()

	result := suite.service.RefreshStockPrices(ctx, "hh1")

	suite.Equal(0, result.Updated)
	suite.Require().Len(result.Errors, 1)
	suite.Contains(result.Errors[0], "503")
	suite.accountRepo.AssertNotCalled(suite.T(), "UpdateBalance")
}

func (suite *PriceRefreshServiceTestSuite) TestRefreshStockPrices_NoAccounts() {
	ctx := context.Background()
	suite.accountRepo.On("ListActiveByType", mock.Anything, "hh1", domain.AccountTypeStock).
		Return([]domain.Account{}, nil).Once()

	result := suite.service.RefreshStockPrices(ctx, "hh1")

	suite.Equal(0, result.Updated)
	suite.Empty(result.Errors)
	suite.stocks.AssertNotCalled(suite.T(), "BatchQuotes")
}

func (suite *PriceRefreshServiceTestSuite) TestRefreshCryptoPrices_SameDayRerunAppendsSecondRow() {
	ctx := context.Background()
	account := domain.Account{
		AccountID:    "c1",
		HouseholdID:  "hh1",
		AccountType:  domain.AccountTypeCrypto,
		CurrencyCode: "USD",
		IsActive:     true,
	}
	holding := &domain.CryptoHolding{AccountID: "c1", CoinID: "bitcoin", Symbol: "BTC", Quantity: 0.5}

	suite.accountRepo.On("ListActiveByType", mock.Anything, "hh1", domain.AccountTypeCrypto).
		Return([]domain.Account{account}, nil).Twice()
	suite.cryptoRepo.On("FindByAccountID", mock.Anything, "c1").Return(holding, nil).Twice()

	quote1 := domain.PriceQuote{Symbol: "bitcoin", Price: 60000, CurrencyCode: "USD", Source: domain.RateSourceAPI}
	quote2 := domain.PriceQuote{Symbol: "bitcoin", Price: 61000, CurrencyCode: "USD", Source: domain.RateSourceAPI}
	suite.crypto.On("BatchQuotes", mock.Anything, []string{"bitcoin"}, "USD").
		Return(map[string]domain.PriceQuote{"bitcoin": quote1}, nil).Once()
	suite.crypto.On("BatchQuotes", mock.Anything, []string{"bitcoin"}, "USD").
		Return(map[string]domain.PriceQuote{"bitcoin": quote2}, nil).Once()

	suite.cryptoRepo.On("UpdateCachedPrice", mock.Anything, "c1", 60000.0).Return(nil).Once()
	suite.cryptoRepo.On("UpdateCachedPrice", mock.Anything, "c1", 61000.0).Return(nil).Once()
	suite.accountRepo.On("UpdateBalance", mock.Anything, "c1", 30000.0, mock.Anything).Return(nil).Once()
	suite.accountRepo.On("UpdateBalance", mock.Anything, "c1", 30500.0, mock.Anything).Return(nil).Once()

	today := time.Now().Format("2006-01-02")
	suite.valuations.On("Append", mock.Anything, mock.MatchedBy(func(row domain.ValuationHistory) bool {
		return row.AccountID == "c1" && row.Date == today
	})).Return(nil).Twice()
	suite.settings.On("TouchLastSync", mock.Anything, "hh1", mock.Anything).Return(nil).Twice()

	first := suite.service.RefreshCryptoPrices(ctx, "hh1")
	second := suite.service.RefreshCryptoPrices(ctx, "hh1")

	suite.Equal(1, first.Updated)
	suite.Equal(1, second.Updated)
	// Two valuation rows for today; the balance reflects the later run.
	suite.valuations.AssertNumberOfCalls(suite.T(), "Append", 2)
	suite.accountRepo.AssertExpectations(suite.T())
	suite.valuations.AssertExpectations(suite.T())
}

func (suite *PriceRefreshServiceTestSuite) TestRefreshCryptoPrices_ConvertsQuoteToAccountCurrency() {
	ctx := context.Background()
	account := domain.Account{
		AccountID:    "c1",
		HouseholdID:  "hh1",
		AccountType:  domain.AccountTypeCrypto,
		CurrencyCode: "EUR",
		IsActive:     true,
	}
	holding := &domain.CryptoHolding{AccountID: "c1", CoinID: "bitcoin", Symbol: "BTC", Quantity: 0.5}

	suite.accountRepo.On("ListActiveByType", mock.Anything, "hh1", domain.AccountTypeCrypto).
		Return([]domain.Account{account}, nil).Once()
	suite.cryptoRepo.On("FindByAccountID", mock.Anything, "c1").Return(holding, nil).Once()

	// The quote arrives in USD; the account keeps its books in EUR.
	quote := domain.PriceQuote{Symbol: "bitcoin", Price: 60000, CurrencyCode: "USD", Source: domain.RateSourceAPI}
	suite.crypto.On("BatchQuotes", mock.Anything, []string{"bitcoin"}, "USD").
		Return(map[string]domain.PriceQuote{"bitcoin": quote}, nil).Once()
	suite.fiat.On("Rates", mock.Anything, "USD", []string{"EUR"}).
		Return(map[string]float64{"EUR": 0.92}, nil).Once()

	suite.cryptoRepo.On("UpdateCachedPrice", mock.Anything, "c1", 55200.0).Return(nil).Once()
	suite.accountRepo.On("UpdateBalance", mock.Anything, "c1", 27600.0, mock.Anything).Return(nil).Once()
	suite.valuations.On("Append", mock.Anything, mock.MatchedBy(func(row domain.ValuationHistory) bool {
		return row.CurrencyCode == "EUR" && row.Value == 27600.0 && *row.UnderlyingPrice == 55200.0
	})).Return(nil).Once()
	suite.settings.On("TouchLastSync", mock.Anything, "hh1", mock.Anything).Return(nil).Once()

	result := suite.service.RefreshCryptoPrices(ctx, "hh1")

	suite.Equal(1, result.Updated)
	suite.Empty(result.Errors)
	suite.accountRepo.AssertExpectations(suite.T())
	suite.cryptoRepo.AssertExpectations(suite.T())
	suite.valuations.AssertExpectations(suite.T())
	suite.fiat.AssertExpectations(suite.T())
}

func (suite *PriceRefreshServiceTestSuite) TestRefreshStockPrices_CleanRunHasNoErrors() {
	ctx := context.Background()
	acc1, h1 := stockAccount("a1", "AAPL")

	suite.accountRepo.On("ListActiveByType", mock.Anything, "hh1", domain.AccountTypeStock).
		Return([]domain.Account{acc1}, nil).Once()
	suite.stockRepo.On("FindByAccountID", mock.Anything, "a1").Return(h1, nil).Once()
	suite.stocks.On("BatchQuotes", mock.Anything, []string{"AAPL"}).
		Return(map[string]domain.PriceQuote{"AAPL": stockQuote("AAPL", 190)}, nil).Once()
	suite.stockRepo.On("UpdateCachedPrice", mock.Anything, "a1", 190.0).Return(nil).Once()
	suite.accountRepo.On("UpdateBalance", mock.Anything, "a1", 380.0, mock.Anything).Return(nil).Once()
	suite.valuations.On("Append", mock.Anything, mock.Anything).Return(nil).Once()

	// The sync stamp upserts, so a household that has never stored a
	// settings row still finishes without an error entry.
	suite.settings.On("TouchLastSync", mock.Anything, "hh1", mock.Anything).Return(nil).Once()

	result := suite.service.RefreshStockPrices(ctx, "hh1")

	suite.Equal(1, result.Updated)
	suite.Empty(result.Errors)
	suite.settings.AssertExpectations(suite.T())
}

func (suite *PriceRefreshServiceTestSuite) TestRefreshAllPrices_HalvesAreIndependent() {
	ctx := context.Background()
	acc1, h1 := stockAccount("a1", "AAPL")

	suite.accountRepo.On("ListActiveByType", mock.Anything, "hh1", domain.AccountTypeStock).
		Return([]domain.Account{acc1}, nil).Once()
	suite.stockRepo.On("FindByAccountID", mock.Anything, "a1").Return(h1, nil).Once()
	suite.stocks.On("BatchQuotes", mock.Anything, []string{"AAPL"}).
		Return(map[string]domain.PriceQuote{"AAPL": stockQuote("AAPL", 190)}, nil).Once()
	suite.stockRepo.On("UpdateCachedPrice", mock.Anything, "a1", 190.0).Return(nil).Once()
	suite.accountRepo.On("UpdateBalance", mock.Anything, "a1", 380.0, mock.Anything).Return(nil).Once()
	suite.valuations.On("Append", mock.Anything, mock.Anything).Return(nil).Once()
	suite.settings.On("TouchLastSync", mock.Anything, "hh1", mock.Anything).Return(nil).Once()

	// The crypto half fails outright; the stock half still completes.
	suite.accountRepo.On("ListActiveByType", mock.Anything, "hh1", domain.AccountTypeCrypto).
		Return(nil, errors.New("crypto accounts unavailable")).Once()

	result := suite.service.RefreshAllPrices(ctx, "hh1")

	suite.Equal(1, result.Updated)
	suite.Require().Len(result.Errors, 1)
	suite.Contains(result.Errors[0], "crypto accounts unavailable")
	suite.Equal(190.0, result.Prices["AAPL"])
}

func (suite *PriceRefreshServiceTestSuite) TestListValuationHistory_ClampsLimit() {
	ctx := context.Background()
	rows := []domain.ValuationHistory{
		{ValuationID: "v2", AccountID: "a1", Date: "2026-08-31", Value: 840},
		{ValuationID: "v1", AccountID: "a1", Date: "2026-08-31", Value: 820},
	}
	suite.valuations.On("ListByAccountID", mock.Anything, "a1", 90).Return(rows, nil).Twice()
	suite.valuations.On("ListByAccountID", mock.Anything, "a1", 30).Return(rows, nil).Once()

	// Out-of-range limits fall back to the default window.
	got, err := suite.service.ListValuationHistory(ctx, "a1", 0)
	suite.Require().NoError(err)
	suite.Len(got, 2)

	_, err = suite.service.ListValuationHistory(ctx, "a1", 5000)
	suite.Require().NoError(err)

	_, err = suite.service.ListValuationHistory(ctx, "a1", 30)
	suite.Require().NoError(err)
	suite.valuations.AssertExpectations(suite.T())
}

func TestPriceRefreshService(t *testing.T) {
	suite.Run(t, new(PriceRefreshServiceTestSuite))
}

package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/nestfolio/nestfolio_backend/internal/apperrors"
	"github.com/nestfolio/nestfolio_backend/internal/core/domain"
	portssvc "github.com/nestfolio/nestfolio_backend/internal/core/ports/services"
	"github.com/nestfolio/nestfolio_backend/internal/dto"
	"github.com/nestfolio/nestfolio_backend/internal/handlers"
	"github.com/nestfolio/nestfolio_backend/internal/middleware"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock CurrencyConverterService ---
type MockCurrencyConverterService struct {
	mock.Mock
}

func (m *MockCurrencyConverterService) Convert(ctx context.Context, amount float64, from, to string) (*domain.ConversionResult, error) {
	args := m.Called(ctx, amount, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConversionResult), args.Error(1)
}

func (m *MockCurrencyConverterService) GetRate(ctx context.Context, from, to string) (float64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockCurrencyConverterService) GetMultipleRates(ctx context.Context, from string, targets []string) (map[string]float64, error) {
	args := m.Called(ctx, from, targets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]float64), args.Error(1)
}

func (m *MockCurrencyConverterService) FormatAmount(amount float64, currencyCode, locale string) string {
	args := m.Called(amount, currencyCode, locale)
	return args.String(0)
}

func (m *MockCurrencyConverterService) HealthCheck(ctx context.Context) domain.HealthStatus {
	args := m.Called(ctx)
	return args.Get(0).(domain.HealthStatus)
}

func (m *MockCurrencyConverterService) ClearCache() {
	m.Called()
}

func (m *MockCurrencyConverterService) CacheStats() domain.CacheStats {
	args := m.Called()
	return args.Get(0).(domain.CacheStats)
}

// Ensure mock implements the interface
var _ portssvc.CurrencyConverterSvcFacade = (*MockCurrencyConverterService)(nil)

// --- Test Suite ---
type RatesHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockConverter *MockCurrencyConverterService
	jwtSecret     string
}

func (suite *RatesHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "nestfolio-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *RatesHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockConverter = new(MockCurrencyConverterService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterRatesRoutes(v1, suite.mockConverter)
}

func (suite *RatesHandlerTestSuite) doRequest(method, url string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, url, reqBody)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("user-1"))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *RatesHandlerTestSuite) TestGetRate_Success() {
	suite.mockConverter.On("GetRate", mock.Anything, "USD", "EUR").Return(0.92, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/rates/usd/eur", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.RateResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("USD", resp.From)
	suite.Equal("EUR", resp.To)
	suite.Equal(0.92, resp.Rate)
	suite.mockConverter.AssertExpectations(suite.T())
}

func (suite *RatesHandlerTestSuite) TestGetRate_UnresolvablePairIs422() {
	suite.mockConverter.On("GetRate", mock.Anything, "AAA", "BBB").
		Return(0.0, &apperrors.ConversionUnavailableError{From: "AAA", To: "BBB"}).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/rates/aaa/bbb", nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *RatesHandlerTestSuite) TestGetRate_TimeoutIs504() {
	suite.mockConverter.On("GetRate", mock.Anything, "USD", "EUR").
		Return(0.0, apperrors.ErrTimeout).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/rates/usd/eur", nil)

	suite.Equal(http.StatusGatewayTimeout, w.Code)
}

func (suite *RatesHandlerTestSuite) TestConvert_Success() {
	result := &domain.ConversionResult{
		ConvertedAmount: 92,
		Rate:            0.92,
		InverseRate:     1 / 0.92,
		Source:          domain.RateSourceAPI,
	}
	suite.mockConverter.On("Convert", mock.Anything, 100.0, "USD", "EUR").Return(result, nil).Once()
	suite.mockConverter.On("FormatAmount", 92.0, "EUR", mock.Anything).Return("€92.00").Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/rates/convert", dto.ConvertRequest{
		Amount: 100, From: "USD", To: "EUR",
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ConversionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(92.0, resp.ConvertedAmount)
	suite.Equal(0.92, resp.Rate)
	suite.Equal("api", resp.Source)
	suite.Equal("€92.00", resp.Formatted)
	suite.mockConverter.AssertExpectations(suite.T())
}

func (suite *RatesHandlerTestSuite) TestConvert_InvalidBodyIs400() {
	w := suite.doRequest(http.MethodPost, "/api/v1/rates/convert", map[string]any{
		"amount": 100, "from": "USDX", "to": "EUR",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockConverter.AssertNotCalled(suite.T(), "Convert")
}

func (suite *RatesHandlerTestSuite) TestBatchRates_Success() {
	suite.mockConverter.On("GetMultipleRates", mock.Anything, "USD", []string{"EUR", "GBP"}).
		Return(map[string]float64{"EUR": 0.92, "GBP": 0.79}, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/rates/batch", dto.BatchRatesRequest{
		From: "USD", Targets: []string{"EUR", "GBP"},
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp map[string]float64
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(0.92, resp["EUR"])
	suite.Equal(0.79, resp["GBP"])
}

func (suite *RatesHandlerTestSuite) TestClearCache() {
	suite.mockConverter.On("ClearCache").Return().Once()

	w := suite.doRequest(http.MethodDelete, "/api/v1/rates/cache", nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockConverter.AssertExpectations(suite.T())
}

func (suite *RatesHandlerTestSuite) TestCacheStats() {
	suite.mockConverter.On("CacheStats").
		Return(domain.CacheStats{Entries: 2, Keys: []string{"USD->EUR", "EUR->USD"}, TTL: "1h0m0s"}).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/rates/cache/stats", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp domain.CacheStats
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(2, resp.Entries)
}

func (suite *RatesHandlerTestSuite) TestMissingTokenIs401() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/rates/usd/eur", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockConverter.AssertNotCalled(suite.T(), "GetRate")
}

func TestRatesHandler(t *testing.T) {
	suite.Run(t, new(RatesHandlerTestSuite))
}

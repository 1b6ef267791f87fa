package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	portssvc "github.com/nestfolio/nestfolio_backend/internal/core/ports/services"
	"github.com/nestfolio/nestfolio_backend/internal/dto"
	"github.com/nestfolio/nestfolio_backend/internal/middleware"
)

// ratesHandler handles HTTP requests related to currency conversion.
type ratesHandler struct {
	converter portssvc.CurrencyConverterSvcFacade
}

func newRatesHandler(converter portssvc.CurrencyConverterSvcFacade) *ratesHandler {
	return &ratesHandler{converter: converter}
}

// RegisterRatesRoutes registers routes related to currency rates.
func RegisterRatesRoutes(rg *gin.RouterGroup, converter portssvc.CurrencyConverterSvcFacade) {
	h := newRatesHandler(converter)

	rates := rg.Group("/rates")
	{
		rates.GET("/:from/:to", h.getRate)
		rates.POST("/convert", h.convert)
		rates.POST("/batch", h.getBatchRates)
		rates.DELETE("/cache", h.clearCache)
		rates.GET("/cache/stats", h.cacheStats)
	}
}

// getRate godoc
// @Summary Get the exchange rate for a currency pair
// @Tags rates
// @Produce json
// @Param from path string true "Base currency code"
// @Param to path string true "Target currency code"
// @Success 200 {object} dto.RateResponse
// @Failure 422 {object} map[string]string "Conversion not available"
// @Security BearerAuth
// @Router /rates/{from}/{to} [get]
func (h *ratesHandler) getRate(c *gin.Context) {
	from := strings.ToUpper(c.Param("from"))
	to := strings.ToUpper(c.Param("to"))

	rate, err := h.converter.GetRate(c.Request.Context(), from, to)
	if err != nil {
		respondMarketDataError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RateResponse{From: from, To: to, Rate: rate})
}

// convert godoc
// @Summary Convert an amount between two currencies
// @Tags rates
// @Accept json
// @Produce json
// @Param conversion body dto.ConvertRequest true "Conversion details"
// @Success 200 {object} dto.ConversionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "Conversion not available"
// @Security BearerAuth
// @Router /rates/convert [post]
func (h *ratesHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for convert", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.converter.Convert(c.Request.Context(), req.Amount, req.From, req.To)
	if err != nil {
		respondMarketDataError(c, err)
		return
	}

	locale := c.GetHeader("Accept-Language")
	formatted := h.converter.FormatAmount(result.ConvertedAmount, strings.ToUpper(req.To), locale)
	c.JSON(http.StatusOK, dto.ToConversionResponse(result, formatted))
}

// getBatchRates godoc
// @Summary Get rates from one base currency to many targets
// @Tags rates
// @Accept json
// @Produce json
// @Param batch body dto.BatchRatesRequest true "Base and target currencies"
// @Success 200 {object} map[string]float64
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /rates/batch [post]
func (h *ratesHandler) getBatchRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.BatchRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for batch rates", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	rates, err := h.converter.GetMultipleRates(c.Request.Context(), req.From, req.Targets)
	if err != nil {
		respondMarketDataError(c, err)
		return
	}
	c.JSON(http.StatusOK, rates)
}

// clearCache godoc
// @Summary Drop every cached rate pair
// @Tags rates
// @Success 204
// @Security BearerAuth
// @Router /rates/cache [delete]
func (h *ratesHandler) clearCache(c *gin.Context) {
	h.converter.ClearCache()
	c.Status(http.StatusNoContent)
}

// cacheStats godoc
// @Summary Report a snapshot of the rate cache
// @Tags rates
// @Produce json
// @Success 200 {object} domain.CacheStats
// @Security BearerAuth
// @Router /rates/cache/stats [get]
func (h *ratesHandler) cacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.converter.CacheStats())
}

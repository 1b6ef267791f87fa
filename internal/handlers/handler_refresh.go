package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nestfolio/nestfolio_backend/internal/core/domain"
	portssvc "github.com/nestfolio/nestfolio_backend/internal/core/ports/services"
	"github.com/nestfolio/nestfolio_backend/internal/dto"
	"github.com/nestfolio/nestfolio_backend/internal/middleware"
)

// refreshHandler triggers price refresh runs for a household.
type refreshHandler struct {
	refresh portssvc.PriceRefreshSvcFacade
}

func newRefreshHandler(refresh portssvc.PriceRefreshSvcFacade) *refreshHandler {
	return &refreshHandler{refresh: refresh}
}

func registerRefreshRoutes(rg *gin.RouterGroup, refresh portssvc.PriceRefreshSvcFacade) {
	h := newRefreshHandler(refresh)
	rg.POST("/households/:householdID/refresh", h.refreshPrices)
	rg.GET("/accounts/:accountID/valuations", h.valuationHistory)
}

// refreshPrices godoc
// @Summary Refresh instrument prices for a household
// @Description Runs a stock, crypto, or combined price refresh. The response
// @Description always carries updated/errors/prices; a non-empty errors list
// @Description with updated > 0 is a partial success.
// @Tags refresh
// @Produce json
// @Param householdID path string true "Household ID"
// @Param type query string false "Instrument type: stock, crypto or all" default(all)
// @Success 200 {object} dto.RefreshResponse
// @Failure 400 {object} map[string]string "Unknown instrument type"
// @Security BearerAuth
// @Router /households/{householdID}/refresh [post]
func (h *refreshHandler) refreshPrices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("householdID")
	instrumentType := c.DefaultQuery("type", "all")

	var result portssvc.RefreshResult
	switch instrumentType {
	case "stock":
		result = h.refresh.RefreshStockPrices(c.Request.Context(), householdID)
	case "crypto":
		result = h.refresh.RefreshCryptoPrices(c.Request.Context(), householdID)
	case "all":
		result = h.refresh.RefreshAllPrices(c.Request.Context(), householdID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be one of stock, crypto, all"})
		return
	}

	logger.Info("Price refresh finished",
		slog.String("household_id", householdID),
		slog.String("type", instrumentType),
		slog.Int("updated", result.Updated),
		slog.Int("errors", len(result.Errors)),
	)
	c.JSON(http.StatusOK, dto.ToRefreshResponse(result))
}

// valuationHistory godoc
// @Summary List an account's valuation history
// @Description Returns valuation rows newest first. Days with several
// @Description refresh runs carry several rows; the first row per date is
// @Description the most recent one.
// @Tags refresh
// @Produce json
// @Param accountID path string true "Account ID"
// @Param limit query int false "Maximum rows" default(90)
// @Success 200 {array} domain.ValuationHistory
// @Security BearerAuth
// @Router /accounts/{accountID}/valuations [get]
func (h *refreshHandler) valuationHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "90"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return
	}

	rows, err := h.refresh.ListValuationHistory(c.Request.Context(), c.Param("accountID"), limit)
	if err != nil {
		respondMarketDataError(c, err)
		return
	}
	if rows == nil {
		rows = []domain.ValuationHistory{}
	}
	c.JSON(http.StatusOK, rows)
}

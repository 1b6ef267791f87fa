package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nestfolio/nestfolio_backend/internal/core/domain"
	portssvc "github.com/nestfolio/nestfolio_backend/internal/core/ports/services"
)

// instrumentsHandler serves instrument search (UI autocomplete) and direct
// metal spot prices.
type instrumentsHandler struct {
	stocks portssvc.StockQuoter
	crypto portssvc.CryptoQuoter
	metals portssvc.MetalPriceSvcFacade
}

func registerInstrumentRoutes(rg *gin.RouterGroup, stocks portssvc.StockQuoter, crypto portssvc.CryptoQuoter, metals portssvc.MetalPriceSvcFacade) {
	h := &instrumentsHandler{stocks: stocks, crypto: crypto, metals: metals}
	rg.GET("/instruments/search", h.search)
	rg.GET("/households/:householdID/metals/:metal/price", h.metalPrice)
}

// search godoc
// @Summary Free-text instrument lookup
// @Tags instruments
// @Produce json
// @Param type query string true "Instrument type: stock or crypto"
// @Param q query string true "Search query"
// @Success 200 {array} domain.SearchResult
// @Failure 400 {object} map[string]string "Missing or invalid parameters"
// @Security BearerAuth
// @Router /instruments/search [get]
func (h *instrumentsHandler) search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q parameter is required"})
		return
	}

	var results []domain.SearchResult
	var err error
	switch c.Query("type") {
	case "stock":
		results, err = h.stocks.Search(c.Request.Context(), query)
	case "crypto":
		results, err = h.crypto.Search(c.Request.Context(), query)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be stock or crypto"})
		return
	}
	if err != nil {
		respondMarketDataError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// metalPrice godoc
// @Summary Current spot price for a precious metal
// @Tags instruments
// @Produce json
// @Param householdID path string true "Household ID"
// @Param metal path string true "Metal code, e.g. XAU"
// @Param currency query string false "Quote currency" default(USD)
// @Param unit query string false "Unit" default(oz)
// @Success 200 {object} domain.PriceQuote
// @Failure 429 {object} map[string]string "Upstream rate limited"
// @Security BearerAuth
// @Router /households/{householdID}/metals/{metal}/price [get]
func (h *instrumentsHandler) metalPrice(c *gin.Context) {
	quote, err := h.metals.Price(
		c.Request.Context(),
		c.Param("householdID"),
		c.Param("metal"),
		c.DefaultQuery("currency", "USD"),
		c.DefaultQuery("unit", "oz"),
	)
	if err != nil {
		respondMarketDataError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

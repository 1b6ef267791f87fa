package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/nestfolio/nestfolio_backend/internal/core/domain"
	portssvc "github.com/nestfolio/nestfolio_backend/internal/core/ports/services"
)

// healthHandler serves liveness and provider connectivity probes.
type healthHandler struct {
	services *portssvc.ServiceContainer
}

func registerHealthRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	h := &healthHandler{services: services}
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/health/providers", h.providerHealth)
}

// providerHealth godoc
// @Summary Probe every market-data provider concurrently
// @Tags health
// @Produce json
// @Success 200 {array} domain.HealthStatus
// @Router /health/providers [get]
func (h *healthHandler) providerHealth(c *gin.Context) {
	checks := []portssvc.HealthChecker{
		h.services.Stocks,
		h.services.Crypto,
		h.services.Fiat,
		h.services.Metals,
		h.services.Converter,
	}

	statuses := make([]domain.HealthStatus, len(checks))
	var wg sync.WaitGroup
	for i, checker := range checks {
		wg.Add(1)
		go func(i int, checker portssvc.HealthChecker) {
			defer wg.Done()
			statuses[i] = checker.HealthCheck(c.Request.Context())
		}(i, checker)
	}
	wg.Wait()

	c.JSON(http.StatusOK, statuses)
}

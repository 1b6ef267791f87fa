package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nestfolio/nestfolio_backend/internal/apperrors"
)

// respondMarketDataError maps the market-data error taxonomy onto HTTP
// statuses: unknown instrument 404, upstream throttling 429, upstream
// failure 502, deadline 504, unresolvable pair 422.
func respondMarketDataError(c *gin.Context, err error) {
	var rateLimitErr *apperrors.RateLimitError
	var upstreamErr *apperrors.UpstreamError
	var unavailableErr *apperrors.ConversionUnavailableError

	switch {
	case errors.As(err, &unavailableErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": unavailableErr.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &rateLimitErr):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": rateLimitErr.Error()})
	case errors.Is(err, apperrors.ErrTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
	case errors.As(err, &upstreamErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": upstreamErr.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

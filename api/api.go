package api

import (
	"errors"
	"net/http"

	"github.com/frankmutethia/Aurora-sub000/internal/domain"
	"github.com/gin-gonic/gin"
)

// respondError maps domain errors to HTTP status codes. Everything is
// recoverable at this boundary; nothing here is fatal to the process.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrIncompleteBooking),
		errors.Is(err, domain.ErrPaymentDeclined):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrVehicleUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		var perr *domain.PersistenceError
		if errors.As(err, &perr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "storage unavailable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

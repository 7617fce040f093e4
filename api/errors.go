package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/gin-gonic/gin"
)

// writeError maps domain errors to HTTP statuses with a {"detail": ...} body.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrPastStartDate),
		errors.Is(err, domain.ErrDateRangeUnavailable),
		errors.Is(err, domain.ErrCarUnavailable),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrAmountOverflow),
		errors.Is(err, domain.ErrInvalidListing):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrCarNotFound),
		errors.Is(err, domain.ErrBookingNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrTransient):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"detail": "internal error"})
		return
	}
	c.JSON(status, gin.H{"detail": err.Error()})
}

func badRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": detail})
}

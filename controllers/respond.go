package controllers

import (
	"errors"
	"log"
	"net/http"

	"frontdesk-backend/services"

	"github.com/gin-gonic/gin"
)

// respondError translates the service error taxonomy into HTTP statuses. All
// of these are user-retryable; server-side failures are logged before being
// surfaced.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrBackendUnavailable):
		status = http.StatusBadGateway
	}

	if status >= 500 {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

package controllers

import (
	"net/http"

	"frontdesk-backend/services"

	"github.com/gin-gonic/gin"
)

// CheckoutController exposes the desk-facing checkout flow. Both endpoints go
// through the tolerant occupation client, so they work identically whether
// the configured occupation API is this process or an external PMS.
type CheckoutController struct {
	service *services.CheckoutService
}

func NewCheckoutController(service *services.CheckoutService) *CheckoutController {
	return &CheckoutController{service: service}
}

// GetPreview handles GET /api/rooms/:id/checkout-preview.
func (cc *CheckoutController) GetPreview(c *gin.Context) {
	preview, err := cc.service.GetCheckoutPreview(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

type checkoutPayload struct {
	ServiceChargePercentage *float64 `json:"serviceChargePercentage"`
}

// Finalize handles POST /api/rooms/:id/checkout.
func (cc *CheckoutController) Finalize(c *gin.Context) {
	var payload checkoutPayload
	var pct float64
	if err := c.ShouldBindJSON(&payload); err == nil && payload.ServiceChargePercentage != nil {
		pct = *payload.ServiceChargePercentage
	}

	summary, err := cc.service.FinalizeCheckout(c.Request.Context(), c.Param("id"), pct)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "checkout": summary})
}

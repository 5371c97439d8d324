package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"frontdesk-backend/services"

	"github.com/gin-gonic/gin"
)

// OccupationController exposes the occupation store: check-in, lookups,
// consumption tracking and the finalize command.
//
// Response shapes are part of the development contract with the desk client:
// the by-room lookup returns a bare occupation object, the list endpoint
// wraps in {"occupations": [...]}.
type OccupationController struct {
	service *services.OccupationService
}

func NewOccupationController(service *services.OccupationService) *OccupationController {
	return &OccupationController{service: service}
}

// CheckIn handles POST /api/checkin.
func (oc *OccupationController) CheckIn(c *gin.Context) {
	var req services.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid payload: " + err.Error()})
		return
	}

	occupation, err := oc.service.CheckIn(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "occupation": occupation})
}

// GetActiveByRoom handles GET /api/occupations/room/:roomId, the primary
// lookup used by the checkout flow.
func (oc *OccupationController) GetActiveByRoom(c *gin.Context) {
	roomID, err := services.ParseRoomID(c.Param("roomId"))
	if err != nil {
		respondError(c, err)
		return
	}

	occupation, err := oc.service.ActiveByRoom(roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, occupation)
}

// List handles GET /api/occupations with an optional roomId filter.
func (oc *OccupationController) List(c *gin.Context) {
	var roomID uint
	if raw := strings.TrimSpace(c.Query("roomId")); raw != "" {
		id, err := services.ParseRoomID(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		roomID = id
	}

	occupations, err := oc.service.List(roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"occupations": occupations})
}

type addConsumptionPayload struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

// AddConsumption handles POST /api/occupations/:id/consumptions.
func (oc *OccupationController) AddConsumption(c *gin.Context) {
	occupationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var payload addConsumptionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid payload: " + err.Error()})
		return
	}

	consumption, err := oc.service.AddConsumption(occupationID, payload.ProductID, payload.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, consumption)
}

type finalizePayload struct {
	ServiceChargePercentage *float64 `json:"serviceChargePercentage"`
}

// Finalize handles POST /api/occupations/:id/finalize. The body may carry a
// serviceChargePercentage; absent, the default applies.
func (oc *OccupationController) Finalize(c *gin.Context) {
	occupationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	pct := services.ServiceChargePercent()
	var payload finalizePayload
	// An empty body is fine; only a present, malformed one is rejected.
	if err := c.ShouldBindJSON(&payload); err == nil && payload.ServiceChargePercentage != nil {
		pct = *payload.ServiceChargePercentage
	}

	summary, err := oc.service.Finalize(occupationID, pct)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func pathID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		respondError(c, fmt.Errorf("%w: %s %q", services.ErrInvalidInput, name, raw))
		return 0, false
	}
	return uint(id), true
}

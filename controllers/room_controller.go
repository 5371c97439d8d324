package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"frontdesk-backend/config"
	"frontdesk-backend/models"

	"github.com/gin-gonic/gin"
)

// roomView is a room as the dashboard renders it: the occupant and stay dates
// are only attached when the room's status says they should be visible.
type roomView struct {
	models.Room
	Responsible string `json:"responsible,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
}

const dashboardTimeLayout = "2006-01-02 15:04"

// ----------------------------------------------------
// 1. Get Rooms (GET /api/rooms)
// ----------------------------------------------------

func GetRooms(c *gin.Context) {
	var rooms []models.Room
	if err := config.DB.Preload("RoomType").Order("room_number").Find(&rooms).Error; err != nil {
		log.Printf("❌ DB ERROR listing rooms: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Database error",
		})
		return
	}

	var active []models.Occupation
	if err := config.DB.Where("status = ?", models.OccupationActive).Find(&active).Error; err != nil {
		log.Printf("⚠️ failed to load active occupations for dashboard: %v", err)
	}
	byRoom := make(map[uint]models.Occupation, len(active))
	for _, occ := range active {
		byRoom[occ.RoomID] = occ
	}

	views := make([]roomView, 0, len(rooms))
	for _, room := range rooms {
		view := roomView{Room: room}
		if occ, ok := byRoom[room.ID]; ok {
			if models.ShouldShowResponsible(room.Status) {
				view.Responsible = occ.Responsible
			}
			if models.ShouldShowDates(room.Status) {
				if occ.CheckInDate != nil {
					view.StartDate = occ.CheckInDate.Format(dashboardTimeLayout)
				}
				if occ.ExpectedCheckOut != nil {
					view.EndDate = occ.ExpectedCheckOut.Format(dashboardTimeLayout)
				}
			}
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, views)
}

// ----------------------------------------------------
// 2. Create Room (POST /api/rooms)
// ----------------------------------------------------

func CreateRoom(c *gin.Context) {
	var room models.Room

	if err := c.ShouldBindJSON(&room); err != nil {
		log.Printf("❌ JSON BINDING ERROR (400): %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if room.RoomNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Room Number is required.",
		})
		return
	}

	if room.Status == "" {
		room.Status = models.StatusAvailable
	}

	if room.RoomTypeID != nil {
		var rt models.RoomType
		if err := config.DB.Where("id = ?", *room.RoomTypeID).First(&rt).Error; err != nil {
			log.Printf("❌ Invalid RoomTypeID provided: %v", *room.RoomTypeID)
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Invalid roomTypeId provided.",
			})
			return
		}
	}

	if result := config.DB.Create(&room); result.Error != nil {
		if strings.Contains(result.Error.Error(), "Duplicate entry") || strings.Contains(result.Error.Error(), "UNIQUE constraint failed") {
			log.Printf("❌ Duplicate Room Number: %s", room.RoomNumber)
			c.JSON(http.StatusConflict, gin.H{
				"status":  "error",
				"message": fmt.Sprintf("Room Number '%s' already exists.", room.RoomNumber),
			})
			return
		}

		log.Printf("❌ DB ERROR: %v", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Database error",
			"details": result.Error.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, room)
}

// ----------------------------------------------------
// 3. Update Room (PATCH /api/rooms/:id)
// ----------------------------------------------------

func UpdateRoom(c *gin.Context) {
	id := c.Param("id")
	var updateData map[string]interface{}

	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	// Protect identity and bookkeeping fields.
	delete(updateData, "id")
	delete(updateData, "created_at")
	delete(updateData, "updated_at")
	delete(updateData, "deleted_at")

	if raw, ok := updateData["status"]; ok {
		status, valid := validRoomStatus(raw)
		if !valid {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": fmt.Sprintf("Unknown room status %v", raw),
			})
			return
		}
		updateData["status"] = status
	}

	if err := config.DB.Model(&models.Room{}).Where("id = ?", id).Updates(updateData).Error; err != nil {
		log.Printf("❌ Update Error for Room %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Update failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Room updated successfully",
	})
}

func validRoomStatus(raw interface{}) (string, bool) {
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	status := strings.ToUpper(strings.TrimSpace(s))
	switch status {
	case models.StatusAvailable, models.StatusOccupied, models.StatusCleaning,
		models.StatusExpired, models.StatusMaintenance, models.StatusReserved:
		return status, true
	}
	return "", false
}

// ----------------------------------------------------
// 4. Delete Room (DELETE /api/rooms/:id)
// ----------------------------------------------------

func DeleteRoom(c *gin.Context) {
	id := c.Param("id")

	result := config.DB.Where("id = ?", id).Delete(&models.Room{})

	if result.Error != nil {
		log.Printf("❌ DB Error during deletion (ID: %s): %v", id, result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to delete room.",
		})
		return
	}

	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": fmt.Sprintf("Room with ID %s not found.", id),
		})
		return
	}

	log.Printf("✅ Room ID %s deleted.", id)

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Room deleted successfully",
	})
}

package controllers

import (
	"log"
	"net/http"

	"frontdesk-backend/config"
	"frontdesk-backend/models"

	"github.com/gin-gonic/gin"
)

// Read side of the seeded catalogs the desk forms are populated from.

func GetRoomTypes(c *gin.Context) {
	var roomTypes []models.RoomType
	if err := config.DB.Find(&roomTypes).Error; err != nil {
		log.Printf("❌ DB ERROR listing room types: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, roomTypes)
}

func GetProducts(c *gin.Context) {
	var products []models.Product
	if err := config.DB.Order("name").Find(&products).Error; err != nil {
		log.Printf("❌ DB ERROR listing products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, products)
}

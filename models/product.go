package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a minibar/consumable item that can be charged to an occupation.
type Product struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name  string  `gorm:"size:255;uniqueIndex" json:"name"`
	Price float64 `json:"price"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

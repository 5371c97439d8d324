package models

import (
	"gorm.io/gorm"
)

type Room struct {
	gorm.Model

	// Nullable so a room created without a type doesn't insert FK 0.
	RoomTypeID *uint  `json:"roomTypeId,omitempty" gorm:"column:room_type_id"`
	RoomNumber string `json:"roomNumber" gorm:"column:room_number;uniqueIndex;type:varchar(50)"`

	Status    string  `json:"status" gorm:"size:32;default:AVAILABLE"`
	Floor     string  `json:"floor" gorm:"type:varchar(10)"`
	Capacity  int     `json:"capacity"`
	DailyRate float64 `json:"dailyRate" gorm:"column:daily_rate"`
	NightRate float64 `json:"nightRate" gorm:"column:night_rate"`

	RoomType RoomType `gorm:"foreignKey:RoomTypeID" json:"roomType,omitempty"`
}

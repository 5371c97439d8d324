package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Occupation statuses. COMPLETED is terminal: no further consumptions and no
// re-finalization.
const (
	OccupationActive    = "ACTIVE"
	OccupationCompleted = "COMPLETED"
	OccupationCancelled = "CANCELLED"
)

// Occupation is one guest stay, from check-in to checkout. At most one may be
// active per room at any time.
type Occupation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	RoomID uint `gorm:"index;column:room_id" json:"roomId"`

	Responsible string     `gorm:"size:255" json:"responsible"`
	NationalID  string     `gorm:"column:national_id;size:32" json:"nationalId,omitempty"`
	Phone       string     `gorm:"size:32" json:"phone,omitempty"`
	BirthDate   *time.Time `gorm:"column:birth_date" json:"birthDate,omitempty"`

	// Companion list as entered at the desk, kept as a JSON document.
	Companions datatypes.JSON `json:"companions,omitempty"`

	CheckInDate      *time.Time `gorm:"column:check_in_date" json:"checkInDate,omitempty"`
	ExpectedCheckOut *time.Time `gorm:"column:expected_check_out" json:"expectedCheckOut,omitempty"`
	CheckedOutAt     *time.Time `gorm:"column:checked_out_at" json:"checkedOutAt,omitempty"`

	// Rate snapshot taken at check-in; billing never re-reads the room price.
	RoomRate float64 `gorm:"column:room_rate" json:"roomRate"`

	// Filled in by Finalize.
	ServiceCharge float64 `gorm:"column:service_charge" json:"serviceCharge,omitempty"`
	Total         float64 `json:"total,omitempty"`

	Status string `gorm:"size:32;default:ACTIVE" json:"status"`

	Room         Room          `gorm:"foreignKey:RoomID" json:"-"`
	Consumptions []Consumption `gorm:"foreignKey:OccupationID" json:"consumptions"`
}

// Consumption is one product line item charged to an occupation. Append-only
// while the occupation is active.
type Consumption struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`

	OccupationID uint `gorm:"index;column:occupation_id" json:"occupationId"`
	ProductID    uint `gorm:"column:product_id" json:"productId"`

	// Name and unit price are snapshots so a later product edit can't change a
	// closed bill.
	ProductName string  `gorm:"column:product_name;size:255" json:"name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `gorm:"column:unit_price" json:"unitPrice"`
	TotalPrice  float64 `gorm:"column:total_price" json:"totalPrice"`
}

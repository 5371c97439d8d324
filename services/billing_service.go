package services

import (
	"fmt"
	"time"

	"frontdesk-backend/models"
)

// CheckoutPreview is the bill shown to the guest before confirming checkout.
// It is a projection computed per request and never persisted; the finalize
// step remains the authority for the real service-charge computation, which
// bills whole elapsed days while the preview reports minute granularity.
type CheckoutPreview struct {
	RoomID           uint                 `json:"roomId"`
	OccupationID     uint                 `json:"occupationId,omitempty"`
	Responsible      string               `json:"responsible"`
	CheckInTime      string               `json:"checkInTime"`
	CheckOutTime     string               `json:"checkOutTime"`
	StayDuration     string               `json:"stayDuration"`
	RoomRate         float64              `json:"roomRate"`
	Products         []models.Consumption `json:"products"`
	SubtotalProducts float64              `json:"subtotalProducts"`
	TaxesAndFees     float64              `json:"taxesAndFees"`
	TotalAmount      float64              `json:"totalAmount"`
}

const previewTimeLayout = "2006-01-02 15:04"

// BuildCheckoutPreview computes the preview for a resolved occupation. The
// checkout instant is the record's close timestamp when present, otherwise
// the current time.
func BuildCheckoutPreview(occ models.Occupation) CheckoutPreview {
	checkOut := time.Now()
	if occ.CheckedOutAt != nil {
		checkOut = *occ.CheckedOutAt
	}

	preview := CheckoutPreview{
		RoomID:       occ.RoomID,
		OccupationID: occ.ID,
		Responsible:  occ.Responsible,
		CheckOutTime: checkOut.Format(previewTimeLayout),
		RoomRate:     occ.RoomRate,
		Products:     occ.Consumptions,
	}
	if preview.Products == nil {
		preview.Products = []models.Consumption{}
	}

	if occ.CheckInDate != nil {
		preview.CheckInTime = occ.CheckInDate.Format(previewTimeLayout)
		preview.StayDuration = FormatStayDuration(*occ.CheckInDate, checkOut)
	}

	for _, c := range preview.Products {
		preview.SubtotalProducts += lineTotal(c)
	}

	preview.TaxesAndFees = occ.ServiceCharge
	if occ.Total > 0 {
		preview.TotalAmount = occ.Total
	} else {
		preview.TotalAmount = preview.RoomRate + preview.SubtotalProducts + preview.TaxesAndFees
	}
	return preview
}

// FormatStayDuration renders the elapsed stay as "{H}h {M}min", floored to
// whole minutes. A checkout before check-in is a data inconsistency, not a
// bill item: it renders as empty rather than a negative value.
func FormatStayDuration(checkIn, checkOut time.Time) string {
	elapsed := checkOut.Sub(checkIn)
	if elapsed < 0 {
		return ""
	}
	minutes := int(elapsed.Minutes())
	return fmt.Sprintf("%dh %dmin", minutes/60, minutes%60)
}

// lineTotal defaults a missing total to quantity × unit price.
func lineTotal(c models.Consumption) float64 {
	if c.TotalPrice > 0 {
		return c.TotalPrice
	}
	return float64(c.Quantity) * c.UnitPrice
}

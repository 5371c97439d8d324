package models

import "strings"

// Room lifecycle statuses. The set is closed; anything else is treated as
// unknown and every predicate returns false for it.
const (
	StatusAvailable   = "AVAILABLE"
	StatusOccupied    = "OCCUPIED"
	StatusCleaning    = "CLEANING"
	StatusExpired     = "EXPIRED"
	StatusMaintenance = "MAINTENANCE"
	StatusReserved    = "RESERVED"
)

var (
	checkinStatuses = map[string]bool{
		StatusAvailable:   true,
		StatusReserved:    true,
		StatusCleaning:    true,
		StatusMaintenance: true,
	}
	checkoutStatuses = map[string]bool{
		StatusOccupied: true,
		StatusExpired:  true,
	}
	occupantInfoStatuses = map[string]bool{
		StatusOccupied: true,
		StatusExpired:  true,
		StatusCleaning: true,
	}
)

func normalizeStatus(status string) string {
	return strings.ToUpper(strings.TrimSpace(status))
}

// ShouldShowCheckin reports whether a room in the given status accepts a new
// check-in.
func ShouldShowCheckin(status string) bool {
	return checkinStatuses[normalizeStatus(status)]
}

// ShouldShowCheckout reports whether a room in the given status can be checked
// out.
func ShouldShowCheckout(status string) bool {
	return checkoutStatuses[normalizeStatus(status)]
}

// ShouldShowResponsible reports whether the responsible guest is displayed for
// the given status.
func ShouldShowResponsible(status string) bool {
	return occupantInfoStatuses[normalizeStatus(status)]
}

// ShouldShowDates reports whether the stay dates are displayed for the given
// status.
func ShouldShowDates(status string) bool {
	return occupantInfoStatuses[normalizeStatus(status)]
}

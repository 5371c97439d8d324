package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"frontdesk-backend/models"
	"frontdesk-backend/utils"
)

// Status strings the backends use for a stay that is still in progress.
// Matching is case-insensitive. The same vocabulary is used when resolving
// and when re-checking activity before finalize, so the two never disagree.
var activeStatusVocabulary = map[string]bool{
	"active":       true,
	"ativado":      true,
	"ativa":        true,
	"occupied":     true,
	"ocupado":      true,
	"em_andamento": true,
	"in_progress":  true,
	"checked_in":   true,
	"ongoing":      true,
	"open":         true,
}

// IsActiveRecord classifies a raw occupation record as active. An explicit
// boolean isActive/active flag or a status string in the vocabulary is
// sufficient on its own.
func IsActiveRecord(record map[string]interface{}) bool {
	if flag, ok := utils.BoolField(record, utils.ActiveFlagKeys...); ok && flag {
		return true
	}
	status := strings.ToLower(utils.StringField(record, utils.StatusKeys...))
	return activeStatusVocabulary[status]
}

// ParseRoomID validates a room identifier from the request path. It must be a
// positive integer; anything else fails before any network or database call.
func ParseRoomID(raw string) (uint, error) {
	trimmed := strings.TrimSpace(raw)
	id, err := strconv.ParseUint(trimmed, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: room id %q", ErrInvalidInput, raw)
	}
	return uint(id), nil
}

// ResolvedOccupation is the canonical form of whatever record the backend
// returned, plus the raw record for signals the canonical shape cannot carry
// (such as the boolean active flag).
type ResolvedOccupation struct {
	Occupation models.Occupation
	Raw        map[string]interface{}
}

// Active reports whether the resolved record still represents a stay in
// progress.
func (r *ResolvedOccupation) Active() bool {
	return IsActiveRecord(r.Raw)
}

// OccupationResolver locates the single active occupation for a room,
// tolerating the backend's shape drift: a primary by-room endpoint, a list
// fallback, several envelope shapes and several names per field.
type OccupationResolver struct {
	client *BackendClient
}

func NewOccupationResolver(client *BackendClient) *OccupationResolver {
	return &OccupationResolver{client: client}
}

// ResolveActive returns the active occupation for the room or ErrNotFound.
//
// The primary lookup is trusted when it returns a usable record. On any
// primary failure the list fallback is queried and a candidate picked by
// priority: active status match, then no close timestamp, then first in list.
func (r *OccupationResolver) ResolveActive(ctx context.Context, roomID uint) (*ResolvedOccupation, error) {
	if roomID == 0 {
		return nil, fmt.Errorf("%w: room id 0", ErrInvalidInput)
	}

	record, primaryErr := r.client.ActiveOccupationByRoom(ctx, roomID)
	if primaryErr == nil && usableRecord(record) {
		return r.normalize(record, roomID), nil
	}

	candidates, fallbackErr := r.client.OccupationsByRoom(ctx, roomID)
	if fallbackErr != nil {
		if errors.Is(fallbackErr, ErrNotFound) {
			return nil, fmt.Errorf("no active occupation for room %d: %w", roomID, ErrNotFound)
		}
		// Both paths failed; the fallback error carries the transport class.
		return nil, fallbackErr
	}

	picked := pickCandidate(candidates)
	if picked == nil {
		return nil, fmt.Errorf("no active occupation for room %d: %w", roomID, ErrNotFound)
	}
	return r.normalize(picked, roomID), nil
}

// usableRecord guards against envelopes that decoded into a map but carry no
// occupation content, e.g. {"success": true, "occupation": null}.
func usableRecord(record map[string]interface{}) bool {
	if len(record) == 0 {
		return false
	}
	return utils.HasAny(record, utils.OccupationIDKeys...) ||
		utils.HasAny(record, utils.StatusKeys...) ||
		utils.HasAny(record, utils.CheckInKeys...)
}

func pickCandidate(candidates []map[string]interface{}) map[string]interface{} {
	for _, c := range candidates {
		if IsActiveRecord(c) {
			return c
		}
	}
	for _, c := range candidates {
		if !utils.HasAny(c, utils.CheckOutKeys...) {
			return c
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return nil
}

// normalize maps a raw record into the canonical occupation shape using the
// ordered key-precedence tables.
func (r *OccupationResolver) normalize(record map[string]interface{}, roomID uint) *ResolvedOccupation {
	occ := models.Occupation{
		RoomID:      roomID,
		Responsible: utils.StringField(record, utils.ResponsibleKeys...),
		Status:      utils.StringField(record, utils.StatusKeys...),
	}

	if id, ok := utils.IntField(record, utils.OccupationIDKeys...); ok && id > 0 {
		occ.ID = uint(id)
	}
	if rid, ok := utils.IntField(record, utils.RoomIDKeys...); ok && rid > 0 {
		occ.RoomID = uint(rid)
	}

	occ.CheckInDate = utils.TimeField(record, utils.CheckInKeys...)
	occ.CheckedOutAt = utils.TimeField(record, utils.CheckOutKeys...)
	occ.ExpectedCheckOut = utils.TimeField(record, utils.ExpectedCheckOutKeys...)

	if rate, ok := utils.FloatField(record, utils.RoomRateKeys...); ok {
		occ.RoomRate = rate
	}
	if charge, ok := utils.FloatField(record, utils.ServiceChargeKeys...); ok {
		occ.ServiceCharge = charge
	}
	if total, ok := utils.FloatField(record, utils.TotalKeys...); ok {
		occ.Total = total
	}

	for _, item := range utils.ListField(record, utils.ConsumptionListKeys...) {
		consumption := models.Consumption{
			ProductName: utils.StringField(item, utils.ProductNameKeys...),
		}
		if id, ok := utils.IntField(item, utils.ProductIDKeys...); ok && id > 0 {
			consumption.ProductID = uint(id)
		}
		if qty, ok := utils.IntField(item, utils.QuantityKeys...); ok {
			consumption.Quantity = qty
		}
		if unit, ok := utils.FloatField(item, utils.UnitPriceKeys...); ok {
			consumption.UnitPrice = unit
		}
		if total, ok := utils.FloatField(item, utils.TotalPriceKeys...); ok {
			consumption.TotalPrice = total
		}
		occ.Consumptions = append(occ.Consumptions, consumption)
	}

	return &ResolvedOccupation{Occupation: occ, Raw: record}
}

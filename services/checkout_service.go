package services

import (
	"context"
	"fmt"
	"strconv"

	"frontdesk-backend/utils"
)

// DefaultServiceChargePercent is applied when neither the caller nor the
// environment chooses a percentage.
const DefaultServiceChargePercent = 10.0

// ServiceChargePercent returns the default percentage, overridable with the
// SERVICE_CHARGE_PERCENT environment variable.
func ServiceChargePercent() float64 {
	raw := utils.EnvOrDefault("SERVICE_CHARGE_PERCENT", "")
	if raw == "" {
		return DefaultServiceChargePercent
	}
	pct, err := strconv.ParseFloat(raw, 64)
	if err != nil || pct <= 0 {
		return DefaultServiceChargePercent
	}
	return pct
}

// CheckoutService drives the two desk-facing checkout operations: the bill
// preview and the finalize command. Both re-resolve the active occupation on
// every call; a preview fetched earlier is never trusted, since state may
// have changed in the meantime.
type CheckoutService struct {
	resolver *OccupationResolver
	client   *BackendClient
}

func NewCheckoutService(client *BackendClient) *CheckoutService {
	return &CheckoutService{
		resolver: NewOccupationResolver(client),
		client:   client,
	}
}

// GetCheckoutPreview validates the identifier, resolves the active occupation
// and computes its bill preview. The identifier check happens before any
// network call.
func (s *CheckoutService) GetCheckoutPreview(ctx context.Context, rawRoomID string) (*CheckoutPreview, error) {
	roomID, err := ParseRoomID(rawRoomID)
	if err != nil {
		return nil, err
	}

	resolved, err := s.resolver.ResolveActive(ctx, roomID)
	if err != nil {
		return nil, err
	}

	preview := BuildCheckoutPreview(resolved.Occupation)
	return &preview, nil
}

// FinalizeCheckout closes out the room's active occupation. The occupation is
// re-resolved and re-checked for activity; only when both pass is the
// finalize command issued, so a failure on either side never half-applies.
// Zero or negative percentages fall back to the default.
func (s *CheckoutService) FinalizeCheckout(ctx context.Context, rawRoomID string, serviceChargePercentage float64) (map[string]interface{}, error) {
	roomID, err := ParseRoomID(rawRoomID)
	if err != nil {
		return nil, err
	}

	resolved, err := s.resolver.ResolveActive(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if !resolved.Active() {
		return nil, fmt.Errorf("occupation not active; a new check-in is required before checkout: %w", ErrConflict)
	}
	if resolved.Occupation.ID == 0 {
		return nil, fmt.Errorf("resolved occupation for room %d has no identifier: %w", roomID, ErrNotFound)
	}

	if serviceChargePercentage <= 0 {
		serviceChargePercentage = ServiceChargePercent()
	}

	// The command targets the occupation id, not the room id.
	return s.client.FinalizeOccupation(ctx, resolved.Occupation.ID, serviceChargePercentage)
}

package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"frontdesk-backend/models"
	"frontdesk-backend/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OccupationService is the system of record for stays: check-in, consumption
// tracking and finalize. The finalize math here is the authority; the preview
// in billing_service.go is advisory.
type OccupationService struct {
	DB *gorm.DB
}

func NewOccupationService(db *gorm.DB) *OccupationService {
	return &OccupationService{DB: db}
}

type Companion struct {
	Name       string `json:"name"`
	NationalID string `json:"nationalId,omitempty"`
	BirthDate  string `json:"birthDate,omitempty"`
}

type CheckInRequest struct {
	RoomID           uint        `json:"roomId"`
	Responsible      string      `json:"responsible"`
	NationalID       string      `json:"nationalId"`
	Phone            string      `json:"phone"`
	BirthDate        string      `json:"birthDate"`
	CheckInDate      string      `json:"checkInDate"`
	ExpectedCheckOut string      `json:"expectedCheckOut"`
	StayType         string      `json:"stayType"` // "daily" or "overnight"
	Companions       []Companion `json:"companions"`
}

// CheckoutSummary is the finalized bill returned by Finalize.
type CheckoutSummary struct {
	OccupationID            uint      `json:"occupationId"`
	RoomID                  uint      `json:"roomId"`
	Responsible             string    `json:"responsible"`
	Days                    int       `json:"days"`
	RoomRate                float64   `json:"roomRate"`
	AccommodationCost       float64   `json:"accommodationCost"`
	ConsumptionTotal        float64   `json:"consumptionTotal"`
	ServiceChargePercentage float64   `json:"serviceChargePercentage"`
	ServiceCharge           float64   `json:"serviceCharge"`
	Total                   float64   `json:"total"`
	CheckedOutAt            time.Time `json:"checkedOutAt"`
	Status                  string    `json:"status"`
}

// CheckIn opens an occupation for a room. The room must be in a status that
// accepts check-in, and at most one active occupation may exist per room;
// both are verified inside the transaction under a row lock.
func (s *OccupationService) CheckIn(req CheckInRequest) (*models.Occupation, error) {
	if req.RoomID == 0 {
		return nil, fmt.Errorf("%w: room id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Responsible) == "" {
		return nil, fmt.Errorf("%w: responsible guest is required", ErrInvalidInput)
	}

	checkIn := time.Now().UTC()
	if req.CheckInDate != "" {
		parsed := utils.ParseTime(req.CheckInDate)
		if parsed == nil {
			return nil, fmt.Errorf("%w: invalid checkInDate %q", ErrInvalidInput, req.CheckInDate)
		}
		checkIn = *parsed
	}
	var expected *time.Time
	if req.ExpectedCheckOut != "" {
		expected = utils.ParseTime(req.ExpectedCheckOut)
		if expected == nil {
			return nil, fmt.Errorf("%w: invalid expectedCheckOut %q", ErrInvalidInput, req.ExpectedCheckOut)
		}
	}
	var birthDate *time.Time
	if req.BirthDate != "" {
		birthDate = utils.ParseTime(req.BirthDate)
	}

	companionsJSON, err := marshalCompanions(req.Companions)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var occupation models.Occupation
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, req.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("room %d: %w", req.RoomID, ErrNotFound)
			}
			return err
		}

		if !models.ShouldShowCheckin(room.Status) {
			return fmt.Errorf("room %d is %s and cannot receive a check-in: %w", room.ID, room.Status, ErrConflict)
		}

		var activeCount int64
		if err := tx.Model(&models.Occupation{}).
			Where("room_id = ? AND status = ?", room.ID, models.OccupationActive).
			Count(&activeCount).Error; err != nil {
			return err
		}
		if activeCount > 0 {
			return fmt.Errorf("room %d already has an active occupation: %w", room.ID, ErrConflict)
		}

		occupation = models.Occupation{
			RoomID:           room.ID,
			Responsible:      strings.TrimSpace(req.Responsible),
			NationalID:       strings.TrimSpace(req.NationalID),
			Phone:            strings.TrimSpace(req.Phone),
			BirthDate:        birthDate,
			Companions:       companionsJSON,
			CheckInDate:      &checkIn,
			ExpectedCheckOut: expected,
			RoomRate:         rateSnapshot(room, req.StayType),
			Status:           models.OccupationActive,
		}
		if err := tx.Create(&occupation).Error; err != nil {
			return fmt.Errorf("failed to create occupation: %w", err)
		}

		if err := tx.Model(&models.Room{}).
			Where("id = ?", room.ID).
			Update("status", models.StatusOccupied).Error; err != nil {
			return fmt.Errorf("failed to update room status: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &occupation, nil
}

// rateSnapshot picks the rate stored on the occupation at check-in time.
// Overnight stays use the night rate when one is configured.
func rateSnapshot(room models.Room, stayType string) float64 {
	if strings.EqualFold(strings.TrimSpace(stayType), "overnight") && room.NightRate > 0 {
		return room.NightRate
	}
	return room.DailyRate
}

func marshalCompanions(companions []Companion) (datatypes.JSON, error) {
	kept := make([]Companion, 0, len(companions))
	for _, c := range companions {
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			continue
		}
		kept = append(kept, c)
	}
	raw, err := json.Marshal(kept)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// ActiveByRoom returns the single active occupation for a room.
func (s *OccupationService) ActiveByRoom(roomID uint) (*models.Occupation, error) {
	if roomID == 0 {
		return nil, fmt.Errorf("%w: room id 0", ErrInvalidInput)
	}
	var occupation models.Occupation
	err := s.DB.
		Preload("Consumptions").
		Where("room_id = ? AND status = ?", roomID, models.OccupationActive).
		Order("id DESC").
		First(&occupation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no active occupation for room %d: %w", roomID, ErrNotFound)
		}
		return nil, err
	}
	return &occupation, nil
}

// List returns occupations, optionally filtered by room, newest first.
func (s *OccupationService) List(roomID uint) ([]models.Occupation, error) {
	query := s.DB.Preload("Consumptions").Order("created_at DESC")
	if roomID != 0 {
		query = query.Where("room_id = ?", roomID)
	}
	var occupations []models.Occupation
	if err := query.Find(&occupations).Error; err != nil {
		return nil, fmt.Errorf("failed to list occupations: %w", err)
	}
	for i := range occupations {
		if occupations[i].Consumptions == nil {
			occupations[i].Consumptions = []models.Consumption{}
		}
	}
	return occupations, nil
}

// AddConsumption appends a product line item to an active occupation. Name
// and unit price are snapshotted from the product catalog.
func (s *OccupationService) AddConsumption(occupationID, productID uint, quantity int) (*models.Consumption, error) {
	if occupationID == 0 || productID == 0 {
		return nil, fmt.Errorf("%w: occupation and product ids are required", ErrInvalidInput)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	var consumption models.Consumption
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var occupation models.Occupation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&occupation, occupationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("occupation %d: %w", occupationID, ErrNotFound)
			}
			return err
		}
		if occupation.Status != models.OccupationActive {
			return fmt.Errorf("occupation %d is %s; consumptions are closed: %w", occupationID, occupation.Status, ErrConflict)
		}

		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product %d: %w", productID, ErrNotFound)
			}
			return err
		}

		consumption = models.Consumption{
			OccupationID: occupation.ID,
			ProductID:    product.ID,
			ProductName:  product.Name,
			Quantity:     quantity,
			UnitPrice:    product.Price,
			TotalPrice:   float64(quantity) * product.Price,
		}
		return tx.Create(&consumption).Error
	})
	if txErr != nil {
		return nil, txErr
	}
	return &consumption, nil
}

// Finalize closes an occupation and bills it:
//
//	days          = ceil(elapsed / 24h), at least 1
//	accommodation = days × rate snapshot
//	serviceCharge = (accommodation + consumptions) × pct / 100
//
// The occupation becomes COMPLETED (terminal) and the room flips to CLEANING.
// Finalizing a non-active occupation fails with ErrConflict, so a repeated
// call can never double-charge.
func (s *OccupationService) Finalize(occupationID uint, serviceChargePercentage float64) (*CheckoutSummary, error) {
	if occupationID == 0 {
		return nil, fmt.Errorf("%w: occupation id 0", ErrInvalidInput)
	}
	if serviceChargePercentage < 0 {
		return nil, fmt.Errorf("%w: negative service charge percentage", ErrInvalidInput)
	}

	now := time.Now().UTC()
	var summary CheckoutSummary

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var occupation models.Occupation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Consumptions").
			First(&occupation, occupationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("occupation %d: %w", occupationID, ErrNotFound)
			}
			return err
		}
		if occupation.Status != models.OccupationActive {
			return fmt.Errorf("occupation %d is already %s: %w", occupationID, occupation.Status, ErrConflict)
		}

		days := 1
		if occupation.CheckInDate != nil {
			elapsed := now.Sub(*occupation.CheckInDate)
			days = int(math.Ceil(elapsed.Hours() / 24))
			if days < 1 {
				days = 1
			}
		}

		accommodation := float64(days) * occupation.RoomRate
		var consumptionTotal float64
		for _, c := range occupation.Consumptions {
			consumptionTotal += lineTotal(c)
		}
		serviceCharge := (accommodation + consumptionTotal) * serviceChargePercentage / 100
		total := accommodation + consumptionTotal + serviceCharge

		if err := tx.Model(&occupation).Updates(map[string]interface{}{
			"status":         models.OccupationCompleted,
			"checked_out_at": now,
			"service_charge": serviceCharge,
			"total":          total,
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Room{}).
			Where("id = ?", occupation.RoomID).
			Update("status", models.StatusCleaning).Error; err != nil {
			return err
		}

		summary = CheckoutSummary{
			OccupationID:            occupation.ID,
			RoomID:                  occupation.RoomID,
			Responsible:             occupation.Responsible,
			Days:                    days,
			RoomRate:                occupation.RoomRate,
			AccommodationCost:       accommodation,
			ConsumptionTotal:        consumptionTotal,
			ServiceChargePercentage: serviceChargePercentage,
			ServiceCharge:           serviceCharge,
			Total:                   total,
			CheckedOutAt:            now,
			Status:                  models.OccupationCompleted,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &summary, nil
}

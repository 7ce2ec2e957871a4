package services

import (
	"errors"
	"strings"
	"time"

	"github.com/ripetizioniapp/booking_engine/models"
	"gorm.io/gorm"
)

const DefaultAvailabilityRangeDays = 90

// AvailabilityProjection is the free/busy view a booking UI renders:
// the tutor's declared windows plus the slots already taken inside the
// requested range.
type AvailabilityProjection struct {
	Blocks []models.AvailabilityBlock `json:"blocks"`
	Booked []models.CallSlot          `json:"booked"`
}

func TutorAvailability(db *gorm.DB, tutorEmail string, rangeDays int) (*AvailabilityProjection, error) {
	if rangeDays <= 0 {
		rangeDays = DefaultAvailabilityRangeDays
	}

	var tutor models.Tutor
	if err := db.Where("LOWER(email) = ?", strings.ToLower(tutorEmail)).First(&tutor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTutorNotFound
		}
		return nil, err
	}

	now := time.Now()
	until := now.AddDate(0, 0, rangeDays)

	projection := &AvailabilityProjection{}

	err := db.
		Where("tutor_id = ? AND ends_at > ? AND starts_at < ?", tutor.ID, now, until).
		Order("starts_at asc").
		Find(&projection.Blocks).Error
	if err != nil {
		return nil, err
	}

	err = db.
		Preload("CallType").
		Where("tutor_id = ? AND status = ? AND starts_at >= ? AND starts_at < ?",
			tutor.ID, models.SlotStatusBooked, now, until).
		Order("starts_at asc").
		Find(&projection.Booked).Error
	if err != nil {
		return nil, err
	}

	return projection, nil
}

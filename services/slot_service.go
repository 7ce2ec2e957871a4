package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ripetizioniapp/booking_engine/models"
	"gorm.io/gorm"
)

// ReserveSlot books the slot at startTime for the tutor identified by
// email, materializing the CallSlot row on first use. The whole check
// sequence and the write run in one transaction holding the tutor row
// lock, so two concurrent reservations for overlapping intervals cannot
// both succeed.
func ReserveSlot(db *gorm.DB, tutorEmail string, startTime time.Time, callTypeSlug string) (*models.CallSlot, error) {
	var slot *models.CallSlot
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		slot, err = reserveSlotTx(tx, tutorEmail, startTime, callTypeSlug)
		return err
	})
	if err != nil {
		return nil, err
	}
	return slot, nil
}

func reserveSlotTx(tx *gorm.DB, tutorEmail string, startTime time.Time, callTypeSlug string) (*models.CallSlot, error) {
	// The tutor row lock is the mutual-exclusion point for every slot
	// write of this tutor, covering the overlap check against inserts
	// the unique index alone would not see.
	var tutor models.Tutor
	if err := forUpdate(tx).Where("LOWER(email) = ?", strings.ToLower(tutorEmail)).First(&tutor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTutorNotFound
		}
		return nil, err
	}

	var callType models.CallType
	if err := tx.Where("slug = ? AND active = ?", callTypeSlug, true).First(&callType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCallTypeInvalid
		}
		return nil, err
	}

	if !startTime.After(time.Now()) {
		return nil, ErrTimeInPast
	}

	endTime := startTime.Add(time.Duration(callType.DurationMin) * time.Minute)

	booked, err := bookedSlotsAround(tx, tutor.ID, startTime, endTime)
	if err != nil {
		return nil, err
	}
	for i := range booked {
		if booked[i].Overlaps(startTime, endTime) {
			return nil, ErrSlotConflict
		}
	}

	var covering int64
	err = tx.Model(&models.AvailabilityBlock{}).
		Where("tutor_id = ? AND starts_at <= ? AND ends_at >= ?", tutor.ID, startTime, endTime).
		Count(&covering).Error
	if err != nil {
		return nil, err
	}
	if covering == 0 {
		return nil, ErrOutsideAvailability
	}

	return upsertSlot(tx, &tutor, &callType, startTime)
}

// bookedSlotsAround loads the tutor's booked slots that could intersect
// [start, end). A slot's end is derived from its duration, so the window
// is widened by the longest session we ever sell rather than computed in
// SQL.
func bookedSlotsAround(tx *gorm.DB, tutorID uuid.UUID, start, end time.Time) ([]models.CallSlot, error) {
	const maxSessionMin = 24 * 60

	var slots []models.CallSlot
	err := tx.
		Where("tutor_id = ? AND status = ? AND starts_at < ? AND starts_at > ?",
			tutorID, models.SlotStatusBooked, end, start.Add(-maxSessionMin*time.Minute)).
		Find(&slots).Error
	return slots, err
}

// upsertSlot treats (tutor_id, starts_at) as the natural key: a free row
// left behind by a cancellation is rebooked in place, otherwise a new row
// is inserted. The unique index turns a racing insert into ErrSlotConflict.
func upsertSlot(tx *gorm.DB, tutor *models.Tutor, callType *models.CallType, startTime time.Time) (*models.CallSlot, error) {
	var slot models.CallSlot
	err := tx.Where("tutor_id = ? AND starts_at = ?", tutor.ID, startTime).First(&slot).Error
	switch {
	case err == nil:
		if slot.Status == models.SlotStatusBooked {
			return nil, ErrSlotConflict
		}
		slot.CallTypeID = callType.ID
		slot.DurationMin = callType.DurationMin
		slot.Status = models.SlotStatusBooked
		if err := tx.Save(&slot).Error; err != nil {
			return nil, err
		}
		return &slot, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		slot = models.CallSlot{
			TutorID:     tutor.ID,
			CallTypeID:  callType.ID,
			StartsAt:    startTime,
			DurationMin: callType.DurationMin,
			Status:      models.SlotStatusBooked,
		}
		if err := tx.Create(&slot).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrSlotConflict
			}
			return nil, err
		}
		return &slot, nil

	default:
		return nil, err
	}
}

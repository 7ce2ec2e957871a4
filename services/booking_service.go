package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ripetizioniapp/booking_engine/models"
	"gorm.io/gorm"
)

// ReserveAndBook reserves the slot and records the confirmed booking in
// one transaction, so a reserved slot can never be left without its
// booking. Calendar/email side effects stay with the caller; nothing
// external happens while the transaction is open.
func ReserveAndBook(db *gorm.DB, tutorEmail string, startTime time.Time, callTypeSlug, fullName, email string, note *string) (*models.Booking, error) {
	var booking *models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		slot, err := reserveSlotTx(tx, tutorEmail, startTime, callTypeSlug)
		if err != nil {
			return err
		}

		// The slot row may be a reused one whose earlier booking was
		// cancelled. Cancelled bookings stay on record, so only an
		// active booking blocks the slot.
		var active int64
		if err := tx.Model(&models.Booking{}).
			Where("slot_id = ? AND status <> ?", slot.ID, models.BookingStatusCancelled).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return ErrSlotConflict
		}

		b := models.Booking{
			SlotID:     slot.ID,
			TutorID:    slot.TutorID,
			CallTypeID: slot.CallTypeID,
			FullName:   fullName,
			Email:      email,
			Note:       note,
			Status:     models.BookingStatusConfirmed,
			BookedAt:   time.Now(),
		}
		if err := tx.Create(&b).Error; err != nil {
			return err
		}
		b.Slot = *slot
		booking = &b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// CancelBooking moves a confirmed booking to cancelled and frees its
// slot so the time can be booked again.
func CancelBooking(db *gorm.DB, bookingID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&booking, "id = ?", bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		switch booking.Status {
		case models.BookingStatusCompleted:
			return ErrAlreadyCompleted
		case models.BookingStatusCancelled:
			return ErrBookingCancelled
		}

		booking.Status = models.BookingStatusCancelled
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}

		return tx.Model(&models.CallSlot{}).
			Where("id = ?", booking.SlotID).
			Update("status", models.SlotStatusFree).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// TutorBookings lists a tutor's bookings, most recent session first.
func TutorBookings(db *gorm.DB, tutorID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := db.
		Preload("Slot").
		Preload("CallType").
		Joins("JOIN call_slots ON call_bookings.slot_id = call_slots.id").
		Where("call_bookings.tutor_id = ?", tutorID).
		Order("call_slots.starts_at desc").
		Find(&bookings).Error
	return bookings, err
}

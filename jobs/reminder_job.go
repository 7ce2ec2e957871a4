package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/ripetizioniapp/booking_engine/database"
	"github.com/ripetizioniapp/booking_engine/models"
	"github.com/ripetizioniapp/booking_engine/notifications"
	"gorm.io/gorm"
)

// remindableBookings selects confirmed bookings whose slot starts in
// [now+60m, now+65m). The window is half-open so consecutive runs never
// pick up the same slot twice.
func remindableBookings(db *gorm.DB, now time.Time) ([]models.Booking, error) {
	lowerBound := now.Add(60 * time.Minute)
	upperBound := now.Add(65 * time.Minute)

	var bookings []models.Booking
	err := db.
		Preload("Slot").
		Preload("Tutor").
		Joins("JOIN call_slots ON call_bookings.slot_id = call_slots.id").
		Where("call_bookings.status = ? AND call_slots.starts_at >= ? AND call_slots.starts_at < ?",
			models.BookingStatusConfirmed, lowerBound, upperBound).
		Find(&bookings).Error
	return bookings, err
}

// SendCallReminders mails both sides of every confirmed booking that
// starts in about an hour. Runs every five minutes; the half-open
// five-minute window keeps each booking reminded exactly once even when
// a slot starts right on a window boundary.
func SendCallReminders() {
	log.Println("Running job: SendCallReminders...")

	upcomingBookings, err := remindableBookings(database.DB, time.Now())
	if err != nil {
		log.Printf("Error checking for upcoming calls: %v", err)
		return
	}

	if len(upcomingBookings) == 0 {
		return
	}

	for _, booking := range upcomingBookings {
		log.Printf("Sending reminder for booking ID: %s", booking.ID)

		emailSubject := "Promemoria: la tua chiamata inizia tra un'ora"
		emailBody := fmt.Sprintf(
			"<h1>Promemoria</h1><p>La tua chiamata è in programma alle %s.</p>",
			booking.Slot.StartsAt.Format("15:04"),
		)

		go notifications.SendEmail(booking.FullName, booking.Email, emailSubject, emailBody)
		go notifications.SendEmail(booking.Tutor.FullName, booking.Tutor.Email, emailSubject, emailBody)
	}
}

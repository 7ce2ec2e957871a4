package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ripetizioniapp/booking_engine/models"
	"gorm.io/gorm"
)

// The digest day boundary is the platform's home timezone, not the
// server's.
var romeLocation = mustLoadRome()

func mustLoadRome() *time.Location {
	loc, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		log.Printf("🔥 Failed to load Europe/Rome timezone, digest windows will use UTC: %v", err)
		return time.UTC
	}
	return loc
}

// WithinDigestHour reports whether it is currently the first hour of
// the day in Rome, the window the scheduled digest run belongs to.
func WithinDigestHour() bool {
	return time.Now().In(romeLocation).Hour() == 0
}

// DailyDigest is the day's booking sheet handed to the mail sender.
type DailyDigest struct {
	Date        time.Time
	WindowStart time.Time
	WindowEnd   time.Time
	Bookings    []models.Booking
}

// DigestWindow computes [dayStart, dayEnd) in UTC for "today" in Rome
// local time at the given instant.
func DigestWindow(now time.Time) (time.Time, time.Time) {
	local := now.In(romeLocation)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, romeLocation)
	dayEnd := dayStart.AddDate(0, 0, 1)
	return dayStart.UTC(), dayEnd.UTC()
}

// BuildDailyDigest gathers today's non-cancelled bookings, ordered by
// start time. Read-only: re-running it mutates nothing.
func BuildDailyDigest(db *gorm.DB, now time.Time) (*DailyDigest, error) {
	windowStart, windowEnd := DigestWindow(now)

	var bookings []models.Booking
	err := db.
		Preload("Slot").
		Preload("Tutor").
		Preload("CallType").
		Joins("JOIN call_slots ON call_bookings.slot_id = call_slots.id").
		Where("call_bookings.status <> ? AND call_slots.starts_at >= ? AND call_slots.starts_at < ?",
			models.BookingStatusCancelled, windowStart, windowEnd).
		Order("call_slots.starts_at asc").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}

	return &DailyDigest{
		Date:        now.In(romeLocation),
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		Bookings:    bookings,
	}, nil
}

// RenderDigestHTML formats the digest for the staff mail.
func (d *DailyDigest) RenderDigestHTML() string {
	var b strings.Builder

	fmt.Fprintf(&b, "<h1>Chiamate di oggi — %s</h1>", d.Date.Format("02/01/2006"))

	if len(d.Bookings) == 0 {
		b.WriteString("<p>Nessuna chiamata in programma oggi.</p>")
		return b.String()
	}

	b.WriteString("<ul>")
	for _, booking := range d.Bookings {
		start := booking.Slot.StartsAt.In(romeLocation)
		fmt.Fprintf(&b, "<li><b>%s</b> — %s (%s, %d min) con %s",
			start.Format("15:04"),
			booking.FullName,
			booking.CallType.Name,
			booking.Slot.DurationMin,
			booking.Tutor.FullName,
		)
		if booking.Note != nil && *booking.Note != "" {
			fmt.Fprintf(&b, "<br/><i>%s</i>", *booking.Note)
		}
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")

	return b.String()
}

package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sentinel errors returned by the booking and ledger services. Handlers
// translate them into HTTP status codes; anything else is a store failure.
var (
	ErrTutorNotFound       = errors.New("tutor not found")
	ErrCallTypeInvalid     = errors.New("call type missing or inactive")
	ErrTimeInPast          = errors.New("start time is in the past")
	ErrSlotConflict        = errors.New("slot already booked")
	ErrOutsideAvailability = errors.New("requested time is outside the tutor's availability")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrAlreadyCompleted    = errors.New("booking already completed")
	ErrBookingCancelled    = errors.New("booking has been cancelled")
	ErrStudentNotFound     = errors.New("student not found")
	ErrNoStudentLinked     = errors.New("no student linked to this booking")
	ErrNoHoursAvailable    = errors.New("student has no hours available")
)

// forUpdate adds a SELECT ... FOR UPDATE clause on Postgres. SQLite has
// no FOR UPDATE syntax; its writes serialize on the database lock anyway.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

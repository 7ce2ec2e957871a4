package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/ripetizioniapp/booking_engine/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// minChargeableHours guards against zero or negative charges from
// degenerate durations or overrides.
var minChargeableHours = decimal.NewFromFloat(0.25)

// MatchSource tags how the hours ledger tied a booking to a student.
type MatchSource string

const (
	MatchExplicit   MatchSource = "explicit"
	MatchEmail      MatchSource = "email"
	MatchAssignment MatchSource = "assignment"
	MatchNone       MatchSource = "none"
)

type CompletionResult struct {
	HoursDeducted decimal.Decimal `json:"hours_deducted"`
	TutorID       uuid.UUID       `json:"tutor_id"`
	StudentID     uuid.UUID       `json:"student_id"`
	Matched       MatchSource     `json:"matched"`
}

// CompleteBooking marks a confirmed booking completed and moves the
// session's hours from the student's prepaid balance to the tutor's
// owed balance. All four writes and the already-completed check commit
// as a single transaction; the booking and student rows are locked so a
// retry or a concurrent completion can never deduct twice.
//
// The deduction is clamped to the hours the student actually has left:
// a short balance yields a partial charge, not an error. Only a balance
// of zero fails, with ErrNoHoursAvailable.
func CompleteBooking(db *gorm.DB, bookingID uuid.UUID, explicitStudentID *uuid.UUID, hoursOverride *float64) (*CompletionResult, error) {
	var result *CompletionResult
	err := db.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
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

		var slot models.CallSlot
		if err := tx.First(&slot, "id = ?", booking.SlotID).Error; err != nil {
			return err
		}

		hours := decimal.NewFromInt(int64(slot.DurationMin)).Div(decimal.NewFromInt(60))
		// hoursOverride is a count of hours, not minutes: 1.5 means an
		// hour and a half, replacing the slot-derived duration.
		if hoursOverride != nil {
			hours = decimal.NewFromFloat(*hoursOverride)
		}
		if hours.LessThan(minChargeableHours) {
			hours = minChargeableHours
		}

		student, matched, err := resolveStudent(tx, &booking, explicitStudentID)
		if err != nil {
			return err
		}

		hoursToDeduct := decimal.Min(hours, student.HoursPaid)
		if !hoursToDeduct.IsPositive() {
			return ErrNoHoursAvailable
		}

		var tutor models.Tutor
		if err := forUpdate(tx).First(&tutor, "id = ?", booking.TutorID).Error; err != nil {
			return err
		}

		tutor.HoursDue = tutor.HoursDue.Add(hoursToDeduct)
		if err := tx.Save(&tutor).Error; err != nil {
			return err
		}

		student.HoursConsumed = student.HoursConsumed.Add(hoursToDeduct)
		student.HoursPaid = student.HoursPaid.Sub(hoursToDeduct)
		if err := tx.Save(student).Error; err != nil {
			return err
		}

		session := models.TutorSession{
			TutorID:    booking.TutorID,
			StudentID:  student.ID,
			Duration:   hoursToDeduct,
			HappenedAt: slot.StartsAt,
			Note:       booking.FullName,
		}
		if err := tx.Create(&session).Error; err != nil {
			return err
		}

		booking.Status = models.BookingStatusCompleted
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}

		result = &CompletionResult{
			HoursDeducted: hoursToDeduct,
			TutorID:       booking.TutorID,
			StudentID:     student.ID,
			Matched:       matched,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// resolveStudent picks the student to charge, first match wins:
// an explicit id, then a case-insensitive email match against the
// booking, then the assigned student with the highest remaining
// balance. Every branch locks the student row it returns, since the
// caller is about to mutate the balance.
func resolveStudent(tx *gorm.DB, booking *models.Booking, explicitStudentID *uuid.UUID) (*models.Student, MatchSource, error) {
	if explicitStudentID != nil {
		var student models.Student
		if err := forUpdate(tx).First(&student, "id = ?", *explicitStudentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, MatchNone, ErrStudentNotFound
			}
			return nil, MatchNone, err
		}
		return &student, MatchExplicit, nil
	}

	email := strings.ToLower(strings.TrimSpace(booking.Email))
	if email != "" {
		var student models.Student
		err := forUpdate(tx).
			Where("LOWER(student_email) = ? OR LOWER(parent_email) = ?", email, email).
			First(&student).Error
		if err == nil {
			return &student, MatchEmail, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, MatchNone, err
		}
	}

	student, err := assignedStudentWithBalance(tx, booking.TutorID)
	if err != nil {
		return nil, MatchNone, err
	}
	if student == nil {
		return nil, MatchNone, ErrNoStudentLinked
	}
	return student, MatchAssignment, nil
}

// assignedStudentWithBalance returns the tutor's assigned student with
// the largest positive prepaid balance, or nil when none qualifies.
// Assignment comes either from the student's own assigned_tutor_id or
// from a tutor_assignments row.
func assignedStudentWithBalance(tx *gorm.DB, tutorID uuid.UUID) (*models.Student, error) {
	var assignedIDs []uuid.UUID
	err := tx.Model(&models.TutorAssignment{}).
		Where("tutor_id = ?", tutorID).
		Pluck("student_id", &assignedIDs).Error
	if err != nil {
		return nil, err
	}

	query := forUpdate(tx).Where("assigned_tutor_id = ?", tutorID)
	if len(assignedIDs) > 0 {
		query = forUpdate(tx).Where("assigned_tutor_id = ? OR id IN ?", tutorID, assignedIDs)
	}

	var candidates []models.Student
	if err := query.Find(&candidates).Error; err != nil {
		return nil, err
	}

	// Balance comparison happens here rather than in SQL so decimal
	// semantics do not depend on the column's storage affinity.
	var best *models.Student
	for i := range candidates {
		if !candidates[i].HoursPaid.IsPositive() {
			continue
		}
		if best == nil || candidates[i].HoursPaid.GreaterThan(best.HoursPaid) {
			best = &candidates[i]
		}
	}
	return best, nil
}

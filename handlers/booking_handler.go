package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/ripetizioniapp/booking_engine/calendar"
	"github.com/ripetizioniapp/booking_engine/database"
	"github.com/ripetizioniapp/booking_engine/middleware"
	"github.com/ripetizioniapp/booking_engine/models"
	"github.com/ripetizioniapp/booking_engine/notifications"
	"github.com/ripetizioniapp/booking_engine/services"
)

var validate = validator.New()

type ReserveAndBookRequest struct {
	TutorEmail   string `json:"tutor_email" validate:"required,email"`
	StartTime    string `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	CallTypeSlug string `json:"call_type" validate:"required"`
	FullName     string `json:"full_name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Note         string `json:"note,omitempty"`
}

// ReserveAndBook is the public booking form endpoint: it reserves the
// slot and records the confirmed booking atomically, then fires the
// calendar invite and confirmation mails best-effort.
func ReserveAndBook(c *fiber.Ctx) error {
	var req ReserveAndBookRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON", "code": "bad_request"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "code": "bad_request"})
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start_time", "code": "bad_request"})
	}

	var note *string
	if trimmed := strings.TrimSpace(req.Note); trimmed != "" {
		note = &trimmed
	}

	booking, err := services.ReserveAndBook(database.DB, req.TutorEmail, startTime, req.CallTypeSlug, req.FullName, req.Email, note)
	if err != nil {
		return bookingErrorResponse(c, err)
	}

	go emitBookingSideEffects(booking, req.TutorEmail)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"booking_id": booking.ID,
		"starts_at":  booking.Slot.StartsAt,
	})
}

// emitBookingSideEffects creates the calendar event and sends the
// confirmation mails. None of it can fail the booking.
func emitBookingSideEffects(booking *models.Booking, tutorEmail string) {
	start := booking.Slot.StartsAt
	end := booking.Slot.EndsAt()

	summary := fmt.Sprintf("Chiamata con %s", booking.FullName)
	description := fmt.Sprintf("Prenotazione %s — %s", booking.ID, booking.Email)
	if booking.Note != nil {
		description += "\n" + *booking.Note
	}
	calendar.CreateEvent(summary, description, start, end)

	body := fmt.Sprintf(
		"<h1>Prenotazione confermata</h1><p>La tua chiamata è fissata per il %s alle %s.</p>",
		start.Format("02/01/2006"), start.Format("15:04"),
	)
	notifications.SendEmail(booking.FullName, booking.Email, "Prenotazione confermata", body)
	notifications.SendEmail("", tutorEmail, "Nuova prenotazione",
		fmt.Sprintf("<h1>Nuova prenotazione</h1><p>%s ha prenotato una chiamata per il %s alle %s.</p>",
			booking.FullName, start.Format("02/01/2006"), start.Format("15:04")))
}

type CompleteBookingRequest struct {
	StudentID     string   `json:"student_id,omitempty" validate:"omitempty,uuid"`
	HoursOverride *float64 `json:"hours_override,omitempty"`
}

// CompleteBooking runs the hours-ledger transfer for a finished
// session. Tutors may only complete their own bookings; admins any.
func CompleteBooking(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id", "code": "bad_request"})
	}

	var req CompleteBookingRequest
	if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON", "code": "bad_request"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "code": "bad_request"})
	}

	if err := authorizeForBooking(c, bookingID); err != nil {
		return bookingErrorResponse(c, err)
	}

	var explicitStudentID *uuid.UUID
	if req.StudentID != "" {
		id, err := uuid.Parse(req.StudentID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student id", "code": "bad_request"})
		}
		explicitStudentID = &id
	}

	result, err := services.CompleteBooking(database.DB, bookingID, explicitStudentID, req.HoursOverride)
	if err != nil {
		return bookingErrorResponse(c, err)
	}

	return c.JSON(result)
}

// CancelBooking voids a confirmed booking and frees its slot.
func CancelBooking(c *fiber.Ctx) error {
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id", "code": "bad_request"})
	}

	if err := authorizeForBooking(c, bookingID); err != nil {
		return bookingErrorResponse(c, err)
	}

	booking, err := services.CancelBooking(database.DB, bookingID)
	if err != nil {
		return bookingErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"message": "Booking cancelled", "booking_id": booking.ID})
}

// GetMyBookings lists the caller's bookings, newest session first.
func GetMyBookings(c *fiber.Ctx) error {
	tutor, err := tutorForCaller(c)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No tutor profile for this account", "code": "forbidden"})
	}

	bookings, err := services.TutorBookings(database.DB, tutor.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error", "code": "store_failure"})
	}

	return c.JSON(bookings)
}

// GetTutorAvailability is the public free/busy projection for the
// booking UI.
func GetTutorAvailability(c *fiber.Ctx) error {
	tutorEmail := c.Query("email")
	if tutorEmail == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email query parameter is required", "code": "bad_request"})
	}
	rangeDays := c.QueryInt("range_days", services.DefaultAvailabilityRangeDays)

	projection, err := services.TutorAvailability(database.DB, tutorEmail, rangeDays)
	if err != nil {
		return bookingErrorResponse(c, err)
	}

	return c.JSON(projection)
}

var errNotBookingOwner = errors.New("you are not the tutor for this booking")

// authorizeForBooking enforces tutor scoping on booking mutations:
// admins pass, tutors must own the booking. A non-nil return means the
// caller must stop before touching the ledger; writing the response is
// left to the caller so denial can never fall through into the
// operation.
func authorizeForBooking(c *fiber.Ctx, bookingID uuid.UUID) error {
	if middleware.CallerRole(c) == "admin" {
		return nil
	}

	tutor, err := tutorForCaller(c)
	if err != nil {
		return errNotBookingOwner
	}

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		return services.ErrBookingNotFound
	}
	if booking.TutorID != tutor.ID {
		return errNotBookingOwner
	}
	return nil
}

func tutorForCaller(c *fiber.Ctx) (*models.Tutor, error) {
	email := middleware.CallerEmail(c)
	if email == "" {
		return nil, services.ErrTutorNotFound
	}

	var tutor models.Tutor
	if err := database.DB.Where("LOWER(email) = ?", strings.ToLower(email)).First(&tutor).Error; err != nil {
		return nil, services.ErrTutorNotFound
	}
	return &tutor, nil
}

// bookingErrorResponse maps service sentinels onto HTTP statuses with a
// machine-readable code, so the admin UI can distinguish "top up hours"
// from "fix the student link" from "offer another time".
func bookingErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errNotBookingOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error(), "code": "forbidden"})
	case errors.Is(err, services.ErrTutorNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error(), "code": "tutor_not_found"})
	case errors.Is(err, services.ErrCallTypeInvalid):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error(), "code": "call_type_invalid"})
	case errors.Is(err, services.ErrBookingNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error(), "code": "booking_not_found"})
	case errors.Is(err, services.ErrStudentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error(), "code": "student_not_found"})
	case errors.Is(err, services.ErrTimeInPast):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "code": "time_in_past"})
	case errors.Is(err, services.ErrOutsideAvailability):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "code": "outside_availability"})
	case errors.Is(err, services.ErrSlotConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error(), "code": "already_booked"})
	case errors.Is(err, services.ErrAlreadyCompleted):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error(), "code": "already_completed"})
	case errors.Is(err, services.ErrBookingCancelled):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error(), "code": "booking_cancelled"})
	case errors.Is(err, services.ErrNoStudentLinked):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error(), "code": "no_student_linked"})
	case errors.Is(err, services.ErrNoHoursAvailable):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error(), "code": "no_hours_available"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error", "code": "store_failure"})
	}
}

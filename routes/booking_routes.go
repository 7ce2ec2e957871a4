package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ripetizioniapp/booking_engine/handlers"
	"github.com/ripetizioniapp/booking_engine/middleware"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// The booking form is public; students book without an account.
	api.Post("/bookings", handlers.ReserveAndBook)
	api.Get("/tutors/availability", handlers.GetTutorAvailability)

	tutorBooking := api.Group("/tutor/bookings", middleware.Protected(), middleware.TutorRequired())
	tutorBooking.Get("", handlers.GetMyBookings)
	tutorBooking.Post("/:bookingId/complete", handlers.CompleteBooking)
	tutorBooking.Post("/:bookingId/cancel", handlers.CancelBooking)
}

package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ripetizioniapp/booking_engine/handlers"
)

func DigestRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Guarded by the shared secret inside the handler, not by JWT: the
	// caller is a scheduler, not a person.
	api.Post("/internal/daily-digest", handlers.TriggerDailyDigest)
}

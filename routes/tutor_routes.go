package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ripetizioniapp/booking_engine/handlers"
	"github.com/ripetizioniapp/booking_engine/middleware"
)

func TutorRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	availability := api.Group("/tutor/availability", middleware.Protected(), middleware.TutorRequired())
	availability.Get("", handlers.GetMyAvailabilityBlocks)
	availability.Post("", handlers.CreateAvailabilityBlock)
	availability.Delete("/:blockId", handlers.DeleteAvailabilityBlock)
}

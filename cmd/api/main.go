package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/ripetizioniapp/booking_engine/calendar"
	config "github.com/ripetizioniapp/booking_engine/configs"
	"github.com/ripetizioniapp/booking_engine/database"
	"github.com/ripetizioniapp/booking_engine/jobs"
	"github.com/ripetizioniapp/booking_engine/notifications"
	"github.com/ripetizioniapp/booking_engine/routes"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedCallTypes()
	notifications.InitEmailService()
	calendar.InitCalendarService()

	rome, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		log.Fatalf("🔥 Failed to load Europe/Rome timezone: %v", err)
	}

	c := cron.New(cron.WithLocation(rome))
	c.AddFunc("0 0 * * *", jobs.RunDailyDigest)
	c.AddFunc("*/5 * * * *", jobs.SendCallReminders)
	c.Start()
	log.Println("✅ Cron jobs scheduled (digest at Rome midnight, reminders every 5 min).")

	app := fiber.New(fiber.Config{
		AppName:       "Ripetizioni Booking Engine",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Digest-Secret",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Europe/Rome",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.BookingRoutes(app)
	routes.TutorRoutes(app)
	routes.DigestRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	port := config.ConfigOr("PORT", "8080")
	log.Printf("✅ Server is running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}

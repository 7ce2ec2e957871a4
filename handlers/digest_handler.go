package handlers

import (
	"github.com/gofiber/fiber/v2"
	config "github.com/ripetizioniapp/booking_engine/configs"
	"github.com/ripetizioniapp/booking_engine/jobs"
	"github.com/ripetizioniapp/booking_engine/services"
)

// TriggerDailyDigest lets an external scheduler (or an operator with
// force=1) run the digest over HTTP. The caller must present the shared
// secret; without a configured secret only the in-process cron path is
// trusted and this endpoint refuses.
//
// The digest is read-only, so re-running it only re-sends the mail.
func TriggerDailyDigest(c *fiber.Ctx) error {
	secret := config.Config("DIGEST_SECRET")
	if secret == "" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Digest trigger is not enabled", "code": "forbidden"})
	}
	if c.Get("X-Digest-Secret") != secret {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Invalid digest secret", "code": "forbidden"})
	}

	force := c.QueryBool("force", false)
	if !force && !services.WithinDigestHour() {
		return c.JSON(fiber.Map{"message": "Outside the digest window, skipped. Re-run with force=1."})
	}

	if err := jobs.SendDailyDigest(); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error(), "code": "digest_failed"})
	}

	return c.JSON(fiber.Map{"message": "Digest sent"})
}

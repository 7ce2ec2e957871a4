package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/ripetizioniapp/booking_engine/database"
	"github.com/ripetizioniapp/booking_engine/models"
)

type CreateAvailabilityBlockRequest struct {
	StartsAt string `json:"starts_at" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndsAt   string `json:"ends_at" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// CreateAvailabilityBlock declares a bookable window for the calling
// tutor. Blocks may overlap each other; only slot reservations are
// checked for conflicts.
func CreateAvailabilityBlock(c *fiber.Ctx) error {
	tutor, err := tutorForCaller(c)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No tutor profile for this account", "code": "forbidden"})
	}

	var req CreateAvailabilityBlockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON", "code": "bad_request"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "code": "bad_request"})
	}

	startsAt, _ := time.Parse(time.RFC3339, req.StartsAt)
	endsAt, _ := time.Parse(time.RFC3339, req.EndsAt)

	if !startsAt.Before(endsAt) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "starts_at must be before ends_at", "code": "bad_request"})
	}

	block := models.AvailabilityBlock{
		TutorID:  tutor.ID,
		StartsAt: startsAt,
		EndsAt:   endsAt,
	}
	if err := database.DB.Create(&block).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create availability block", "code": "store_failure"})
	}

	return c.Status(fiber.StatusCreated).JSON(block)
}

func GetMyAvailabilityBlocks(c *fiber.Ctx) error {
	tutor, err := tutorForCaller(c)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No tutor profile for this account", "code": "forbidden"})
	}

	var blocks []models.AvailabilityBlock
	if err := database.DB.Where("tutor_id = ?", tutor.ID).Order("starts_at asc").Find(&blocks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error", "code": "store_failure"})
	}

	return c.JSON(blocks)
}

func DeleteAvailabilityBlock(c *fiber.Ctx) error {
	tutor, err := tutorForCaller(c)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No tutor profile for this account", "code": "forbidden"})
	}

	blockID, err := uuid.Parse(c.Params("blockId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid block id", "code": "bad_request"})
	}

	result := database.DB.Where("id = ? AND tutor_id = ?", blockID, tutor.ID).Delete(&models.AvailabilityBlock{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error", "code": "store_failure"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Availability block not found", "code": "block_not_found"})
	}

	return c.JSON(fiber.Map{"message": "Availability block deleted"})
}

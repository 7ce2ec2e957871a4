package middleware

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	config "github.com/ripetizioniapp/booking_engine/configs"
)

func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(config.Config("JWT_SECRET")),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CallerRole(c) != "admin" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Admin access required",
			})
		}
		return c.Next()
	}
}

// TutorRequired admits tutors and admins; per-booking ownership is
// checked in the handlers, where the booking is at hand.
func TutorRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := CallerRole(c)
		if role != "tutor" && role != "admin" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Tutor access required",
			})
		}
		return c.Next()
	}
}

// CallerRole reads the role claim of the authenticated request.
func CallerRole(c *fiber.Ctx) string {
	claims := callerClaims(c)
	if claims == nil {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}

// CallerEmail reads the email claim of the authenticated request. The
// identity provider is external; email is how its subjects map onto
// tutor rows here.
func CallerEmail(c *fiber.Ctx) string {
	claims := callerClaims(c)
	if claims == nil {
		return ""
	}
	email, _ := claims["email"].(string)
	return email
}

func callerClaims(c *fiber.Ctx) jwt.MapClaims {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	return claims
}

package auth

import (
	"time"

	"github.com/ayathanschool/fee-app/app/config"
	"github.com/gofiber/fiber/v2"
)

func LoginAPI(c *fiber.Ctx) error {
	type LoginRequest struct {
		Code string `json:"code"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request"})
	}

	session, ok := ResolveAccessCode(req.Code, config.AppConfig)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid access code"})
	}

	token, err := GenerateJWT(session)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to generate token"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "jwt_token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{
		"success": true,
		"data":    session,
	})
}

func LogoutAPI(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "jwt_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{"success": true})
}

func MeAPI(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    SessionFromCtx(c),
	})
}

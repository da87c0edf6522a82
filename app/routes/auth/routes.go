package auth

import (
	"strings"

	"github.com/ayathanschool/fee-app/app/models"
	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth")

	auth.Get("/login", ShowLoginPage)
	auth.Post("/login", LoginAPI)
	auth.Post("/logout", LogoutAPI)

	app.Get("/api/me", AuthMiddleware, MeAPI)
}

func ShowLoginPage(c *fiber.Ctx) error {
	if tokenString := c.Cookies("jwt_token"); tokenString != "" {
		if _, err := ValidateJWT(tokenString); err == nil {
			return c.Redirect("/")
		}
	}
	return c.Render("auth/login", fiber.Map{
		"Title": "Login - Fee Collection",
	}, "")
}

// AuthMiddleware validates the JWT and puts the session in Locals.
func AuthMiddleware(c *fiber.Ctx) error {
	tokenString := c.Cookies("jwt_token")
	if tokenString == "" {
		header := c.Get("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			tokenString = strings.TrimPrefix(header, "Bearer ")
		}
	}

	isAPIRequest := strings.HasPrefix(c.Path(), "/api/")

	if tokenString == "" {
		if isAPIRequest {
			return c.Status(401).JSON(fiber.Map{"success": false, "error": "No token found"})
		}
		return c.Redirect("/auth/login")
	}

	claims, err := ValidateJWT(tokenString)
	if err != nil {
		if isAPIRequest {
			return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid token"})
		}
		return c.Redirect("/auth/login")
	}

	c.Locals("session", models.Session{Name: claims.Name, Role: claims.Role, Class: claims.Class})
	return c.Next()
}

// RoleMiddleware lets only the listed roles through.
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := SessionFromCtx(c)
		for _, role := range allowedRoles {
			if s.Role == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "insufficient permissions")
	}
}

// SessionFromCtx returns the session AuthMiddleware stored. Routes
// behind the middleware can rely on it being present.
func SessionFromCtx(c *fiber.Ctx) models.Session {
	s, _ := c.Locals("session").(models.Session)
	return s
}

package middleware

import (
	"log"
	"strings"

	"kedai/internal/models"
	"kedai/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		tokenString := parts[1]

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		// Store claims in Fiber context for subsequent handlers
		c.Locals("user_id", claims["user_id"])
		c.Locals("username", claims["username"])
		c.Locals("role", claims["role"])

		// Continue to the next handler
		return c.Next()
	}
}

// ManagerOnly rejects any actor that does not hold the MANAGER role. Used
// for the server-rendered dashboard; the JSON API relies on the policies
// consulted inside the services.
func ManagerOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if models.Role(role) != models.RoleManager {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Manager role required",
			})
		}
		return c.Next()
	}
}

// ActorFromCtx rebuilds the acting identity from the claims the middleware
// stored.
func ActorFromCtx(c *fiber.Ctx) models.Actor {
	id, _ := c.Locals("user_id").(string)
	role, _ := c.Locals("role").(string)
	return models.Actor{ID: id, Role: models.Role(role)}
}

package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/itssafa/immoplatform/internal/dto"
	"github.com/itssafa/immoplatform/internal/models"
)

// RoleRequired allows the request through only when the token's role claim
// matches one of the given roles. Must run after JWTProtected.
func RoleRequired(roles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := Role(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Insufficient permissions",
		})
	}
}

// AdminRequired is shorthand for the administrator-only routes.
func AdminRequired() fiber.Handler {
	return RoleRequired(models.RoleAdministrateur)
}

package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/itssafa/immoplatform/internal/config"

	jwtware "github.com/gofiber/contrib/jwt"
)

// JWTOptional parses a bearer token when one is present but lets anonymous
// requests through. Used on public routes whose behavior changes for an
// identified caller, like the listing view counter.
func JWTOptional(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, _ error) error {
			return c.Next()
		},
	})
}

package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/itssafa/immoplatform/internal/services"
)

// Paths that never count as platform visits.
var visitSkipPaths = []string{
	"/api/health",
	"/api/visits",
}

// VisitTracker records each API hit after the handler chain has run, so the
// user ID is available when the route was authenticated. Recording happens
// in a goroutine and can never slow down or fail the request.
func VisitTracker(visits *services.VisitService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		path := c.Path()
		for _, skip := range visitSkipPaths {
			if strings.HasPrefix(path, skip) {
				return err
			}
		}
		if c.Method() != fiber.MethodGet {
			return err
		}

		var userID *uuid.UUID
		if id := UserID(c); id != uuid.Nil {
			userID = &id
		}

		ip := c.IP()
		userAgent := c.Get(fiber.HeaderUserAgent)
		sessionID := c.Get("X-Session-ID")

		go visits.Record(path, ip, userAgent, sessionID, userID)
		return err
	}
}

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/itssafa/immoplatform/internal/dto"
	"github.com/itssafa/immoplatform/internal/services"
)

// serviceError maps the service layer's business errors to HTTP responses.
// Anything unrecognized is a 500 with a generic message.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return respond(c, fiber.StatusNotFound, err)
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrLicenceTaken):
		return respond(c, fiber.StatusConflict, err)
	case errors.Is(err, services.ErrInvalidCredentials):
		return respond(c, fiber.StatusUnauthorized, err)
	case errors.Is(err, services.ErrAccountDisabled),
		errors.Is(err, services.ErrForbidden):
		return respond(c, fiber.StatusForbidden, err)
	case errors.Is(err, services.ErrPasswordMismatch),
		errors.Is(err, services.ErrPasswordUnchanged),
		errors.Is(err, services.ErrQuotaExceeded):
		return respond(c, fiber.StatusBadRequest, err)
	case errors.Is(err, services.ErrVerificationEmail):
		return respond(c, fiber.StatusBadGateway, err)
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
}

func respond(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: message})
}

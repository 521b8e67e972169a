package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/itssafa/immoplatform/internal/dto"
	"github.com/itssafa/immoplatform/internal/services"
)

type VisitHandler struct {
	visitService *services.VisitService
}

func NewVisitHandler(visitService *services.VisitService) *VisitHandler {
	return &VisitHandler{visitService: visitService}
}

type durationRequest struct {
	SessionID       string `json:"sessionId" validate:"required"`
	DurationSeconds int64  `json:"durationSeconds" validate:"min=0"`
}

// UpdateDuration lets the frontend report how long the visitor stayed on the
// page, typically from a beforeunload beacon.
func (h *VisitHandler) UpdateDuration(c *fiber.Ctx) error {
	var req durationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	if err := h.visitService.UpdateDuration(req.SessionID, req.DurationSeconds); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Visit duration recorded"})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/itssafa/immoplatform/internal/dto"
	"github.com/itssafa/immoplatform/internal/middleware"
	"github.com/itssafa/immoplatform/internal/models"
	"github.com/itssafa/immoplatform/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.userService.List()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(users)
}

func (h *UserHandler) ListPaginated(c *fiber.Ctx) error {
	page := c.QueryInt("page", 0)
	size := c.QueryInt("size", 20)

	result, err := h.userService.ListPaginated(page, size)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(result)
}

func (h *UserHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.userService.Stats()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(stats)
}

func (h *UserHandler) Search(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return badRequest(c, "Missing search query")
	}

	users, err := h.userService.Search(query)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(users)
}

func (h *UserHandler) ListByRole(c *fiber.Ctx) error {
	role := models.UserRole(c.Params("role"))
	switch role {
	case models.RoleUtilisateur, models.RoleClientAbonne, models.RoleAgence, models.RoleAdministrateur:
	default:
		return badRequest(c, "Unknown user type")
	}

	users, err := h.userService.ListByRole(role)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(users)
}

func (h *UserHandler) ListByStatus(c *fiber.Ctx) error {
	status := models.UserStatus(c.Params("status"))
	switch status {
	case models.StatusPending, models.StatusActive, models.StatusDeleted:
	default:
		return badRequest(c, "Unknown user status")
	}

	users, err := h.userService.ListByStatus(status)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(users)
}

// ownerOrAdmin reports whether the caller may act on the given account.
func ownerOrAdmin(c *fiber.Ctx, id uuid.UUID) bool {
	return middleware.UserID(c) == id || middleware.Role(c) == models.RoleAdministrateur
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user id")
	}
	if !ownerOrAdmin(c, id) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Insufficient permissions",
		})
	}

	user, err := h.userService.GetByID(id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user id")
	}
	if !ownerOrAdmin(c, id) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Insufficient permissions",
		})
	}

	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	user, err := h.userService.Update(id, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	if err := h.userService.Delete(id); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "User deleted successfully"})
}

func (h *UserHandler) VerifyAgency(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	user, err := h.userService.VerifyAgency(id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(user)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/itssafa/immoplatform/internal/dto"
	"github.com/itssafa/immoplatform/internal/middleware"
	"github.com/itssafa/immoplatform/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
}

func NewAuthHandler(authService *services.AuthService, userService *services.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	user, err := h.userService.Register(&req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return badRequest(c, "Missing verification token")
	}

	ok, err := h.userService.VerifyEmail(token)
	if err != nil {
		return serviceError(c, err)
	}
	if !ok {
		return badRequest(c, "Invalid or already used verification token")
	}

	return c.JSON(dto.MessageResponse{Message: "Email verified successfully"})
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	user, err := h.userService.GetByID(middleware.UserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(user)
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	user, err := h.userService.Update(middleware.UserID(c), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(user)
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	if err := h.userService.ChangePassword(middleware.UserID(c), &req); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Password changed successfully"})
}

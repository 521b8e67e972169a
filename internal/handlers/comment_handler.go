package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/itssafa/immoplatform/internal/dto"
	"github.com/itssafa/immoplatform/internal/middleware"
	"github.com/itssafa/immoplatform/internal/services"
)

type CommentHandler struct {
	commentService *services.CommentService
	userService    *services.UserService
}

func NewCommentHandler(commentService *services.CommentService, userService *services.UserService) *CommentHandler {
	return &CommentHandler{commentService: commentService, userService: userService}
}

func (h *CommentHandler) Create(c *fiber.Ctx) error {
	annonceID, err := uuid.Parse(c.Params("annonceId"))
	if err != nil {
		return badRequest(c, "Invalid annonce id")
	}

	var req dto.CommentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	author, err := h.userService.GetByID(middleware.UserID(c))
	if err != nil {
		return serviceError(c, err)
	}

	comment, err := h.commentService.Create(annonceID, author, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *CommentHandler) Reply(c *fiber.Ctx) error {
	parentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return badRequest(c, "Invalid comment id")
	}

	var req dto.ReplyCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	author, err := h.userService.GetByID(middleware.UserID(c))
	if err != nil {
		return serviceError(c, err)
	}

	reply, err := h.commentService.CreateReply(parentID, author, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reply)
}

func (h *CommentHandler) ListByAnnonce(c *fiber.Ctx) error {
	annonceID, err := uuid.Parse(c.Params("annonceId"))
	if err != nil {
		return badRequest(c, "Invalid annonce id")
	}

	comments, err := h.commentService.ListByAnnonce(annonceID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(comments)
}

func (h *CommentHandler) Stats(c *fiber.Ctx) error {
	annonceID, err := uuid.Parse(c.Params("annonceId"))
	if err != nil {
		return badRequest(c, "Invalid annonce id")
	}

	stats, err := h.commentService.Stats(annonceID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(stats)
}

func (h *CommentHandler) Received(c *fiber.Ctx) error {
	page := c.QueryInt("page", 0)
	size := c.QueryInt("size", 20)

	result, err := h.commentService.ForUserListings(middleware.UserID(c), page, size)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(result)
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return badRequest(c, "Invalid comment id")
	}

	user, err := h.userService.GetByID(middleware.UserID(c))
	if err != nil {
		return serviceError(c, err)
	}

	if err := h.commentService.Delete(id, user); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Comment deleted successfully"})
}

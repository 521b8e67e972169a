package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/itssafa/immoplatform/internal/dto"
	"github.com/itssafa/immoplatform/internal/middleware"
	"github.com/itssafa/immoplatform/internal/models"
	"github.com/itssafa/immoplatform/internal/services"
)

type AnnonceHandler struct {
	annonceService *services.AnnonceService
	userService    *services.UserService
}

func NewAnnonceHandler(annonceService *services.AnnonceService, userService *services.UserService) *AnnonceHandler {
	return &AnnonceHandler{annonceService: annonceService, userService: userService}
}

func (h *AnnonceHandler) Create(c *fiber.Ctx) error {
	var req dto.AnnonceCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	user, err := h.userService.GetByID(middleware.UserID(c))
	if err != nil {
		return serviceError(c, err)
	}

	annonce, err := h.annonceService.Create(user, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(annonce)
}

func (h *AnnonceHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid annonce id")
	}

	var viewerID *uuid.UUID
	if vid := middleware.UserID(c); vid != uuid.Nil {
		viewerID = &vid
	}

	annonce, err := h.annonceService.GetByID(id, viewerID)
	if err != nil {
		return serviceError(c, err)
	}

	resp := dto.AnnonceResponse{Annonce: *annonce}
	if annonce.Createur != nil {
		resp.Createur = &dto.CreateurInfo{
			ID:       annonce.Createur.ID,
			Nom:      annonce.Createur.Nom,
			Prenom:   annonce.Createur.Prenom,
			UserType: annonce.Createur.Role,
		}
	}
	return c.JSON(resp)
}

func (h *AnnonceHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid annonce id")
	}

	var req dto.AnnonceUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	annonce, err := h.annonceService.Update(id, middleware.UserID(c), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(annonce)
}

func (h *AnnonceHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid annonce id")
	}

	user, err := h.userService.GetByID(middleware.UserID(c))
	if err != nil {
		return serviceError(c, err)
	}

	if err := h.annonceService.Delete(id, user); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Annonce deleted successfully"})
}

// Search serves both the public listing search and the authenticated one.
// An authenticated subscribed client consumes daily search quota.
func (h *AnnonceHandler) Search(c *fiber.Ctx) error {
	var req dto.AnnonceSearchRequest
	if err := c.QueryParser(&req); err != nil {
		return badRequest(c, "Invalid search parameters")
	}

	var searcher *models.User
	if id := middleware.UserID(c); id != uuid.Nil {
		if u, err := h.userService.GetByID(id); err == nil {
			searcher = u
		}
	}

	result, err := h.annonceService.Search(&req, searcher)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(result)
}

func (h *AnnonceHandler) Mine(c *fiber.Ctx) error {
	annonces, err := h.annonceService.ListByCreator(middleware.UserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(annonces)
}

func (h *AnnonceHandler) Popular(c *fiber.Ctx) error {
	annonces, err := h.annonceService.Popular(c.QueryInt("limit", 10))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(annonces)
}

func (h *AnnonceHandler) Recent(c *fiber.Ctx) error {
	annonces, err := h.annonceService.Recent(c.QueryInt("days", 7), c.QueryInt("limit", 10))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(annonces)
}

func (h *AnnonceHandler) Similar(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid annonce id")
	}

	annonces, err := h.annonceService.Similar(id, c.QueryInt("limit", 5))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(annonces)
}

func (h *AnnonceHandler) Types(c *fiber.Ctx) error {
	return c.JSON(models.TypesBien)
}

func (h *AnnonceHandler) MyStats(c *fiber.Ctx) error {
	stats, err := h.annonceService.StatsForUser(middleware.UserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(stats)
}

func (h *AnnonceHandler) GlobalStats(c *fiber.Ctx) error {
	stats, err := h.annonceService.GlobalStats()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(stats)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/itssafa/immoplatform/internal/services"
)

type StatisticsHandler struct {
	statsService *services.StatisticsService
}

func NewStatisticsHandler(statsService *services.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statsService: statsService}
}

func (h *StatisticsHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.statsService.Statistics()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(stats)
}

func (h *StatisticsHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.statsService.Dashboard()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(stats)
}

func (h *StatisticsHandler) Weekly(c *fiber.Ctx) error {
	stats, err := h.statsService.Weekly()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(stats)
}

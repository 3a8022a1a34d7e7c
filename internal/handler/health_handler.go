package handler

import (
	"github.com/gofiber/fiber/v2"

	"vibecheck/internal/insight"
)

type HealthHandler struct {
	generator insight.TextGenerator
	cache     *insight.Cache
}

func NewHealthHandler(generator insight.TextGenerator, cache *insight.Cache) *HealthHandler {
	return &HealthHandler{
		generator: generator,
		cache:     cache,
	}
}

func (h *HealthHandler) Register(r fiber.Router) {
	r.Get("/health", h.health)
}

func (h *HealthHandler) health(c *fiber.Ctx) error {
	status := fiber.Map{
		"status":    "ok",
		"generator": h.checkGenerator(),
		"cache": fiber.Map{
			"entries": h.cache.Len(),
		},
	}

	return c.JSON(status)
}

func (h *HealthHandler) checkGenerator() string {
	if h.generator == nil {
		return "not_configured"
	}
	return "configured"
}

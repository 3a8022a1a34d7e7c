package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"vibecheck/internal/github"
	"vibecheck/internal/service"
)

// VibeHandler wires HTTP → AnalyzeService.
type VibeHandler struct {
	svc service.AnalyzeService
}

// NewVibeHandler creates a new VibeHandler.
func NewVibeHandler(svc service.AnalyzeService) *VibeHandler {
	return &VibeHandler{svc: svc}
}

// Register mounts GET /repos/:owner/:name/vibe on the supplied router group.
func (h *VibeHandler) Register(r fiber.Router) {
	r.Get("/repos/:owner/:name/vibe", h.getVibe)
}

// getVibe handles GET /repos/:owner/:name/vibe
func (h *VibeHandler) getVibe(c *fiber.Ctx) error {
	owner := c.Params("owner")
	name := c.Params("name")
	if owner == "" || name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "owner and name are required")
	}

	analysis, err := h.svc.Analyze(c.UserContext(), owner, name)
	if err != nil {
		switch {
		case errors.Is(err, github.ErrNotFound):
			return fiber.NewError(fiber.StatusNotFound, "repository not found")
		case errors.Is(err, github.ErrRateLimited):
			return fiber.NewError(fiber.StatusTooManyRequests, "rate limited by upstream")
		case errors.Is(err, github.ErrAuthFailed):
			return fiber.NewError(fiber.StatusBadGateway, "upstream authentication failed")
		default:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(analysis)
}

package handler

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"vibecheck/internal/models"
	"vibecheck/internal/service"
)

// BatchHandler wires HTTP → BatchService.
type BatchHandler struct {
	svc service.BatchService
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(svc service.BatchService) *BatchHandler {
	return &BatchHandler{svc: svc}
}

// Register mounts POST /batch on the supplied router group.
func (h *BatchHandler) Register(r fiber.Router) {
	r.Post("/batch", h.runBatch)
}

type batchRequest struct {
	Repositories []models.RepoRequest `json:"repositories"`
	Parallel     bool                 `json:"parallel"`
}

// runBatch handles POST /batch. A malformed request list is the one case
// that fails wholesale; everything past validation is per-item isolated.
func (h *BatchHandler) runBatch(c *fiber.Ctx) error {
	var req batchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Repositories) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "repositories list is required")
	}
	if len(req.Repositories) > service.MaxBatchSize {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("at most %d repositories per batch", service.MaxBatchSize))
	}
	for i, r := range req.Repositories {
		if strings.TrimSpace(r.Owner) == "" || strings.TrimSpace(r.Repo) == "" {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("repositories[%d]: owner and repo are required", i))
		}
	}

	result := h.svc.RunBatch(c.UserContext(), req.Repositories, req.Parallel)
	return c.JSON(result)
}

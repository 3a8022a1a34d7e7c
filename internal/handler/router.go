package handler

import (
	"github.com/gofiber/fiber/v2"

	"vibecheck/internal/service"
)

func RegisterRoutes(app *fiber.App,
	analyzeSvc service.AnalyzeService,
	batchSvc service.BatchService,
) {

	v1 := app.Group("/api/v1")
	NewVibeHandler(analyzeSvc).Register(v1)
	NewBatchHandler(batchSvc).Register(v1)
}

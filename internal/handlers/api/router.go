package api

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the REST surface under /api.
func RegisterRoutes(router fiber.Router, activity *ActivityHandler, system *SystemHandler, extract *ExtractHandler, resolve *ResolveHandler) {
	api := router.Group("/api")

	api.Get("/health", system.GetHealth)
	api.Get("/tenants", system.GetTenants)
	api.Get("/categories", system.GetCategories)

	api.Get("/activities", activity.GetActivities)
	api.Get("/activities/stats", activity.GetStats)
	api.Get("/activities/users", activity.GetUserStats)
	api.Get("/activities/bounds", activity.GetDateBounds)

	api.Get("/users/resolve", resolve.GetResolvedUsers)

	api.Get("/extract/status", extract.GetStatus)
	api.Post("/extract", extract.PostExtract)
	api.Post("/extract/backfill", extract.PostBackfill)
}

package api

import (
	"context"
	"log/slog"
	"time"

	"fabmon/internal/categorize"
	"fabmon/internal/config"
	"fabmon/model"
	"github.com/gofiber/fiber/v2"
)

type extractionLogSource interface {
	LastExtraction(ctx context.Context) (*model.ExtractionLog, error)
}

type SystemHandler struct {
	logs      extractionLogSource
	tenants   []config.TenantConfig
	startedAt time.Time
}

type tenantResponse struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Domain string `json:"domain"`
}

type healthResponse struct {
	Status            string               `json:"status"`
	Tenants           []tenantResponse     `json:"tenants"`
	TenantsConfigured int                  `json:"tenantsConfigured"`
	LastExtraction    *model.ExtractionLog `json:"lastExtraction"`
	UptimeSeconds     float64              `json:"uptime"`
	Timestamp         time.Time            `json:"timestamp"`
}

func (h *SystemHandler) tenantList() []tenantResponse {
	list := make([]tenantResponse, 0, len(h.tenants))
	for _, tenant := range h.tenants {
		list = append(list, tenantResponse{
			ID:     tenant.ID,
			Label:  tenant.Label,
			Domain: tenant.DirectoryID,
		})
	}
	return list
}

// GetHealth reports configured tenants and the last extraction log
// entry so the dashboard can surface data staleness.
func (h *SystemHandler) GetHealth(ctx *fiber.Ctx) error {
	last, err := h.logs.LastExtraction(ctx.Context())
	if err != nil {
		slog.Error("Health check query failed", "error", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(
			NewErrorResponse(fiber.StatusInternalServerError, "Internal server error"),
		)
	}
	return ctx.JSON(NewDataResponse(healthResponse{
		Status:            "ok",
		Tenants:           h.tenantList(),
		TenantsConfigured: len(h.tenants),
		LastExtraction:    last,
		UptimeSeconds:     time.Since(h.startedAt).Seconds(),
		Timestamp:         time.Now().UTC(),
	}))
}

// GetTenants lists the configured tenants without their credentials.
func (h *SystemHandler) GetTenants(ctx *fiber.Ctx) error {
	return ctx.JSON(NewDataResponse(h.tenantList()))
}

// GetCategories serves the category catalog.
func (h *SystemHandler) GetCategories(ctx *fiber.Ctx) error {
	return ctx.JSON(NewDataResponse(categorize.Categories))
}

func NewSystemHandler(logs extractionLogSource, tenants []config.TenantConfig) *SystemHandler {
	return &SystemHandler{
		logs:      logs,
		tenants:   tenants,
		startedAt: time.Now(),
	}
}

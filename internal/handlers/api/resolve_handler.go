package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

type NameResolver interface {
	ResolveNames(ctx context.Context) (map[string]string, error)
}

type ResolveHandler struct {
	resolver NameResolver
}

// GetResolvedUsers serves the GUID-to-name mapping for app actors.
func (h *ResolveHandler) GetResolvedUsers(ctx *fiber.Ctx) error {
	names, err := h.resolver.ResolveNames(ctx.Context())
	if err != nil {
		slog.Error("Name resolution failed", "error", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(
			NewErrorResponse(fiber.StatusInternalServerError, "Internal server error"),
		)
	}
	return ctx.JSON(NewDataResponse(names))
}

func NewResolveHandler(resolver NameResolver) *ResolveHandler {
	return &ResolveHandler{
		resolver: resolver,
	}
}

package middlewares

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

type errorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler turns unhandled errors into JSON. Fiber errors keep
// their status code; anything else is an opaque 500 so internals never
// leak to the dashboard.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}
	if code == fiber.StatusInternalServerError {
		slog.Error("unhandled error", "path", ctx.Path(), "code", code, "error", err)
	}
	return ctx.Status(code).JSON(errorResponse{Error: message})
}

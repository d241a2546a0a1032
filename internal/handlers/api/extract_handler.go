package api

import (
	"errors"

	"fabmon/internal/scheduler"
	"fabmon/params"
	"github.com/gofiber/fiber/v2"
)

type ExtractionRunner interface {
	StartRun(opts scheduler.RunOptions) error
	Status() scheduler.Status
}

type ExtractHandler struct {
	runner ExtractionRunner
}

type extractRequest struct {
	Days         int  `json:"days"`
	IncludeToday bool `json:"includeToday"`
}

type extractStartedResponse struct {
	Message string `json:"message"`
	Days    int    `json:"days"`
}

func (h *ExtractHandler) startRun(ctx *fiber.Ctx, opts scheduler.RunOptions, message string) error {
	if err := h.runner.StartRun(opts); err != nil {
		if errors.Is(err, scheduler.ErrRunInProgress) {
			return ctx.Status(fiber.StatusConflict).JSON(
				NewErrorResponse(fiber.StatusConflict, "Extraction already in progress"),
			)
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(
			NewErrorResponse(fiber.StatusInternalServerError, "Internal server error"),
		)
	}
	return ctx.JSON(NewDataResponse(extractStartedResponse{
		Message: message,
		Days:    opts.DaysBack,
	}))
}

// PostExtract triggers a manual run. Body: {"days": n, "includeToday": bool}.
// The run proceeds in the background; progress is visible on the
// status endpoint.
func (h *ExtractHandler) PostExtract(ctx *fiber.Ctx) error {
	var req extractRequest
	if err := ctx.BodyParser(&req); err != nil && len(ctx.Body()) > 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(
			NewErrorResponse(fiber.StatusBadRequest, "Invalid request body"),
		)
	}
	if req.Days <= 0 {
		req.Days = 1
	}
	return h.startRun(ctx, scheduler.RunOptions{
		DaysBack:     req.Days,
		IncludeToday: req.IncludeToday,
		Trigger:      "manual",
	}, "Extraction started")
}

// PostBackfill triggers a historical pull, capped at the longest
// history the upstream retains.
func (h *ExtractHandler) PostBackfill(ctx *fiber.Ctx) error {
	var req extractRequest
	if err := ctx.BodyParser(&req); err != nil && len(ctx.Body()) > 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(
			NewErrorResponse(fiber.StatusBadRequest, "Invalid request body"),
		)
	}
	if req.Days <= 0 || req.Days > params.MaxBackfillDays {
		req.Days = params.MaxBackfillDays
	}
	return h.startRun(ctx, scheduler.RunOptions{
		DaysBack: req.Days,
		Trigger:  "backfill",
	}, "Backfill started")
}

// GetStatus serves the current run state.
func (h *ExtractHandler) GetStatus(ctx *fiber.Ctx) error {
	return ctx.JSON(NewDataResponse(h.runner.Status()))
}

func NewExtractHandler(runner ExtractionRunner) *ExtractHandler {
	return &ExtractHandler{
		runner: runner,
	}
}

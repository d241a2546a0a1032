package api

import (
	"context"
	"log/slog"
	"time"

	"fabmon/internal/activities"
	"fabmon/model"
	"fabmon/params"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cast"
)

type ActivityStore interface {
	Query(ctx context.Context, filter activities.Filter) ([]model.Activity, error)
	Stats(ctx context.Context, filter activities.StatsFilter) (*activities.Stats, error)
	UserStats(ctx context.Context, filter activities.StatsFilter) ([]activities.UserStat, error)
	DateBounds(ctx context.Context) (activities.DateBounds, error)
}

type ActivityHandler struct {
	store ActivityStore
}

// activityResponse is the wire shape of one event. The stored raw
// payload stays server side; it can be large and the dashboard never
// renders it.
type activityResponse struct {
	ID                   uint      `json:"id"`
	ActivityID           string    `json:"activity_id"`
	Timestamp            time.Time `json:"timestamp"`
	Date                 string    `json:"date"`
	Operation            string    `json:"operation"`
	UserID               string    `json:"user_id"`
	UserKey              *string   `json:"user_key,omitempty"`
	OrganizationID       *string   `json:"organization_id,omitempty"`
	TenantID             string    `json:"tenant_id"`
	TenantLabel          string    `json:"tenant_label"`
	WorkspaceName        *string   `json:"workspace_name"`
	WorkspaceID          *string   `json:"workspace_id,omitempty"`
	ItemName             *string   `json:"item_name"`
	ItemID               *string   `json:"item_id,omitempty"`
	ItemType             *string   `json:"item_type"`
	CapacityID           *string   `json:"capacity_id,omitempty"`
	CapacityName         *string   `json:"capacity_name"`
	ClientIP             *string   `json:"client_ip"`
	UserAgent            *string   `json:"user_agent,omitempty"`
	IsSuccess            bool      `json:"is_success"`
	Category             string    `json:"category"`
	Severity             string    `json:"severity"`
	ResultStatus         *string   `json:"result_status,omitempty"`
	FailureReason        *string   `json:"failure_reason,omitempty"`
	RequestID            *string   `json:"request_id,omitempty"`
	DistributionMethod   *string   `json:"distribution_method,omitempty"`
	ConsumedArtifactType *string   `json:"consumed_artifact_type,omitempty"`
}

type activitiesResponse struct {
	Count      int                `json:"count"`
	Activities []activityResponse `json:"activities"`
}

func toActivityResponse(a model.Activity) activityResponse {
	return activityResponse{
		ID:                   a.ID,
		ActivityID:           a.ActivityID,
		Timestamp:            a.Timestamp,
		Date:                 a.Date,
		Operation:            a.Operation,
		UserID:               a.UserID,
		UserKey:              a.UserKey,
		OrganizationID:       a.OrgID,
		TenantID:             a.TenantID,
		TenantLabel:          a.TenantLabel,
		WorkspaceName:        a.WorkspaceName,
		WorkspaceID:          a.WorkspaceID,
		ItemName:             a.ItemName,
		ItemID:               a.ItemID,
		ItemType:             a.ItemType,
		CapacityID:           a.CapacityID,
		CapacityName:         a.CapacityName,
		ClientIP:             a.ClientIP,
		UserAgent:            a.UserAgent,
		IsSuccess:            a.IsSuccess,
		Category:             a.Category,
		Severity:             a.Severity,
		ResultStatus:         a.ResultStatus,
		FailureReason:        a.FailureReason,
		RequestID:            a.RequestID,
		DistributionMethod:   a.DistributionMethod,
		ConsumedArtifactType: a.ConsumedArtifactType,
	}
}

// GetActivities serves the filtered event list.
func (h *ActivityHandler) GetActivities(ctx *fiber.Ctx) error {
	filter := activities.Filter{
		Tenant:    ctx.Query("tenant"),
		User:      ctx.Query("user"),
		Category:  ctx.Query("category"),
		Severity:  ctx.Query("severity"),
		Operation: ctx.Query("operation"),
		From:      ctx.Query("from"),
		To:        ctx.Query("to"),
		Days:      cast.ToInt(ctx.Query("days")),
		Search:    ctx.Query("search"),
		Limit:     cast.ToInt(ctx.Query("limit")),
		Offset:    cast.ToInt(ctx.Query("offset")),
	}

	items, err := h.store.Query(ctx.Context(), filter)
	if err != nil {
		slog.Error("Activity query failed", "error", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(
			NewErrorResponse(fiber.StatusInternalServerError, "Internal server error"),
		)
	}

	resp := activitiesResponse{
		Count:      len(items),
		Activities: make([]activityResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Activities = append(resp.Activities, toActivityResponse(item))
	}
	return ctx.JSON(NewDataResponse(resp))
}

func statsFilterFromQuery(ctx *fiber.Ctx) activities.StatsFilter {
	filter := activities.StatsFilter{
		Tenant: ctx.Query("tenant"),
		Days:   cast.ToInt(ctx.Query("days")),
		From:   ctx.Query("from"),
		To:     ctx.Query("to"),
	}
	if filter.Days == 0 && filter.From == "" && filter.To == "" {
		filter.Days = params.DefaultQueryDays
	}
	return filter
}

// GetStats serves the aggregated dashboard numbers.
func (h *ActivityHandler) GetStats(ctx *fiber.Ctx) error {
	stats, err := h.store.Stats(ctx.Context(), statsFilterFromQuery(ctx))
	if err != nil {
		slog.Error("Stats query failed", "error", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(
			NewErrorResponse(fiber.StatusInternalServerError, "Internal server error"),
		)
	}
	return ctx.JSON(NewDataResponse(stats))
}

// GetUserStats serves the per-user breakdown.
func (h *ActivityHandler) GetUserStats(ctx *fiber.Ctx) error {
	users, err := h.store.UserStats(ctx.Context(), statsFilterFromQuery(ctx))
	if err != nil {
		slog.Error("User stats query failed", "error", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(
			NewErrorResponse(fiber.StatusInternalServerError, "Internal server error"),
		)
	}
	if users == nil {
		users = []activities.UserStat{}
	}
	return ctx.JSON(NewDataResponse(users))
}

// GetDateBounds serves the min/max day present in storage, for the
// dashboard's date picker.
func (h *ActivityHandler) GetDateBounds(ctx *fiber.Ctx) error {
	bounds, err := h.store.DateBounds(ctx.Context())
	if err != nil {
		slog.Error("Date bounds query failed", "error", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(
			NewErrorResponse(fiber.StatusInternalServerError, "Internal server error"),
		)
	}
	return ctx.JSON(NewDataResponse(bounds))
}

func NewActivityHandler(store ActivityStore) *ActivityHandler {
	return &ActivityHandler{
		store: store,
	}
}

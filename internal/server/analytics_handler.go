package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	analyticsdomain "sitescope/backend/internal/analytics/domain"
	analyticssvc "sitescope/backend/internal/analytics/service"
	"sitescope/backend/internal/platform/rbac"
)

// AnalyticsHandler serves per-website traffic snapshot endpoints.
type AnalyticsHandler struct {
	analytics *analyticssvc.AnalyticsService
	guard     *rbac.Guard
}

// NewAnalyticsHandler wires an AnalyticsHandler.
func NewAnalyticsHandler(analytics *analyticssvc.AnalyticsService, guard *rbac.Guard) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, guard: guard}
}

type recordSnapshotRequest struct {
	TotalVisitors   int64            `json:"totalVisitors"`
	BotTrafficCount int64            `json:"botTrafficCount"`
	BotBreakdown    map[string]int64 `json:"botBreakdown"`
}

type snapshotResponse struct {
	ID              string           `json:"id"`
	WebsiteID       string           `json:"websiteId"`
	TotalVisitors   int64            `json:"totalVisitors"`
	BotTrafficCount int64            `json:"botTrafficCount"`
	BotBreakdown    map[string]int64 `json:"botBreakdown,omitempty"`
	RecordedAt      time.Time        `json:"recordedAt"`
}

func toSnapshotResponse(s *analyticsdomain.Snapshot) snapshotResponse {
	return snapshotResponse{
		ID:              s.ID,
		WebsiteID:       s.WebsiteID,
		TotalVisitors:   s.TotalVisitors,
		BotTrafficCount: s.BotTrafficCount,
		BotBreakdown:    s.BotBreakdown,
		RecordedAt:      s.RecordedAt,
	}
}

// Record handles POST /websites/:id/analytics.
func (h *AnalyticsHandler) Record(c echo.Context) error {
	claims, err := h.guard.Authorize(bearerToken(c))
	if err != nil {
		return mapError(err)
	}
	var req recordSnapshotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	snap, err := h.analytics.Record(c.Request().Context(), claims, analyticssvc.RecordSnapshot{
		WebsiteID:       c.Param("id"),
		TotalVisitors:   req.TotalVisitors,
		BotTrafficCount: req.BotTrafficCount,
		BotBreakdown:    req.BotBreakdown,
	})
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, toSnapshotResponse(snap))
}

// List handles GET /websites/:id/analytics?limit=N.
func (h *AnalyticsHandler) List(c echo.Context) error {
	claims, err := h.guard.Authorize(bearerToken(c))
	if err != nil {
		return mapError(err)
	}
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		limit = n
	}
	snaps, err := h.analytics.ListByWebsite(c.Request().Context(), claims, c.Param("id"), limit)
	if err != nil {
		return mapError(err)
	}
	out := make([]snapshotResponse, len(snaps))
	for i, s := range snaps {
		out[i] = toSnapshotResponse(s)
	}
	return c.JSON(http.StatusOK, out)
}

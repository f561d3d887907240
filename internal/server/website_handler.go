package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"sitescope/backend/internal/platform/rbac"
	websitedomain "sitescope/backend/internal/website/domain"
	websitesvc "sitescope/backend/internal/website/service"
)

// WebsiteHandler serves the website CRUD endpoints. Any authenticated caller
// may use them; the service confines reads and writes to the caller's tenant.
type WebsiteHandler struct {
	websites *websitesvc.WebsiteService
	guard    *rbac.Guard
}

// NewWebsiteHandler wires a WebsiteHandler.
func NewWebsiteHandler(websites *websitesvc.WebsiteService, guard *rbac.Guard) *WebsiteHandler {
	return &WebsiteHandler{websites: websites, guard: guard}
}

type createWebsiteRequest struct {
	Domain                string `json:"domain"`
	Platform              string `json:"platform"`
	DarkVisitorPropertyID string `json:"darkVisitorPropertyId"`
}

type updateWebsiteRequest struct {
	Domain                *string `json:"domain"`
	Platform              *string `json:"platform"`
	Status                *string `json:"status"`
	DarkVisitorPropertyID *string `json:"darkVisitorPropertyId"`
}

type websiteResponse struct {
	ID                    string    `json:"id"`
	Domain                string    `json:"domain"`
	Platform              string    `json:"platform"`
	Status                string    `json:"status"`
	DarkVisitorPropertyID string    `json:"darkVisitorPropertyId,omitempty"`
	ClientID              string    `json:"clientId"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

func toWebsiteResponse(w *websitedomain.Website) websiteResponse {
	return websiteResponse{
		ID:                    w.ID,
		Domain:                w.Domain,
		Platform:              string(w.Platform),
		Status:                string(w.Status),
		DarkVisitorPropertyID: w.DarkVisitorPropertyID,
		ClientID:              w.ClientID,
		CreatedAt:             w.CreatedAt,
		UpdatedAt:             w.UpdatedAt,
	}
}

// Create handles POST /websites.
func (h *WebsiteHandler) Create(c echo.Context) error {
	claims, err := h.guard.Authorize(bearerToken(c))
	if err != nil {
		return mapError(err)
	}
	var req createWebsiteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	w, err := h.websites.Create(c.Request().Context(), claims, websitesvc.CreateWebsite{
		Domain:                req.Domain,
		Platform:              websitedomain.Platform(req.Platform),
		DarkVisitorPropertyID: req.DarkVisitorPropertyID,
	})
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, toWebsiteResponse(w))
}

// Get handles GET /websites/:id.
func (h *WebsiteHandler) Get(c echo.Context) error {
	claims, err := h.guard.Authorize(bearerToken(c))
	if err != nil {
		return mapError(err)
	}
	w, err := h.websites.Get(c.Request().Context(), claims, c.Param("id"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, toWebsiteResponse(w))
}

// List handles GET /websites. Admins may pass ?tenant= to inspect another
// tenant's sites.
func (h *WebsiteHandler) List(c echo.Context) error {
	claims, err := h.guard.Authorize(bearerToken(c))
	if err != nil {
		return mapError(err)
	}
	sites, err := h.websites.List(c.Request().Context(), claims, c.QueryParam("tenant"))
	if err != nil {
		return mapError(err)
	}
	out := make([]websiteResponse, len(sites))
	for i, w := range sites {
		out[i] = toWebsiteResponse(w)
	}
	return c.JSON(http.StatusOK, out)
}

// Update handles PATCH /websites/:id.
func (h *WebsiteHandler) Update(c echo.Context) error {
	claims, err := h.guard.Authorize(bearerToken(c))
	if err != nil {
		return mapError(err)
	}
	var req updateWebsiteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	in := websitesvc.UpdateWebsite{
		Domain:                req.Domain,
		DarkVisitorPropertyID: req.DarkVisitorPropertyID,
	}
	if req.Platform != nil {
		p := websitedomain.Platform(*req.Platform)
		in.Platform = &p
	}
	if req.Status != nil {
		s := websitedomain.Status(*req.Status)
		in.Status = &s
	}
	w, err := h.websites.Update(c.Request().Context(), claims, c.Param("id"), in)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, toWebsiteResponse(w))
}

// Delete handles DELETE /websites/:id.
func (h *WebsiteHandler) Delete(c echo.Context) error {
	claims, err := h.guard.Authorize(bearerToken(c))
	if err != nil {
		return mapError(err)
	}
	if err := h.websites.Delete(c.Request().Context(), claims, c.Param("id")); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

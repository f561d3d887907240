package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	identitysvc "sitescope/backend/internal/identity/service"
)

// InvitationHandler serves the public invitation redemption endpoints. No
// credential is required: the unguessable token is the capability.
type InvitationHandler struct {
	identity *identitysvc.IdentityService
}

// NewInvitationHandler wires an InvitationHandler.
func NewInvitationHandler(identity *identitysvc.IdentityService) *InvitationHandler {
	return &InvitationHandler{identity: identity}
}

type invitationPreviewResponse struct {
	Email      string    `json:"email"`
	Name       string    `json:"name,omitempty"`
	ClientName string    `json:"clientName,omitempty"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

type acceptRequest struct {
	Token    string `json:"token"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// Validate handles GET /invitations/:token: read-only preview for UI prefill.
func (h *InvitationHandler) Validate(c echo.Context) error {
	preview, err := h.identity.ValidateInvitation(c.Request().Context(), c.Param("token"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, invitationPreviewResponse{
		Email:      preview.Email,
		Name:       preview.Name,
		ClientName: preview.ClientName,
		ExpiresAt:  preview.ExpiresAt,
	})
}

// Accept handles POST /invitations/accept: redeems the token and creates the
// MEMBER account.
func (h *InvitationHandler) Accept(c echo.Context) error {
	var req acceptRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	profile, err := h.identity.AcceptInvitation(c.Request().Context(), req.Token, req.Name, req.Password, req.Phone)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, profile)
}

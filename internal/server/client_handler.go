package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	identitysvc "sitescope/backend/internal/identity/service"
	invitationdomain "sitescope/backend/internal/invitation/domain"
	"sitescope/backend/internal/platform/rbac"
	userdomain "sitescope/backend/internal/user/domain"
)

// ClientHandler serves client onboarding and the per-client team and
// invitation endpoints. Every handler authorizes explicitly through the
// guard before touching a service.
type ClientHandler struct {
	identity *identitysvc.IdentityService
	guard    *rbac.Guard
}

// NewClientHandler wires a ClientHandler.
func NewClientHandler(identity *identitysvc.IdentityService, guard *rbac.Guard) *ClientHandler {
	return &ClientHandler{identity: identity, guard: guard}
}

type inviteRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type invitationResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Token     string    `json:"token"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

func toInvitationResponse(inv *invitationdomain.Invitation) invitationResponse {
	return invitationResponse{
		ID:        inv.ID,
		Email:     inv.Email,
		Name:      inv.Name,
		Token:     inv.Token,
		Status:    string(inv.Status),
		ExpiresAt: inv.ExpiresAt,
		CreatedAt: inv.CreatedAt,
	}
}

// Onboard handles POST /clients: an ADMIN creates a CLIENT account.
func (h *ClientHandler) Onboard(c echo.Context) error {
	if _, err := h.guard.Authorize(bearerToken(c), userdomain.RoleAdmin); err != nil {
		return mapError(err)
	}
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	profile, err := h.identity.OnboardClient(c.Request().Context(), req.toSignup())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, profile)
}

// CreateMember handles POST /clients/:id/members: direct member creation
// without an invitation. Allowed for the client itself and for admins.
func (h *ClientHandler) CreateMember(c echo.Context) error {
	clientID := c.Param("id")
	claims, err := h.guard.Authorize(bearerToken(c), userdomain.RoleClient, userdomain.RoleAdmin)
	if err != nil {
		return mapError(err)
	}
	if err := rbac.SameTenant(claims, clientID); err != nil {
		return mapError(err)
	}
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	profile, err := h.identity.CreateTeamMember(c.Request().Context(), clientID, req.toSignup())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, profile)
}

// ListMembers handles GET /clients/:id/members.
func (h *ClientHandler) ListMembers(c echo.Context) error {
	clientID := c.Param("id")
	claims, err := h.guard.Authorize(bearerToken(c), userdomain.RoleClient, userdomain.RoleAdmin)
	if err != nil {
		return mapError(err)
	}
	if err := rbac.SameTenant(claims, clientID); err != nil {
		return mapError(err)
	}
	members, err := h.identity.ListTeamMembers(c.Request().Context(), clientID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, members)
}

// Invite handles POST /clients/:id/invitations.
func (h *ClientHandler) Invite(c echo.Context) error {
	clientID := c.Param("id")
	claims, err := h.guard.Authorize(bearerToken(c), userdomain.RoleClient, userdomain.RoleAdmin)
	if err != nil {
		return mapError(err)
	}
	if err := rbac.SameTenant(claims, clientID); err != nil {
		return mapError(err)
	}
	var req inviteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	inv, err := h.identity.InviteTeamMember(c.Request().Context(), clientID, req.Email, req.Name)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, toInvitationResponse(inv))
}

// ListInvitations handles GET /clients/:id/invitations: the client's open
// invitations.
func (h *ClientHandler) ListInvitations(c echo.Context) error {
	clientID := c.Param("id")
	claims, err := h.guard.Authorize(bearerToken(c), userdomain.RoleClient, userdomain.RoleAdmin)
	if err != nil {
		return mapError(err)
	}
	if err := rbac.SameTenant(claims, clientID); err != nil {
		return mapError(err)
	}
	pending, err := h.identity.ListPendingInvitations(c.Request().Context(), clientID)
	if err != nil {
		return mapError(err)
	}
	out := make([]invitationResponse, len(pending))
	for i, inv := range pending {
		out[i] = toInvitationResponse(inv)
	}
	return c.JSON(http.StatusOK, out)
}

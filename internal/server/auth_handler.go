package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	identitysvc "sitescope/backend/internal/identity/service"
	userdomain "sitescope/backend/internal/user/domain"
)

// AuthHandler serves the public registration and login endpoints.
type AuthHandler struct {
	identity *identitysvc.IdentityService
}

// NewAuthHandler wires an AuthHandler.
func NewAuthHandler(identity *identitysvc.IdentityService) *AuthHandler {
	return &AuthHandler{identity: identity}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (r signupRequest) toSignup() identitysvc.Signup {
	return identitysvc.Signup{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Phone:    r.Phone,
		Address:  r.Address,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expiresAt"`
	TenantID  string             `json:"tenantId"`
	User      userdomain.Profile `json:"user"`
}

// Register handles POST /auth/register: self-service CLIENT signup.
func (h *AuthHandler) Register(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	profile, err := h.identity.Register(c.Request().Context(), req.toSignup())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, profile)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	res, err := h.identity.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, loginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		TenantID:  res.TenantID,
		User:      res.Profile,
	})
}

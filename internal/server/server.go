// Package server assembles the HTTP surface: echo router, middleware, and
// the JSON handlers over the services.
package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	analyticssvc "sitescope/backend/internal/analytics/service"
	identitysvc "sitescope/backend/internal/identity/service"
	"sitescope/backend/internal/platform/rbac"
	websitesvc "sitescope/backend/internal/website/service"
)

// Deps are the services the HTTP layer sits on.
type Deps struct {
	Identity  *identitysvc.IdentityService
	Websites  *websitesvc.WebsiteService
	Analytics *analyticssvc.AnalyticsService
	Guard     *rbac.Guard
	// ServiceName labels traces emitted by the otelecho middleware.
	ServiceName string
}

// New builds the echo instance with all routes registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	if d.ServiceName != "" {
		e.Use(otelecho.Middleware(d.ServiceName))
	}

	auth := NewAuthHandler(d.Identity)
	clients := NewClientHandler(d.Identity, d.Guard)
	invitations := NewInvitationHandler(d.Identity)
	websites := NewWebsiteHandler(d.Websites, d.Guard)
	analytics := NewAnalyticsHandler(d.Analytics, d.Guard)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.POST("/auth/register", auth.Register)
	e.POST("/auth/login", auth.Login)

	e.POST("/clients", clients.Onboard)
	e.POST("/clients/:id/members", clients.CreateMember)
	e.GET("/clients/:id/members", clients.ListMembers)
	e.POST("/clients/:id/invitations", clients.Invite)
	e.GET("/clients/:id/invitations", clients.ListInvitations)

	e.GET("/invitations/:token", invitations.Validate)
	e.POST("/invitations/accept", invitations.Accept)

	e.POST("/websites", websites.Create)
	e.GET("/websites", websites.List)
	e.GET("/websites/:id", websites.Get)
	e.PATCH("/websites/:id", websites.Update)
	e.DELETE("/websites/:id", websites.Delete)

	e.POST("/websites/:id/analytics", analytics.Record)
	e.GET("/websites/:id/analytics", analytics.List)

	return e
}

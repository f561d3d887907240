// server runs the HTTP API: identity, invitations, websites, and analytics.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	analyticsrepo "sitescope/backend/internal/analytics/repository"
	analyticssvc "sitescope/backend/internal/analytics/service"
	"sitescope/backend/internal/audit"
	auditrepo "sitescope/backend/internal/audit/repository"
	"sitescope/backend/internal/config"
	"sitescope/backend/internal/db"
	identitysvc "sitescope/backend/internal/identity/service"
	invitationrepo "sitescope/backend/internal/invitation/repository"
	"sitescope/backend/internal/observability/tracing"
	"sitescope/backend/internal/platform/rbac"
	"sitescope/backend/internal/security"
	"sitescope/backend/internal/server"
	userrepo "sitescope/backend/internal/user/repository"
	websiterepo "sitescope/backend/internal/website/repository"
	websitesvc "sitescope/backend/internal/website/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	shutdownTracing, err := tracing.Init(ctx, cfg.OTLPEndpoint, cfg.ServiceName, cfg.Env)
	if err != nil {
		log.Printf("tracing init failed, continuing without tracing: %v", err)
		shutdownTracing = func(context.Context) error { return nil }
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	privateKey, err := security.ParsePrivateKey(cfg.JWTPrivateKey)
	if err != nil {
		log.Fatalf("JWT_PRIVATE_KEY: %v", err)
	}
	publicKey, err := security.ParsePublicKey(cfg.JWTPublicKey)
	if err != nil {
		log.Fatalf("JWT_PUBLIC_KEY: %v", err)
	}
	tokens := security.NewTokenProvider(privateKey, publicKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL())
	hasher := security.NewHasher(cfg.BcryptCost)
	guard := rbac.NewGuard(tokens)

	auditLog := audit.NewLogger(auditrepo.NewPostgresRepository(conn))
	users := userrepo.NewPostgresRepository(conn)
	invitations := invitationrepo.NewPostgresRepository(conn)
	websites := websiterepo.NewPostgresRepository(conn)
	snapshots := analyticsrepo.NewPostgresRepository(conn)

	identity := identitysvc.NewIdentityService(users, invitations, hasher, tokens, cfg.InviteTTL(), auditLog)
	websiteService := websitesvc.NewWebsiteService(websites, auditLog)
	analyticsService := analyticssvc.NewAnalyticsService(snapshots, websites)

	e := server.New(server.Deps{
		Identity:    identity,
		Websites:    websiteService,
		Analytics:   analyticsService,
		Guard:       guard,
		ServiceName: cfg.ServiceName,
	})

	go func() {
		log.Printf("listening on %s", cfg.HTTPAddr)
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("tracing shutdown: %v", err)
	}
}

// Package service implements website tracking operations with per-tenant
// access control.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"sitescope/backend/internal/apperr"
	"sitescope/backend/internal/audit"
	"sitescope/backend/internal/platform/rbac"
	"sitescope/backend/internal/security"
	"sitescope/backend/internal/website/domain"
	"sitescope/backend/internal/website/repository"
)

// CreateWebsite is the input for registering a site for tracking.
type CreateWebsite struct {
	Domain                string
	Platform              domain.Platform
	DarkVisitorPropertyID string
}

// UpdateWebsite carries the mutable fields; nil pointers mean "leave as is".
type UpdateWebsite struct {
	Domain                *string
	Platform              *domain.Platform
	Status                *domain.Status
	DarkVisitorPropertyID *string
}

// WebsiteService manages tracked websites. Every operation is scoped to the
// caller's effective tenant: members and clients see only their own tenant's
// sites, admins see all.
type WebsiteService struct {
	websites repository.Repository
	auditLog audit.AuditLogger
}

// NewWebsiteService wires a WebsiteService.
func NewWebsiteService(websites repository.Repository, auditLog audit.AuditLogger) *WebsiteService {
	return &WebsiteService{websites: websites, auditLog: auditLog}
}

// Create registers a new website under the caller's tenant.
func (s *WebsiteService) Create(ctx context.Context, claims *security.SessionClaims, in CreateWebsite) (*domain.Website, error) {
	platform := in.Platform
	if platform == "" {
		platform = domain.PlatformOther
	}
	now := time.Now().UTC()
	w := &domain.Website{
		ID:                    uuid.New().String(),
		Domain:                normalizeDomain(in.Domain),
		Platform:              platform,
		Status:                domain.StatusPending,
		DarkVisitorPropertyID: in.DarkVisitorPropertyID,
		ClientID:              claims.TenantID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if err := s.websites.Create(ctx, w); err != nil {
		return nil, err
	}
	if s.auditLog != nil {
		s.auditLog.LogEvent(ctx, claims.TenantID, claims.UserID, "website_create", "website:"+w.ID, w.Domain)
	}
	return w, nil
}

// Get returns the website if the caller's tenant owns it.
func (s *WebsiteService) Get(ctx context.Context, claims *security.SessionClaims, id string) (*domain.Website, error) {
	return s.owned(ctx, claims, id)
}

// Update applies the non-nil fields of in to the caller's website.
func (s *WebsiteService) Update(ctx context.Context, claims *security.SessionClaims, id string, in UpdateWebsite) (*domain.Website, error) {
	w, err := s.owned(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	if in.Domain != nil {
		w.Domain = normalizeDomain(*in.Domain)
	}
	if in.Platform != nil {
		w.Platform = *in.Platform
	}
	if in.Status != nil {
		w.Status = *in.Status
	}
	if in.DarkVisitorPropertyID != nil {
		w.DarkVisitorPropertyID = *in.DarkVisitorPropertyID
	}
	w.UpdatedAt = time.Now().UTC()
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if err := s.websites.Update(ctx, w); err != nil {
		return nil, err
	}
	if s.auditLog != nil {
		s.auditLog.LogEvent(ctx, claims.TenantID, claims.UserID, "website_update", "website:"+w.ID, w.Domain)
	}
	return w, nil
}

// Delete removes the caller's website and its snapshots.
func (s *WebsiteService) Delete(ctx context.Context, claims *security.SessionClaims, id string) error {
	w, err := s.owned(ctx, claims, id)
	if err != nil {
		return err
	}
	if err := s.websites.Delete(ctx, id); err != nil {
		return err
	}
	if s.auditLog != nil {
		s.auditLog.LogEvent(ctx, claims.TenantID, claims.UserID, "website_delete", "website:"+id, w.Domain)
	}
	return nil
}

// List returns the caller's tenant's websites. tenantID overrides the scope
// for admins only; everyone else always gets their own tenant.
func (s *WebsiteService) List(ctx context.Context, claims *security.SessionClaims, tenantID string) ([]*domain.Website, error) {
	scope := claims.TenantID
	if tenantID != "" {
		if err := rbac.SameTenant(claims, tenantID); err != nil {
			return nil, err
		}
		scope = tenantID
	}
	return s.websites.ListByClient(ctx, scope)
}

// owned fetches the website and enforces tenant ownership.
func (s *WebsiteService) owned(ctx context.Context, claims *security.SessionClaims, id string) (*domain.Website, error) {
	w, err := s.websites.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, fmt.Errorf("%w: website %s", apperr.ErrNotFound, id)
	}
	if err := rbac.SameTenant(claims, w.ClientID); err != nil {
		return nil, err
	}
	return w, nil
}

func normalizeDomain(d string) string {
	return strings.ToLower(strings.TrimSpace(d))
}

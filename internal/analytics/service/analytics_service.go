// Package service records and reads analytics snapshots, tenant-checked
// through the owning website.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sitescope/backend/internal/analytics/domain"
	"sitescope/backend/internal/analytics/repository"
	"sitescope/backend/internal/apperr"
	"sitescope/backend/internal/platform/rbac"
	"sitescope/backend/internal/security"
	websitedomain "sitescope/backend/internal/website/domain"
)

// WebsiteStore is the slice of the website repository the analytics service
// needs to resolve ownership.
type WebsiteStore interface {
	GetByID(ctx context.Context, id string) (*websitedomain.Website, error)
}

// RecordSnapshot is the input for recording one traffic observation.
type RecordSnapshot struct {
	WebsiteID       string
	TotalVisitors   int64
	BotTrafficCount int64
	BotBreakdown    map[string]int64
}

// AnalyticsService stores and serves per-website traffic snapshots.
type AnalyticsService struct {
	snapshots repository.Repository
	websites  WebsiteStore
}

// NewAnalyticsService wires an AnalyticsService.
func NewAnalyticsService(snapshots repository.Repository, websites WebsiteStore) *AnalyticsService {
	return &AnalyticsService{snapshots: snapshots, websites: websites}
}

// Record appends a snapshot for a website the caller's tenant owns.
func (s *AnalyticsService) Record(ctx context.Context, claims *security.SessionClaims, in RecordSnapshot) (*domain.Snapshot, error) {
	if _, err := s.ownedWebsite(ctx, claims, in.WebsiteID); err != nil {
		return nil, err
	}
	snap := &domain.Snapshot{
		ID:              uuid.New().String(),
		WebsiteID:       in.WebsiteID,
		TotalVisitors:   in.TotalVisitors,
		BotTrafficCount: in.BotTrafficCount,
		BotBreakdown:    in.BotBreakdown,
		RecordedAt:      time.Now().UTC(),
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	if err := s.snapshots.Create(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// ListByWebsite returns the website's snapshots, newest first, if the
// caller's tenant owns the website.
func (s *AnalyticsService) ListByWebsite(ctx context.Context, claims *security.SessionClaims, websiteID string, limit int) ([]*domain.Snapshot, error) {
	if _, err := s.ownedWebsite(ctx, claims, websiteID); err != nil {
		return nil, err
	}
	return s.snapshots.ListByWebsite(ctx, websiteID, limit)
}

func (s *AnalyticsService) ownedWebsite(ctx context.Context, claims *security.SessionClaims, websiteID string) (*websitedomain.Website, error) {
	if websiteID == "" {
		return nil, fmt.Errorf("%w: website id is required", apperr.ErrInvalidArgument)
	}
	w, err := s.websites.GetByID(ctx, websiteID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, fmt.Errorf("%w: website %s", apperr.ErrNotFound, websiteID)
	}
	if err := rbac.SameTenant(claims, w.ClientID); err != nil {
		return nil, err
	}
	return w, nil
}

package repository

import (
	"context"

	"sitescope/backend/internal/analytics/domain"
)

// Repository defines persistence for analytics snapshots.
type Repository interface {
	Create(ctx context.Context, s *domain.Snapshot) error
	// ListByWebsite returns snapshots for the website, newest first,
	// capped at limit (0 means no cap).
	ListByWebsite(ctx context.Context, websiteID string, limit int) ([]*domain.Snapshot, error)
}

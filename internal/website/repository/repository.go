package repository

import (
	"context"

	"sitescope/backend/internal/website/domain"
)

// Repository defines persistence for websites.
// Get methods return (nil, nil) when the row does not exist.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Website, error)
	// Create persists a website. A duplicate (client, domain) pair fails
	// with apperr.ErrConflict.
	Create(ctx context.Context, w *domain.Website) error
	Update(ctx context.Context, w *domain.Website) error
	Delete(ctx context.Context, id string) error
	ListByClient(ctx context.Context, clientID string) ([]*domain.Website, error)
}

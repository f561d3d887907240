package repository

import (
	"context"

	"sitescope/backend/internal/user/domain"
)

// Repository defines persistence for users. Implementations hold no business
// rules beyond uniqueness; the identity service owns all state-machine logic.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create persists the user. Fails with apperr.ErrConflict when the email
	// is already taken.
	Create(ctx context.Context, u *domain.User) error
	// ListByClient returns users owned by the given client, filtered by role.
	ListByClient(ctx context.Context, clientID string, role domain.Role) ([]*domain.User, error)
}

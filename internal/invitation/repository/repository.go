package repository

import (
	"context"

	"sitescope/backend/internal/invitation/domain"
)

// Repository defines persistence for invitations. The PENDING -> ACCEPTED and
// PENDING -> EXPIRED transitions are conditional updates keyed on the current
// status so that concurrent acceptors serialize at the store: at most one
// caller observes transitioned == true per invitation.
type Repository interface {
	GetByToken(ctx context.Context, token string) (*domain.Invitation, error)
	// GetPendingByClientAndEmail returns the PENDING invitation from clientID
	// to email, or nil.
	GetPendingByClientAndEmail(ctx context.Context, clientID, email string) (*domain.Invitation, error)
	Create(ctx context.Context, inv *domain.Invitation) error
	ListPendingByClient(ctx context.Context, clientID string) ([]*domain.Invitation, error)
	// MarkAccepted transitions the invitation to ACCEPTED iff it is still
	// PENDING. Returns whether this call performed the transition.
	MarkAccepted(ctx context.Context, id string) (transitioned bool, err error)
	// MarkExpired transitions the invitation to EXPIRED iff it is still
	// PENDING. Returns whether this call performed the transition.
	MarkExpired(ctx context.Context, id string) (transitioned bool, err error)
}
